// Package voting implements optimistic voting on top of the vote cache.
//
// A vote is applied to the cache immediately under a temporary id, submitted
// to the remote service and then either replaced by the confirmed vote or
// rolled back to the collection observed before the apply. Every submission
// ends with a background re-fetch that replaces the cache with server truth
// unless a newer read or write superseded it.
//
// UI surfaces read the outcome through State and Watch and never write to
// the cache themselves.
package voting
