// Package votecache is the in-memory blackboard shared by the vote
// coordinator and every UI surface: one VoteCollection per voter, written only
// through Write/Update/Mutate and observed through subscriptions.
package votecache

import (
	"sync"

	"github.com/dmitrijs2005/catvote/internal/client/models"
)

// Observer is called after every committed write with the committed value.
// Observers may call Read but must not write to the store synchronously.
type Observer func(voterID string, votes models.VoteCollection)

type Store struct {
	// writeMu serialises commits together with their delivery, so observers
	// see commits in order. It is always taken before mu.
	writeMu sync.Mutex

	mu        sync.Mutex
	data      map[string]models.VoteCollection
	observers map[uint64]Observer
	nextID    uint64
}

func New() *Store {
	return &Store{
		data:      make(map[string]models.VoteCollection),
		observers: make(map[uint64]Observer),
	}
}

// Read returns the collection of voterID, empty if none was written.
func (s *Store) Read(voterID string) models.VoteCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[voterID]
}

// Write replaces the collection of voterID.
func (s *Store) Write(voterID string, votes models.VoteCollection) {
	s.Mutate(voterID, func(models.VoteCollection) (models.VoteCollection, bool) {
		return votes, true
	})
}

// Update atomically replaces the collection of voterID with fn(current).
func (s *Store) Update(voterID string, fn func(models.VoteCollection) models.VoteCollection) models.VoteCollection {
	var next models.VoteCollection
	s.Mutate(voterID, func(cur models.VoteCollection) (models.VoteCollection, bool) {
		next = fn(cur)
		return next, true
	})
	return next
}

// Mutate is the conditional form of Update: the value returned by fn is
// committed, and observers notified, only when fn reports true. fn runs
// under the store lock and must not call back into the store.
func (s *Store) Mutate(voterID string, fn func(models.VoteCollection) (models.VoteCollection, bool)) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next, ok := fn(s.data[voterID])
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.data[voterID] = next
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o(voterID, next)
	}
	return true
}

// Subscribe registers o and returns a function that unregisters it. The
// returned function may be called from inside an observer.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = o

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers, id)
		})
	}
}
