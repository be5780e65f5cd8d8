package models

// VoteCollection is the set of votes of one voter. It is a value type: every
// method that changes it returns a new collection and leaves the receiver and
// any earlier snapshot untouched. The zero value is an empty collection.
type VoteCollection struct {
	votes []Vote
}

// NewVoteCollection builds a collection keeping the given order.
func NewVoteCollection(votes ...Vote) VoteCollection {
	if len(votes) == 0 {
		return VoteCollection{}
	}
	cp := make([]Vote, len(votes))
	copy(cp, votes)
	return VoteCollection{votes: cp}
}

// Votes returns a copy of the votes.
func (c VoteCollection) Votes() []Vote {
	cp := make([]Vote, len(c.votes))
	copy(cp, c.votes)
	return cp
}

func (c VoteCollection) Len() int {
	return len(c.votes)
}

// Find returns the first vote for imageID.
func (c VoteCollection) Find(imageID string) (Vote, bool) {
	for _, v := range c.votes {
		if v.ImageID == imageID {
			return v, true
		}
	}
	return Vote{}, false
}

func (c VoteCollection) Has(imageID string) bool {
	_, ok := c.Find(imageID)
	return ok
}

// ByID returns the vote with the given id.
func (c VoteCollection) ByID(id string) (Vote, bool) {
	for _, v := range c.votes {
		if v.ID == id {
			return v, true
		}
	}
	return Vote{}, false
}

// With returns a collection with v appended.
func (c VoteCollection) With(v Vote) VoteCollection {
	next := make([]Vote, 0, len(c.votes)+1)
	next = append(next, c.votes...)
	next = append(next, v)
	return VoteCollection{votes: next}
}

// Without returns a collection without the vote carrying id.
func (c VoteCollection) Without(id string) VoteCollection {
	next := make([]Vote, 0, len(c.votes))
	for _, v := range c.votes {
		if v.ID != id {
			next = append(next, v)
		}
	}
	return VoteCollection{votes: next}
}

// Replace swaps the vote carrying oldID for v. A vote already carrying v.ID
// is dropped first so the confirmed vote never appears twice.
func (c VoteCollection) Replace(oldID string, v Vote) VoteCollection {
	return c.Without(oldID).Without(v.ID).With(v)
}

// Equal reports whether both collections hold the same votes in the same order.
func (c VoteCollection) Equal(o VoteCollection) bool {
	if len(c.votes) != len(o.votes) {
		return false
	}
	for i := range c.votes {
		a, b := c.votes[i], o.votes[i]
		if a.ID != b.ID || a.ImageID != b.ImageID || a.VoterID != b.VoterID ||
			a.Value != b.Value || !a.CreatedAt.Equal(b.CreatedAt) {
			return false
		}
	}
	return true
}

// Filter returns a collection of the votes for which keep reports true.
func (c VoteCollection) Filter(keep func(Vote) bool) VoteCollection {
	next := make([]Vote, 0, len(c.votes))
	for _, v := range c.votes {
		if keep(v) {
			next = append(next, v)
		}
	}
	return VoteCollection{votes: next}
}
