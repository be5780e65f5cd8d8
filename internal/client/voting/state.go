package voting

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/catvote/internal/client/models"
)

// VotingState is what a UI surface knows about one image.
type VotingState struct {
	HasVoted     bool
	Vote         models.Vote
	IsSubmitting bool
	IsError      bool
	Err          error
	Phase        Phase
}

func (s VotingState) equal(o VotingState) bool {
	return s.HasVoted == o.HasVoted &&
		s.IsSubmitting == o.IsSubmitting &&
		s.IsError == o.IsError &&
		errText(s.Err) == errText(o.Err) &&
		s.Phase == o.Phase &&
		s.Vote.ID == o.Vote.ID &&
		s.Vote.ImageID == o.Vote.ImageID &&
		s.Vote.Value == o.Vote.Value &&
		s.Vote.CreatedAt.Equal(o.Vote.CreatedAt)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// State projects the cache and the attempt bookkeeping for imageID.
func (c *Coordinator) State(ctx context.Context, imageID string) VotingState {
	return c.stateOf(c.ids.GetID(ctx), imageID)
}

func (c *Coordinator) stateOf(voterID, imageID string) VotingState {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s VotingState
	if a, ok := c.attempts[attemptKey{voterID: voterID, imageID: imageID}]; ok {
		s.Phase = a.phase
		s.IsSubmitting = a.phase == Submitting
		s.IsError = a.phase == Failed
		s.Err = a.err
	}

	if v, ok := c.cache.Read(voterID).Find(imageID); ok && !s.IsError {
		s.HasVoted = true
		s.Vote = v
	}
	return s
}

// Watch calls fn with the state of imageID now and after every change.
// Calls are serialised. fn must not call Vote or Retry synchronously; it may
// call the returned cancel. Once cancel returns no new call of fn starts;
// a call already running on another goroutine may still be finishing.
func (c *Coordinator) Watch(ctx context.Context, imageID string, fn func(VotingState)) (cancel func()) {
	var (
		mu      sync.Mutex
		last    VotingState
		started bool
		stopped atomic.Bool
		calling atomic.Bool
	)

	emit := func() {
		mu.Lock()
		defer mu.Unlock()

		if stopped.Load() {
			return
		}
		s := c.State(ctx, imageID)
		if started && s.equal(last) {
			return
		}
		started = true
		last = s

		calling.Store(true)
		defer calling.Store(false)
		fn(s)
	}

	unsubscribeCache := c.cache.Subscribe(func(string, models.VoteCollection) { emit() })
	unsubscribeTransitions := c.subscribe(func(_, id string) {
		if id == imageID {
			emit()
		}
	})

	emit()

	return func() {
		stopped.Store(true)
		if !calling.Load() {
			// Wait out an emit that passed the stopped check but has not
			// reached fn yet. Inside fn the lock is already held.
			mu.Lock()
			mu.Unlock()
		}
		unsubscribeCache()
		unsubscribeTransitions()
	}
}
