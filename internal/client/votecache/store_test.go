package votecache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/catvote/internal/client/models"
)

func vote(id, imageID string) models.Vote {
	return models.Vote{ID: id, ImageID: imageID, Value: models.VoteUp}
}

func TestRead_AbsentVoterIsEmpty(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Read("nobody").Len())
}

func TestWrite_ReplacesWholeCollection(t *testing.T) {
	s := New()
	s.Write("v1", models.NewVoteCollection(vote("1", "a"), vote("2", "b")))
	s.Write("v1", models.NewVoteCollection(vote("3", "c")))

	got := s.Read("v1")
	require.Equal(t, 1, got.Len())
	assert.True(t, got.Has("c"))
	assert.Equal(t, 0, s.Read("v2").Len(), "voters are isolated")
}

func TestUpdate_NoLostUpdatesUnderConcurrency(t *testing.T) {
	s := New()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Update("v1", func(c models.VoteCollection) models.VoteCollection {
				return c.With(vote(fmt.Sprint(i), fmt.Sprintf("img-%d", i)))
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, s.Read("v1").Len())
}

func TestMutate_FalseCommitsNothingAndNotifiesNobody(t *testing.T) {
	s := New()
	s.Write("v1", models.NewVoteCollection(vote("1", "a")))

	calls := 0
	s.Subscribe(func(string, models.VoteCollection) { calls++ })

	ok := s.Mutate("v1", func(c models.VoteCollection) (models.VoteCollection, bool) {
		return models.VoteCollection{}, false
	})

	assert.False(t, ok)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, s.Read("v1").Len())
}

func TestSubscribe_ObserversSeeEveryCommitInOrder(t *testing.T) {
	s := New()

	var seen []int
	unsubscribe := s.Subscribe(func(voterID string, c models.VoteCollection) {
		assert.Equal(t, "v1", voterID)
		assert.Equal(t, c.Len(), s.Read("v1").Len(), "observer reads the committed value")
		seen = append(seen, c.Len())
	})

	s.Update("v1", func(c models.VoteCollection) models.VoteCollection { return c.With(vote("1", "a")) })
	s.Update("v1", func(c models.VoteCollection) models.VoteCollection { return c.With(vote("2", "b")) })
	unsubscribe()
	s.Write("v1", models.VoteCollection{})

	assert.Equal(t, []int{1, 2}, seen)
}

func TestSubscribe_UnsubscribeFromInsideObserver(t *testing.T) {
	s := New()

	calls := 0
	var unsubscribe func()
	unsubscribe = s.Subscribe(func(string, models.VoteCollection) {
		calls++
		unsubscribe()
	})

	s.Write("v1", models.VoteCollection{})
	s.Write("v1", models.VoteCollection{})

	assert.Equal(t, 1, calls)
}

func TestMultipleObserversSeeSameValue(t *testing.T) {
	s := New()

	var a, b models.VoteCollection
	s.Subscribe(func(_ string, c models.VoteCollection) { a = c })
	s.Subscribe(func(_ string, c models.VoteCollection) { b = c })

	s.Write("v1", models.NewVoteCollection(vote("1", "a")))

	assert.True(t, a.Equal(b))
	assert.Equal(t, 1, a.Len())
}
