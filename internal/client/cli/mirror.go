package cli

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/catvote/internal/client/models"
	"github.com/dmitrijs2005/catvote/internal/client/repositories/votes"
	"github.com/dmitrijs2005/catvote/internal/client/votecache"
	"github.com/dmitrijs2005/catvote/internal/logging"
)

type mirrorSnapshot struct {
	voterID string
	votes   models.VoteCollection
}

// voteMirror persists cache commits to the local database off the cache's
// delivery path. Only the latest commit per voter is kept while a write is
// in progress.
type voteMirror struct {
	repo   votes.Repository
	cache  *votecache.Store
	logger logging.Logger

	unsubscribe func()
	wake        chan struct{}
	flushMu     sync.Mutex

	mu      sync.Mutex
	pending map[string]models.VoteCollection
	order   []string
}

func newVoteMirror(repo votes.Repository, cache *votecache.Store, logger logging.Logger) *voteMirror {
	m := &voteMirror{
		repo:    repo,
		cache:   cache,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		pending: make(map[string]models.VoteCollection),
	}
	m.unsubscribe = cache.Subscribe(m.observe)
	return m
}

func (m *voteMirror) observe(voterID string, votes models.VoteCollection) {
	m.mu.Lock()
	if _, queued := m.pending[voterID]; !queued {
		m.order = append(m.order, voterID)
	}
	m.pending[voterID] = votes
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// seed writes the stored collection of voterID into the cache. Nothing is
// written when the database holds no votes for the voter.
func (m *voteMirror) seed(ctx context.Context, voterID string) error {
	stored, err := m.repo.GetAll(ctx, voterID)
	if err != nil {
		return err
	}
	if stored.Len() == 0 {
		return nil
	}

	m.cache.Mutate(voterID, func(cur models.VoteCollection) (models.VoteCollection, bool) {
		// A fetch that already landed is fresher than the mirror.
		if cur.Len() > 0 {
			return cur, false
		}
		return stored, true
	})
	return nil
}

// run persists queued snapshots until ctx is done.
func (m *voteMirror) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.wake:
			m.flush(ctx)
		}
	}
}

func (m *voteMirror) take() []mirrorSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]mirrorSnapshot, 0, len(m.order))
	for _, voterID := range m.order {
		out = append(out, mirrorSnapshot{voterID: voterID, votes: m.pending[voterID]})
	}
	m.pending = make(map[string]models.VoteCollection)
	m.order = nil
	return out
}

func (m *voteMirror) flush(ctx context.Context) {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	for _, s := range m.take() {
		if err := m.repo.ReplaceAll(ctx, s.voterID, s.votes); err != nil {
			m.logger.Warn(ctx, "could not store votes locally", "voter_id", s.voterID, "error", err)
		}
	}
}

// close stops observing the cache and writes whatever is still queued.
func (m *voteMirror) close(ctx context.Context) {
	m.unsubscribe()
	m.flush(ctx)
}
