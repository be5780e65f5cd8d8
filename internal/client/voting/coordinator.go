package voting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/catvote/internal/client/models"
	"github.com/dmitrijs2005/catvote/internal/client/votecache"
	"github.com/dmitrijs2005/catvote/internal/logging"
)

// Identity resolves the current voter. identity.Provider satisfies it.
type Identity interface {
	GetID(ctx context.Context) string
}

// Remote is the vote service. client.Client satisfies it.
type Remote interface {
	FetchVotes(ctx context.Context, voterID string) ([]models.Vote, error)
	SubmitVote(ctx context.Context, req models.VotingRequest, voterID string) (models.Vote, error)
}

// Phase is the lifecycle of a vote on one image.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Confirmed
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type attemptKey struct {
	voterID string
	imageID string
}

type attempt struct {
	phase   Phase
	request models.VotingRequest
	err     error
}

type transitionObserver func(voterID, imageID string)

// Coordinator runs optimistic vote submissions for the current voter.
type Coordinator struct {
	ids    Identity
	cache  *votecache.Store
	remote Remote
	logger logging.Logger

	now       func() time.Time
	newTempID func() string

	// readGen is bumped by every read start and every write; a read commits
	// only if it is still the latest.
	readGen atomic.Uint64

	mu         sync.Mutex
	attempts   map[attemptKey]*attempt
	readCancel context.CancelFunc
	observers  map[uint64]transitionObserver
	nextObs    uint64
	closed     bool

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

func NewCoordinator(ids Identity, cache *votecache.Store, remote Remote, logger logging.Logger) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ids:       ids,
		cache:     cache,
		remote:    remote,
		logger:    logger,
		now:       time.Now,
		newTempID: func() string { return models.TempIDPrefix + uuid.NewString() },
		attempts:  make(map[attemptKey]*attempt),
		observers: make(map[uint64]transitionObserver),
		baseCtx:   ctx,
		stop:      cancel,
	}
}

// Vote casts value on imageID for the current voter and returns the
// confirmed vote. The cache shows the vote before the service answers; on
// failure the cache is rolled back and the error is returned and kept for
// State and Retry.
//
// A second vote for an image that is already voted or still submitting is
// rejected with ErrDuplicateVote without touching the network.
func (c *Coordinator) Vote(ctx context.Context, imageID string, value models.VoteValue) (models.Vote, error) {
	req := models.VotingRequest{ImageID: imageID, Value: value}
	if err := req.Validate(); err != nil {
		return models.Vote{}, err
	}

	voterID := c.ids.GetID(ctx)
	req, err := c.begin(voterID, req, false)
	if err != nil {
		return models.Vote{}, err
	}
	return c.submit(ctx, voterID, req)
}

// Retry resubmits the last failed vote for imageID. It fails with
// ErrNothingToRetry unless the last attempt failed.
func (c *Coordinator) Retry(ctx context.Context, imageID string) (models.Vote, error) {
	voterID := c.ids.GetID(ctx)
	req, err := c.begin(voterID, models.VotingRequest{ImageID: imageID}, true)
	if err != nil {
		return models.Vote{}, err
	}
	return c.submit(ctx, voterID, req)
}

// begin moves the attempt for the image to Submitting. For retries the
// request is taken from the failed attempt.
func (c *Coordinator) begin(voterID string, req models.VotingRequest, retry bool) (models.VotingRequest, error) {
	key := attemptKey{voterID: voterID, imageID: req.ImageID}

	c.mu.Lock()
	a := c.attempts[key]

	if retry {
		if a == nil || a.phase != Failed {
			c.mu.Unlock()
			return req, fmt.Errorf("%w: image %s", ErrNothingToRetry, req.ImageID)
		}
		req = a.request
	}

	if a != nil && a.phase == Submitting {
		c.mu.Unlock()
		return req, fmt.Errorf("%w: image %s", ErrDuplicateVote, req.ImageID)
	}

	if c.cache.Read(voterID).Has(req.ImageID) {
		// The service holds a vote the failed attempt did not know about.
		cleared := a != nil && a.phase == Failed
		if cleared {
			delete(c.attempts, key)
		}
		c.mu.Unlock()
		if cleared {
			c.notify(voterID, req.ImageID)
		}
		return req, fmt.Errorf("%w: image %s", ErrDuplicateVote, req.ImageID)
	}

	c.attempts[key] = &attempt{phase: Submitting, request: req}
	c.mu.Unlock()

	c.notify(voterID, req.ImageID)
	return req, nil
}

func (c *Coordinator) submit(ctx context.Context, voterID string, req models.VotingRequest) (models.Vote, error) {
	log := c.logger.With("voter_id", voterID, "image_id", req.ImageID)

	c.supersedeReads()

	optimistic := models.Vote{
		ID:        c.newTempID(),
		ImageID:   req.ImageID,
		VoterID:   voterID,
		Value:     req.Value,
		CreatedAt: c.now(),
	}

	var snapshot models.VoteCollection
	c.cache.Update(voterID, func(cur models.VoteCollection) models.VoteCollection {
		snapshot = cur
		return cur.With(optimistic)
	})
	log.Debug(ctx, "vote applied optimistically", "temp_id", optimistic.ID, "value", req.Value.String())

	confirmed, err := c.remote.SubmitVote(ctx, req, voterID)
	c.supersedeReads()

	if err != nil {
		c.cache.Update(voterID, func(cur models.VoteCollection) models.VoteCollection {
			return rollback(snapshot, cur, optimistic.ID)
		})
		c.finish(voterID, req.ImageID, Failed, err)
		log.Warn(ctx, "vote submission failed, rolled back", "error", err)

		c.reconcile(voterID)
		return models.Vote{}, fmt.Errorf("submit vote for image %s: %w", req.ImageID, err)
	}

	c.cache.Update(voterID, func(cur models.VoteCollection) models.VoteCollection {
		return cur.Replace(optimistic.ID, confirmed)
	})
	c.finish(voterID, req.ImageID, Confirmed, nil)
	log.Info(ctx, "vote confirmed", "vote_id", confirmed.ID)

	c.reconcile(voterID)
	return confirmed, nil
}

func (c *Coordinator) finish(voterID, imageID string, phase Phase, err error) {
	key := attemptKey{voterID: voterID, imageID: imageID}

	c.mu.Lock()
	if a, ok := c.attempts[key]; ok {
		a.phase = phase
		a.err = err
	}
	c.mu.Unlock()

	c.notify(voterID, imageID)
}

// rollback restores snapshot for the failed image. Votes other submissions
// added since the snapshot are kept, temporary ones included, and the
// snapshot's own temporary votes are dropped since their submissions have
// moved on.
func rollback(snapshot, cur models.VoteCollection, tempID string) models.VoteCollection {
	next := snapshot.Filter(func(v models.Vote) bool { return !v.IsTemporary() })
	for _, v := range cur.Votes() {
		if v.ID == tempID || next.Has(v.ImageID) {
			continue
		}
		next = next.With(v)
	}
	return next
}

// merge replaces the collection with the fetched one, keeping temporary
// votes of images the fetch does not know about yet.
func merge(fetched, cur models.VoteCollection) models.VoteCollection {
	next := fetched
	for _, v := range cur.Votes() {
		if v.IsTemporary() && !next.Has(v.ImageID) {
			next = next.With(v)
		}
	}
	return next
}

// supersedeReads invalidates every read that started before the call.
func (c *Coordinator) supersedeReads() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.readGen.Add(1)
	if c.readCancel != nil {
		c.readCancel()
		c.readCancel = nil
	}
}

// Refresh loads the voter's votes from the service into the cache. A load
// that loses to a newer read or write is not an error.
func (c *Coordinator) Refresh(ctx context.Context) error {
	voterID := c.ids.GetID(ctx)

	err := c.load(ctx, voterID)
	if errors.Is(err, errSuperseded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("refresh votes: %w", err)
	}
	return nil
}

func (c *Coordinator) load(ctx context.Context, voterID string) error {
	c.mu.Lock()
	if c.readCancel != nil {
		c.readCancel()
	}
	readCtx, cancel := context.WithCancel(ctx)
	c.readCancel = cancel
	gen := c.readGen.Add(1)
	c.mu.Unlock()
	defer cancel()

	votes, err := c.remote.FetchVotes(readCtx, voterID)
	if err != nil {
		if c.readGen.Load() != gen {
			return errSuperseded
		}
		return err
	}

	fetched := models.NewVoteCollection(votes...)
	committed := c.cache.Mutate(voterID, func(cur models.VoteCollection) (models.VoteCollection, bool) {
		if c.readGen.Load() != gen {
			return cur, false
		}
		return merge(fetched, cur), true
	})
	if !committed {
		return errSuperseded
	}

	c.settle(voterID, fetched)
	return nil
}

// settle drops failed attempts for images the service reports as voted.
func (c *Coordinator) settle(voterID string, fetched models.VoteCollection) {
	var settled []string

	c.mu.Lock()
	for key, a := range c.attempts {
		if key.voterID == voterID && a.phase == Failed && fetched.Has(key.imageID) {
			delete(c.attempts, key)
			settled = append(settled, key.imageID)
		}
	}
	c.mu.Unlock()

	for _, imageID := range settled {
		c.notify(voterID, imageID)
	}
}

// reconcile re-fetches in the background. Failures are logged only.
func (c *Coordinator) reconcile(voterID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()

		err := c.load(c.baseCtx, voterID)
		switch {
		case err == nil:
			c.logger.Debug(c.baseCtx, "votes reconciled", "voter_id", voterID)
		case errors.Is(err, errSuperseded):
			c.logger.Debug(c.baseCtx, "reconciliation superseded", "voter_id", voterID)
		default:
			c.logger.Warn(c.baseCtx, "vote reconciliation failed", "voter_id", voterID, "error", err)
		}
	}()
}

// Votes returns the current voter's collection.
func (c *Coordinator) Votes(ctx context.Context) models.VoteCollection {
	return c.cache.Read(c.ids.GetID(ctx))
}

// Close cancels background reconciliation and waits for it to stop.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.stop()
	c.wg.Wait()
}

func (c *Coordinator) subscribe(o transitionObserver) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextObs
	c.nextObs++
	c.observers[id] = o

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.observers, id)
		})
	}
}

func (c *Coordinator) notify(voterID, imageID string) {
	c.mu.Lock()
	observers := make([]transitionObserver, 0, len(c.observers))
	for _, o := range c.observers {
		observers = append(observers, o)
	}
	c.mu.Unlock()

	for _, o := range observers {
		o(voterID, imageID)
	}
}
