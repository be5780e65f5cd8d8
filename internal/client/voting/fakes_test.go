package voting

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/catvote/internal/client/models"
	"github.com/dmitrijs2005/catvote/internal/client/votecache"
	"github.com/dmitrijs2005/catvote/internal/logging"
)

// ---- fake identity ----

type fixedIdentity string

func (f fixedIdentity) GetID(context.Context) string { return string(f) }

// ---- fake remote ----

type fakeRemote struct {
	mu sync.Mutex

	server    []models.Vote
	nextID    int
	submits   []models.VotingRequest
	fetches   int
	fetchErr  error
	submitErr error
	// storeOnError keeps the vote server side even when submitErr is set.
	storeOnError bool

	// beforeSubmit and beforeFetch run outside the lock and may block.
	beforeSubmit func(ctx context.Context, req models.VotingRequest) error
	beforeFetch  func(ctx context.Context, n int) error
}

func (f *fakeRemote) SubmitVote(ctx context.Context, req models.VotingRequest, voterID string) (models.Vote, error) {
	f.mu.Lock()
	f.submits = append(f.submits, req)
	hook := f.beforeSubmit
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, req); err != nil {
			return models.Vote{}, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitErr != nil && !f.storeOnError {
		return models.Vote{}, f.submitErr
	}

	f.nextID++
	v := models.Vote{
		ID:        fmt.Sprintf("srv-%d", f.nextID),
		ImageID:   req.ImageID,
		VoterID:   voterID,
		Value:     req.Value,
		CreatedAt: testNow.Add(time.Minute),
	}
	f.server = append(f.server, v)

	if f.submitErr != nil {
		return models.Vote{}, f.submitErr
	}
	return v, nil
}

func (f *fakeRemote) FetchVotes(ctx context.Context, voterID string) ([]models.Vote, error) {
	// The answer reflects the server at request time, however late it arrives.
	f.mu.Lock()
	f.fetches++
	n := f.fetches
	hook := f.beforeFetch
	err := f.fetchErr
	out := make([]models.Vote, len(f.server))
	copy(out, f.server)
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, n); err != nil {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeRemote) submitted() []models.VotingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.VotingRequest, len(f.submits))
	copy(out, f.submits)
	return out
}

func (f *fakeRemote) set(fn func(f *fakeRemote)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// ---- recording logger ----

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(context.Context, string, ...any) {}
func (l *recordingLogger) Info(context.Context, string, ...any)  {}
func (l *recordingLogger) Error(context.Context, string, ...any) {}

func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) With(...any) logging.Logger { return l }

func (l *recordingLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

// ---- helpers ----

const testVoter = "voter-1"

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestCoordinator(t *testing.T, remote *fakeRemote, logger logging.Logger) (*Coordinator, *votecache.Store) {
	t.Helper()

	if logger == nil {
		logger = logging.Discard()
	}
	cache := votecache.New()
	c := NewCoordinator(fixedIdentity(testVoter), cache, remote, logger)
	c.now = func() time.Time { return testNow }

	var mu sync.Mutex
	n := 0
	c.newTempID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", models.TempIDPrefix, n)
	}

	t.Cleanup(c.Close)
	return c, cache
}

// gate blocks a fake call until released, signalling when it is reached.
type gate struct {
	reached chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{reached: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) error {
	g.reached <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gate) awaitReached(t *testing.T) {
	t.Helper()
	select {
	case <-g.reached:
	case <-time.After(5 * time.Second):
		t.Fatal("call never reached the gate")
	}
}
