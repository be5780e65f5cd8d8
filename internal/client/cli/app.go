package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/catvote/internal/client/client"
	"github.com/dmitrijs2005/catvote/internal/client/config"
	"github.com/dmitrijs2005/catvote/internal/client/debounce"
	"github.com/dmitrijs2005/catvote/internal/client/identity"
	"github.com/dmitrijs2005/catvote/internal/client/models"
	"github.com/dmitrijs2005/catvote/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/catvote/internal/client/repositories/votes"
	"github.com/dmitrijs2005/catvote/internal/client/votecache"
	"github.com/dmitrijs2005/catvote/internal/client/voting"
	"github.com/dmitrijs2005/catvote/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db          *sql.DB
	api         client.Client
	identity    *identity.Provider
	cache       *votecache.Store
	coordinator *voting.Coordinator
	mirror      *voteMirror

	// ctx outlives single commands; debounced votes run under it.
	ctx context.Context

	outMu sync.Mutex
	out   io.Writer

	mu         sync.Mutex
	mode       Mode
	gallery    []models.CatImage
	debouncers map[string]*debounce.Debouncer[models.VoteValue]
	watches    map[string]func()
}

// NewApp opens the local database and the API client described by c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewCatAPIClient(c.APIBaseURL, c.APIKey, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(ctx, c, logger, db, apiClient, os.Stdout), nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, api client.Client, out io.Writer) *App {
	ids := identity.NewProvider(metadata.NewSQLiteRepository(db), logger)
	cache := votecache.New()

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		api:         api,
		identity:    ids,
		cache:       cache,
		coordinator: voting.NewCoordinator(ids, cache, api, logger),
		mirror:      newVoteMirror(votes.NewSQLiteRepository(db), cache, logger),
		ctx:         ctx,
		out:         out,
		mode:        ModeOffline,
		debouncers:  make(map[string]*debounce.Debouncer[models.VoteValue]),
		watches:     make(map[string]func()),
	}
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(a.ctx, "switched mode", "mode", string(mode))
	}
	return changed
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) getStatus() string {
	id := a.identity.GetID(a.ctx)
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("(%s %s)", a.currentMode(), id)
}

// prompt shares the output lock with asynchronous status lines.
func (a *App) prompt() {
	a.printf("catvote %s> ", a.getStatus())
}

// start seeds the cache from the local mirror and loads server truth.
func (a *App) start(ctx context.Context) {
	voterID := a.identity.GetID(ctx)

	if err := a.mirror.seed(ctx, voterID); err != nil {
		a.logger.Warn(ctx, "could not load stored votes", "error", err)
	}

	if err := a.coordinator.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "initial vote load failed, working offline", "error", err)
		return
	}
	a.setMode(ModeOnline)
}

// Run loads the voter's votes, starts the background workers and serves
// the REPL on in until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	defer a.Close()

	a.printf("Welcome to catvote (type 'help' for commands)\n")
	a.start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	workers, stop := context.WithCancel(gctx)
	defer stop()

	g.Go(func() error {
		a.StartOnlineStatusWatcher(workers, a.config.OnlineCheckInterval)
		return nil
	})
	g.Go(func() error {
		a.mirror.run(workers)
		return nil
	})
	g.Go(func() error {
		defer stop()
		runREPL(workers, a, a.prompt, in)
		return nil
	})

	return g.Wait()
}

// Close stops pending votes and releases every resource. It is safe to
// call more than once.
func (a *App) Close() {
	a.mu.Lock()
	for id, d := range a.debouncers {
		d.Stop()
		delete(a.debouncers, id)
	}
	for id, cancel := range a.watches {
		cancel()
		delete(a.watches, id)
	}
	a.mu.Unlock()

	a.coordinator.Close()
	a.mirror.close(context.WithoutCancel(a.ctx))

	if err := a.api.Close(); err != nil {
		a.logger.Warn(a.ctx, "closing api client", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn(a.ctx, "closing database", "error", err)
	}
}
