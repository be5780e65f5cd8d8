// Package identity derives and persists the anonymous voter token.
//
// The token is generated lazily on first use, stored under a single key of
// the local persistence scope and reused across runs until it is replaced or
// cleared. When the persistence scope is unusable the provider degrades to an
// in-process token instead of failing.
package identity

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/catvote/internal/logging"
)

// StorageKey is the persistence key of the voter token.
const StorageKey = "cat-voting-sub-id"

var ErrEmptyToken = errors.New("voter token must not be empty")

// Storage is the persistence scope the provider writes to.
// metadata.Repository satisfies it.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// Provider hands out the voter token. It is safe for concurrent use.
type Provider struct {
	storage  Storage
	logger   logging.Logger
	newToken func() string

	group singleflight.Group

	mu      sync.RWMutex
	current string
}

func NewProvider(storage Storage, logger logging.Logger) *Provider {
	return &Provider{storage: storage, logger: logger, newToken: uuid.NewString}
}

// GetID returns the voter token, generating and persisting one if none
// exists. Concurrent first calls share a single generation.
func (p *Provider) GetID(ctx context.Context) string {
	p.mu.RLock()
	current := p.current
	p.mu.RUnlock()
	if current != "" {
		return current
	}

	// The shared result is cached for the process, so no single caller's
	// cancellation may turn it into an ephemeral token.
	shared := context.WithoutCancel(ctx)
	v, _, _ := p.group.Do(StorageKey, func() (any, error) {
		return p.resolve(shared), nil
	})
	return v.(string)
}

func (p *Provider) resolve(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != "" {
		return p.current
	}

	token, found, err := p.storage.Get(ctx, StorageKey)
	if err != nil {
		p.current = p.newToken()
		p.logger.Warn(ctx, "identity storage unavailable, using ephemeral voter id", "error", err)
		return p.current
	}
	if found && token != "" {
		p.current = token
		return p.current
	}

	p.current = p.newToken()
	if err := p.storage.Set(ctx, StorageKey, p.current); err != nil {
		p.logger.Warn(ctx, "voter id not persisted, it lasts until exit", "error", err)
	} else {
		p.logger.Debug(ctx, "generated voter id", "voter_id", p.current)
	}
	return p.current
}

// SetID replaces the voter token unconditionally. A persistence failure
// keeps the token for this process only.
func (p *Provider) SetID(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = token
	if err := p.storage.Set(ctx, StorageKey, token); err != nil {
		p.logger.Warn(ctx, "voter id not persisted, it lasts until exit", "error", err)
	}
	return nil
}

// ClearID forgets the voter token; the next GetID generates a new one.
func (p *Provider) ClearID(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = ""
	if err := p.storage.Remove(ctx, StorageKey); err != nil {
		// The old token may still be stored; overwrite it so it never comes back.
		p.current = p.newToken()
		if err := p.storage.Set(ctx, StorageKey, p.current); err != nil {
			p.logger.Warn(ctx, "identity storage unavailable, using ephemeral voter id", "error", err)
		}
	}
}
