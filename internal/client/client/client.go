package client

import (
	"context"

	"github.com/dmitrijs2005/catvote/internal/client/models"
)

// Client is the remote vote service boundary. Every call is a fresh round
// trip: no caching, no optimistic state and no internal retries.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	FetchImages(ctx context.Context, limit int) ([]models.CatImage, error)
	FetchVotes(ctx context.Context, voterID string) ([]models.Vote, error)
	SubmitVote(ctx context.Context, req models.VotingRequest, voterID string) (models.Vote, error)
}
