package votes

import (
	"context"

	"github.com/dmitrijs2005/catvote/internal/client/models"
)

// Repository keeps the last reconciled vote collection of each voter so the
// client can show votes before the first fetch of a session completes.
type Repository interface {
	// ReplaceAll stores votes as the complete collection of voterID.
	// Temporary (optimistic) votes are never stored.
	ReplaceAll(ctx context.Context, voterID string, votes models.VoteCollection) error

	// GetAll returns the stored collection of voterID in stored order.
	GetAll(ctx context.Context, voterID string) (models.VoteCollection, error)
}
