// Package votes persists a local mirror of the voter's confirmed votes.
package votes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/catvote/internal/client/models"
	"github.com/dmitrijs2005/catvote/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, voterID string, votes models.VoteCollection) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE voter_id = ?`, voterID); err != nil {
			return err
		}

		position := 0
		for _, v := range votes.Votes() {
			if v.IsTemporary() {
				continue
			}
			_, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO votes (id, voter_id, image_id, value, created_at, position)
				VALUES (?, ?, ?, ?, ?, ?)
			`, v.ID, voterID, v.ImageID, int(v.Value), v.CreatedAt.UTC().Format(time.RFC3339Nano), position)
			if err != nil {
				return err
			}
			position++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace votes of %s: %w", voterID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, voterID string) (models.VoteCollection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, image_id, value, created_at
		FROM votes
		WHERE voter_id = ?
		ORDER BY position
	`, voterID)
	if err != nil {
		return models.VoteCollection{}, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var result []models.Vote
	for rows.Next() {
		var (
			v         models.Vote
			value     int
			createdAt string
		)
		if err := rows.Scan(&v.ID, &v.ImageID, &value, &createdAt); err != nil {
			return models.VoteCollection{}, fmt.Errorf("failed to scan vote row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return models.VoteCollection{}, fmt.Errorf("failed to parse created_at of vote %s: %w", v.ID, err)
		}
		v.VoterID = voterID
		v.Value = models.VoteValue(value)
		v.CreatedAt = ts
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return models.VoteCollection{}, fmt.Errorf("failed to iterate vote rows: %w", err)
	}

	return models.NewVoteCollection(result...), nil
}
