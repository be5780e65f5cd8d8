// Package models defines the client-side voting data: votes, the per-voter
// vote collection and gallery images.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidVoteValue = errors.New("vote value must be +1 or -1")
	ErrEmptyImageID     = errors.New("image id is required")
)

// VoteValue is the direction of a vote.
type VoteValue int

const (
	VoteDown VoteValue = -1
	VoteUp   VoteValue = 1
)

func (v VoteValue) Valid() bool {
	return v == VoteUp || v == VoteDown
}

func (v VoteValue) String() string {
	switch v {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return fmt.Sprintf("invalid(%d)", int(v))
	}
}

// ParseVoteValue accepts "up"/"down" and their numeric forms.
func ParseVoteValue(s string) (VoteValue, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "1", "+1":
		return VoteUp, nil
	case "down", "-1":
		return VoteDown, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidVoteValue, s)
	}
}

// TempIDPrefix marks votes that exist only locally, between the optimistic
// apply and the server response.
const TempIDPrefix = "temp-"

// Vote is one voter's vote on one image.
type Vote struct {
	ID        string    `json:"id"`
	ImageID   string    `json:"image_id"`
	VoterID   string    `json:"sub_id"`
	Value     VoteValue `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// IsTemporary reports whether the vote is an optimistic placeholder.
func (v Vote) IsTemporary() bool {
	return strings.HasPrefix(v.ID, TempIDPrefix)
}

// VotingRequest is the caller-supplied part of a vote submission. The voter
// id is never part of it.
type VotingRequest struct {
	ImageID string
	Value   VoteValue
}

func (r VotingRequest) Validate() error {
	if r.ImageID == "" {
		return ErrEmptyImageID
	}
	if !r.Value.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidVoteValue, int(r.Value))
	}
	return nil
}
