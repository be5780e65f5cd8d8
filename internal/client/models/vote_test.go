package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVoteValue(t *testing.T) {
	tests := []struct {
		in      string
		want    VoteValue
		wantErr bool
	}{
		{in: "up", want: VoteUp},
		{in: "UP", want: VoteUp},
		{in: "+1", want: VoteUp},
		{in: "1", want: VoteUp},
		{in: "down", want: VoteDown},
		{in: "-1", want: VoteDown},
		{in: "0", wantErr: true},
		{in: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVoteValue(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidVoteValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVotingRequest_Validate(t *testing.T) {
	require.NoError(t, VotingRequest{ImageID: "abc", Value: VoteUp}.Validate())
	require.ErrorIs(t, VotingRequest{Value: VoteUp}.Validate(), ErrEmptyImageID)
	require.ErrorIs(t, VotingRequest{ImageID: "abc", Value: 2}.Validate(), ErrInvalidVoteValue)
}

func TestVote_IsTemporary(t *testing.T) {
	assert.True(t, Vote{ID: TempIDPrefix + "x"}.IsTemporary())
	assert.False(t, Vote{ID: "srv-1"}.IsTemporary())
}

func TestVoteValue_String(t *testing.T) {
	assert.Equal(t, "up", VoteUp.String())
	assert.Equal(t, "down", VoteDown.String())
	assert.Equal(t, "invalid(3)", VoteValue(3).String())
}

func TestVoteCollection_WithDoesNotAliasSnapshot(t *testing.T) {
	base := NewVoteCollection(Vote{ID: "a", ImageID: "img-a"})
	snapshot := base

	next := base.With(Vote{ID: "temp-1", ImageID: "img-b"})

	assert.Equal(t, 1, snapshot.Len())
	assert.Equal(t, 2, next.Len())
	assert.False(t, snapshot.Has("img-b"))
}

func TestVoteCollection_Replace(t *testing.T) {
	now := time.Now()
	c := NewVoteCollection(
		Vote{ID: "temp-1", ImageID: "abc", Value: VoteUp, CreatedAt: now},
		Vote{ID: "srv-1", ImageID: "abc", Value: VoteUp, CreatedAt: now},
	)

	got := c.Replace("temp-1", Vote{ID: "srv-1", ImageID: "abc", Value: VoteUp, CreatedAt: now})

	require.Equal(t, 1, got.Len())
	v, ok := got.Find("abc")
	require.True(t, ok)
	assert.Equal(t, "srv-1", v.ID)
}

func TestVoteCollection_FindAndByID(t *testing.T) {
	c := NewVoteCollection(Vote{ID: "1", ImageID: "x"}, Vote{ID: "2", ImageID: "y"})

	v, ok := c.Find("y")
	require.True(t, ok)
	assert.Equal(t, "2", v.ID)

	_, ok = c.ByID("3")
	assert.False(t, ok)

	var empty VoteCollection
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Votes())
	assert.False(t, empty.Has("x"))
}

func TestVoteCollection_Equal(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewVoteCollection(Vote{ID: "1", ImageID: "x", Value: VoteUp, CreatedAt: ts})
	b := NewVoteCollection(Vote{ID: "1", ImageID: "x", Value: VoteUp, CreatedAt: ts.In(time.Local)})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(a.Without("1")))
	assert.False(t, a.Equal(NewVoteCollection(Vote{ID: "1", ImageID: "x", Value: VoteDown, CreatedAt: ts})))
}

func TestVoteCollection_Filter(t *testing.T) {
	c := NewVoteCollection(
		Vote{ID: "temp-1", ImageID: "a"},
		Vote{ID: "7", ImageID: "b"},
	)

	got := c.Filter(func(v Vote) bool { return !v.IsTemporary() })

	require.Equal(t, 1, got.Len())
	assert.True(t, got.Has("b"))
	assert.Equal(t, 2, c.Len(), "receiver is untouched")
}
