package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/catvote/internal/client/debounce"
	"github.com/dmitrijs2005/catvote/internal/client/models"
	"github.com/dmitrijs2005/catvote/internal/client/voting"
)

// Gallery fetches limit images (the configured size when limit is 0) and
// lists them with the voter's state for each.
func (a *App) Gallery(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = a.config.GalleryLimit
	}

	images, err := a.api.FetchImages(ctx, limit)
	if err != nil {
		a.setMode(ModeOffline)
		return fmt.Errorf("fetch images: %w", err)
	}
	a.setMode(ModeOnline)

	a.mu.Lock()
	a.gallery = images
	a.mu.Unlock()

	if len(images) == 0 {
		a.printf("No images.\n")
		return nil
	}
	for i, img := range images {
		s := a.coordinator.State(ctx, img.ID)
		a.printf("%2d. %-12s %4dx%-4d %s %s\n", i+1, img.ID, img.Width, img.Height, mark(s), img.URL)
	}
	return nil
}

// Votes lists the voter's votes as the cache holds them.
func (a *App) Votes(ctx context.Context) error {
	votes := a.coordinator.Votes(ctx).Votes()
	if len(votes) == 0 {
		a.printf("No votes yet.\n")
		return nil
	}

	for _, v := range votes {
		id := v.ID
		if v.IsTemporary() {
			id = "pending"
		}
		a.printf("%-12s %-4s %-16s %s\n", v.ImageID, v.Value, humanize.Time(v.CreatedAt), id)
	}
	return nil
}

// Vote queues value for imageID. Repeated votes for the same image within
// the debounce delay collapse into the last one.
func (a *App) Vote(ctx context.Context, imageID string, value models.VoteValue) error {
	req := models.VotingRequest{ImageID: a.resolveImage(imageID), Value: value}
	if err := req.Validate(); err != nil {
		return err
	}

	if s := a.coordinator.State(ctx, req.ImageID); s.HasVoted || s.IsSubmitting {
		return fmt.Errorf("%s: %w", req.ImageID, voting.ErrDuplicateVote)
	}

	a.watch(req.ImageID)
	a.debouncer(req.ImageID).Trigger(req.Value)
	a.logger.Debug(ctx, "vote queued", "image_id", req.ImageID, "value", req.Value.String())
	return nil
}

func (a *App) castVote(imageID string, value models.VoteValue) {
	_, err := a.coordinator.Vote(a.ctx, imageID, value)
	switch {
	case err == nil:
	case errors.Is(err, voting.ErrDuplicateVote):
		a.printf("%s: already voted\n", imageID)
	default:
		// The watch reports the failure.
		a.logger.Debug(a.ctx, "vote failed", "image_id", imageID, "error", err)
	}
}

// Retry resubmits the failed vote for imageID and waits for the outcome.
func (a *App) Retry(ctx context.Context, imageID string) error {
	imageID = a.resolveImage(imageID)
	a.watch(imageID)

	_, err := a.coordinator.Retry(ctx, imageID)
	if errors.Is(err, voting.ErrNothingToRetry) || errors.Is(err, voting.ErrDuplicateVote) {
		return err
	}
	return nil
}

func (a *App) Status(ctx context.Context, imageID string) error {
	imageID = a.resolveImage(imageID)
	a.printf("%s", describe(imageID, a.coordinator.State(ctx, imageID)))
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.coordinator.Refresh(ctx); err != nil {
		a.setMode(ModeOffline)
		return err
	}
	a.setMode(ModeOnline)
	a.printf("Votes refreshed: %d\n", a.coordinator.Votes(ctx).Len())
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	a.printf("%s\n", a.identity.GetID(ctx))
	return nil
}

// NewID switches to token, or to a freshly generated one when token is empty.
func (a *App) NewID(ctx context.Context, token string) error {
	if token == "" {
		token = uuid.NewString()
	}
	if err := a.identity.SetID(ctx, token); err != nil {
		return err
	}

	a.printf("Voter id set to %s\n", token)
	a.identityChanged(ctx)
	return nil
}

// ResetID forgets the voter id; the next use generates a new one.
func (a *App) ResetID(ctx context.Context) error {
	a.identity.ClearID(ctx)
	a.printf("New voter id %s\n", a.identity.GetID(ctx))
	a.identityChanged(ctx)
	return nil
}

func (a *App) identityChanged(ctx context.Context) {
	voterID := a.identity.GetID(ctx)
	if err := a.mirror.seed(ctx, voterID); err != nil {
		a.logger.Warn(ctx, "could not load stored votes", "error", err)
	}
	if err := a.coordinator.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "vote load for new voter id failed", "error", err)
	}
}

// resolveImage maps a gallery position to its image id.
func (a *App) resolveImage(arg string) string {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return arg
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if n >= 1 && n <= len(a.gallery) {
		return a.gallery[n-1].ID
	}
	return arg
}

func (a *App) debouncer(imageID string) *debounce.Debouncer[models.VoteValue] {
	a.mu.Lock()
	defer a.mu.Unlock()

	d, ok := a.debouncers[imageID]
	if !ok {
		d = debounce.New(a.config.DebounceDelay, func(v models.VoteValue) { a.castVote(imageID, v) })
		a.debouncers[imageID] = d
	}
	return d
}

// watch prints every state change of imageID after the current one.
func (a *App) watch(imageID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.watches[imageID]; ok {
		return
	}

	first := true
	a.watches[imageID] = a.coordinator.Watch(a.ctx, imageID, func(s voting.VotingState) {
		if first {
			first = false
			return
		}
		a.printf("%s", describe(imageID, s))
	})
}

func mark(s voting.VotingState) string {
	switch {
	case s.IsSubmitting && s.HasVoted:
		return "[" + s.Vote.Value.String() + "...]"
	case s.IsSubmitting:
		return "[...]"
	case s.IsError:
		return "[failed]"
	case s.HasVoted:
		return "[" + s.Vote.Value.String() + "]"
	default:
		return "[ ]"
	}
}

func describe(imageID string, s voting.VotingState) string {
	switch {
	case s.IsSubmitting && s.HasVoted:
		return fmt.Sprintf("%s: submitting %s vote\n", imageID, s.Vote.Value)
	case s.IsSubmitting:
		return fmt.Sprintf("%s: submitting vote\n", imageID)
	case s.IsError:
		return fmt.Sprintf("%s: vote failed: %v (type 'retry %s')\n", imageID, s.Err, imageID)
	case s.HasVoted && s.Vote.IsTemporary():
		return fmt.Sprintf("%s: voted %s (pending)\n", imageID, s.Vote.Value)
	case s.HasVoted:
		return fmt.Sprintf("%s: voted %s (id %s)\n", imageID, s.Vote.Value, s.Vote.ID)
	default:
		return fmt.Sprintf("%s: not voted\n", imageID)
	}
}
