package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/romanzh1/lingua-srs/internal/srs"
)

// PreviewCard reports the card's current retrievability and the interval each rating would
// schedule under the learner's own retention settings. Nothing is written.
func (s *Service) PreviewCard(ctx context.Context, userID int64, cardID uuid.UUID, now time.Time) (*models.CardPreview, error) {
	if now.IsZero() {
		now = s.now()
	}

	state, err := cardState(ctx, s.repo, userID, cardID)
	if err != nil {
		return nil, fmt.Errorf("get card state (user_id: %d, card_id: %s): %w", userID, cardID, err)
	}
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences (user_id: %d): %w", userID, err)
	}
	sched, err := s.scheduler(prefs)
	if err != nil {
		return nil, err
	}

	var mem *srs.Card
	if state != nil {
		mem = &state.Card
	}
	previews, err := sched.IntervalPreviews(mem, now)
	if err != nil {
		return nil, fmt.Errorf("interval previews (user_id: %d, card_id: %s): %w", userID, cardID, err)
	}

	return &models.CardPreview{
		CardID:         cardID,
		State:          state,
		Retrievability: sched.Retrievability(mem, now),
		Previews:       previews,
	}, nil
}
