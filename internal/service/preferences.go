package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/romanzh1/lingua-srs/pkg/utils"
)

// rampUpDays is how long a new learner's daily new-card cap grows linearly.
const rampUpDays = 7

func (s *Service) GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences (user_id: %d): %w", userID, err)
	}
	return prefs, nil
}

func (s *Service) SavePreferences(ctx context.Context, prefs *models.Preferences) error {
	if err := s.validate.Struct(prefs); err != nil {
		return fmt.Errorf("validate preferences (user_id: %d): %w", prefs.UserID, err)
	}
	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return fmt.Errorf("save preferences (user_id: %d): %w", prefs.UserID, err)
	}
	return nil
}

// NewCardsLimit is the newCardsPerDay value to pass to GetOrderedCards at now. With ramp-up
// enabled the cap grows from cap/7 on the learner's first day to the full cap on day seven.
func (s *Service) NewCardsLimit(ctx context.Context, userID int64, now time.Time) (int, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get preferences (user_id: %d): %w", userID, err)
	}
	if !prefs.NewCardsRampUp || prefs.NewCardsPerDay <= 0 {
		return prefs.NewCardsPerDay, nil
	}

	first, err := s.repo.FirstReviewAt(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get first review (user_id: %d): %w", userID, err)
	}

	day := 0
	if first != nil {
		day = max(0, utils.DaysBetween(*first, now))
	}
	return rampedLimit(prefs.NewCardsPerDay, day), nil
}

func rampedLimit(limit, day int) int {
	if day >= rampUpDays {
		return limit
	}
	ramped := int(math.Ceil(float64(limit) * float64(day+1) / rampUpDays))
	return max(1, min(ramped, limit))
}

func (s *Service) SuspendCard(ctx context.Context, userID int64, cardID uuid.UUID) error {
	if err := s.repo.SuspendCard(ctx, userID, cardID, s.now()); err != nil {
		return fmt.Errorf("suspend card (user_id: %d, card_id: %s): %w", userID, cardID, err)
	}
	return nil
}

func (s *Service) UnsuspendCard(ctx context.Context, userID int64, cardID uuid.UUID) error {
	if err := s.repo.UnsuspendCard(ctx, userID, cardID); err != nil {
		return fmt.Errorf("unsuspend card (user_id: %d, card_id: %s): %w", userID, cardID, err)
	}
	return nil
}
