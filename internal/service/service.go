package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/romanzh1/lingua-srs/internal/srs"
	"github.com/romanzh1/lingua-srs/pkg/utils"
)

var (
	ErrCategoryRequired  = errors.New("category_focus requires a category id")
	ErrInvalidSubMode    = errors.New("invalid sub-mode")
	ErrInvalidOption     = errors.New("invalid ordering option")
	ErrInvalidAnswerTime = errors.New("answer time must not be negative")
)

// quickReviewLimit caps quick_review sessions when the caller gives no explicit limit.
const quickReviewLimit = 20

type Service struct {
	repo     models.Repository
	srs      srs.Config
	validate *validator.Validate
	clock    func() time.Time
}

var _ models.Service = (*Service)(nil)

func NewService(repo models.Repository, cfg srs.Config) *Service {
	return &Service{
		repo:     repo,
		srs:      cfg,
		validate: validator.New(),
		clock:    utils.NowUTC,
	}
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}

// scheduler builds a memory model tuned to the learner's retention settings.
func (s *Service) scheduler(prefs *models.Preferences) (*srs.Scheduler, error) {
	sched, err := srs.NewScheduler(s.srs.WithRetention(prefs.DesiredRetention, prefs.MaxReviewInterval))
	if err != nil {
		return nil, fmt.Errorf("build scheduler (user_id: %d): %w", prefs.UserID, err)
	}
	return sched, nil
}

// cardState returns nil when the learner has never reviewed the card.
func cardState(ctx context.Context, repo models.Repository, userID int64, cardID uuid.UUID) (*models.UserCardState, error) {
	state, err := repo.GetCardState(ctx, userID, cardID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}
