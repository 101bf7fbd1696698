package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/srs"
)

var ErrNotFound = errors.New("not found")

type SubMode string

const (
	SubModeFull             SubMode = "full"
	SubModeQuickReview      SubMode = "quick_review"
	SubModeSpacedRepetition SubMode = "spaced_repetition"
	SubModeCategoryFocus    SubMode = "category_focus"
)

func (m SubMode) IsValid() bool {
	switch m {
	case SubModeFull, SubModeQuickReview, SubModeSpacedRepetition, SubModeCategoryFocus:
		return true
	}
	return false
}

type Topic struct {
	ID        uuid.UUID `db:"id"`
	NameEN    string    `db:"name_en"`
	NameRU    string    `db:"name_ru"`
	CreatedAt time.Time `db:"created_at"`
}

type Category struct {
	ID        uuid.UUID `db:"id"`
	TopicID   uuid.UUID `db:"topic_id"`
	NameEN    string    `db:"name_en"`
	NameRU    string    `db:"name_ru"`
	Color     string    `db:"color"`
	CreatedAt time.Time `db:"created_at"`
}

// Card is a flashcard or quiz question. Difficulty is the author-assigned
// level in [1, 10], unrelated to the FSRS difficulty in srs.Card.
type Card struct {
	ID         uuid.UUID `db:"id"`
	CategoryID uuid.UUID `db:"category_id"`
	FrontEN    string    `db:"front_en"`
	FrontRU    string    `db:"front_ru"`
	BackEN     string    `db:"back_en"`
	BackRU     string    `db:"back_ru"`
	Difficulty int       `db:"difficulty"`
	CreatedAt  time.Time `db:"created_at"`
}

type CategoryMeta struct {
	ID     uuid.UUID `db:"id"`
	NameEN string    `db:"name_en"`
	NameRU string    `db:"name_ru"`
	Color  string    `db:"color"`
}

// CardWithMeta is one row of the card ⨝ category join.
type CardWithMeta struct {
	Card     Card         `db:"card"`
	Category CategoryMeta `db:"category"`
}

// UserCardState is a learner's memory state for one card. A missing row means the card is new.
type UserCardState struct {
	UserID int64     `db:"user_id"`
	CardID uuid.UUID `db:"card_id"`
	srs.Card
}

type ReviewLog struct {
	ID           uuid.UUID  `db:"id"`
	UserID       int64      `db:"user_id"`
	CardID       uuid.UUID  `db:"card_id"`
	Rating       srs.Rating `db:"rating"`
	ReviewedAt   time.Time  `db:"reviewed_at"`
	AnswerTimeMs int64      `db:"answer_time_ms"`
	// StabilityBefore is nil when the card had no state before this review.
	StabilityBefore *float64 `db:"stability_before"`
}

func (l ReviewLog) IsNewCard() bool {
	return l.StabilityBefore == nil
}

type SuspendedCard struct {
	UserID      int64     `db:"user_id"`
	CardID      uuid.UUID `db:"card_id"`
	SuspendedAt time.Time `db:"suspended_at"`
}

type Preferences struct {
	UserID            int64   `db:"user_id" validate:"required"`
	DesiredRetention  float64 `db:"desired_retention" validate:"gt=0,lt=1"`
	MaxReviewInterval int     `db:"max_review_interval" validate:"min=1,max=36500"`
	NewCardsPerDay    int     `db:"new_cards_per_day" validate:"min=0,max=9999"`
	NewCardsRampUp    bool    `db:"new_cards_ramp_up"`
}

func DefaultPreferences(userID int64) *Preferences {
	return &Preferences{
		UserID:            userID,
		DesiredRetention:  srs.DefaultDesiredRetention,
		MaxReviewInterval: srs.DefaultMaximumInterval,
		NewCardsPerDay:    20,
	}
}

type OrderOptions struct {
	SubMode    SubMode
	CategoryID *uuid.UUID
	Limit      *int
	// NewCardsPerDay enables the daily new-card budget when set.
	NewCardsPerDay *int
}

type OrderedCard struct {
	Card     Card
	Category CategoryMeta
	State    *UserCardState
	Bucket   int
}

type SubModeCounts struct {
	Full             int `json:"full"`
	QuickReview      int `json:"quick_review"`
	SpacedRepetition int `json:"spaced_repetition"`
}

type DailyStats struct {
	ReviewsToday    int      `json:"reviews_today"`
	NewCardsToday   int      `json:"new_cards_today"`
	CorrectRate     *float64 `json:"correct_rate"`
	AvgAnswerTimeMs *float64 `json:"avg_answer_time_ms"`
	DueTomorrow     int      `json:"due_tomorrow"`
}

type ReviewInput struct {
	UserID       int64
	CardID       uuid.UUID
	Rating       srs.Rating
	AnswerTimeMs int64
	Now          time.Time
}

type ReviewOutcome struct {
	State UserCardState
	Log   ReviewLog
	Due   map[srs.Rating]time.Time
}

type CardPreview struct {
	CardID         uuid.UUID
	State          *UserCardState
	Retrievability *float64
	Previews       srs.Previews
}
