package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	RunInTx(ctx context.Context, fn func(Repository) error) error

	CreateTopic(ctx context.Context, topic *Topic) error
	CreateCategory(ctx context.Context, category *Category) error
	CreateCard(ctx context.Context, card *Card) error
	ListCardsForTopic(ctx context.Context, topicID uuid.UUID, categoryID *uuid.UUID) ([]CardWithMeta, error)

	ListSuspendedCardIDs(ctx context.Context, userID int64, cardIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
	SuspendCard(ctx context.Context, userID int64, cardID uuid.UUID, at time.Time) error
	UnsuspendCard(ctx context.Context, userID int64, cardID uuid.UUID) error

	GetCardState(ctx context.Context, userID int64, cardID uuid.UUID) (*UserCardState, error)
	ListCardStates(ctx context.Context, userID int64, cardIDs []uuid.UUID) (map[uuid.UUID]*UserCardState, error)
	UpsertCardState(ctx context.Context, state *UserCardState) error

	AppendReviewLog(ctx context.Context, log *ReviewLog) error
	ListReviewLogsInWindow(ctx context.Context, userID int64, cardIDs []uuid.UUID, start, end time.Time) ([]ReviewLog, error)
	FirstReviewAt(ctx context.Context, userID int64) (*time.Time, error)

	PreferencesStore
}

// PreferencesStore returns DefaultPreferences for learners that never saved any.
type PreferencesStore interface {
	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	SavePreferences(ctx context.Context, prefs *Preferences) error
}

type Service interface {
	GetOrderedCards(ctx context.Context, userID int64, topicID uuid.UUID, opts OrderOptions) ([]OrderedCard, error)
	GetSubModeCounts(ctx context.Context, userID int64, topicID uuid.UUID) (SubModeCounts, error)
	GetDailyStats(ctx context.Context, userID int64, topicID uuid.UUID) (DailyStats, error)
	RecordReview(ctx context.Context, in ReviewInput) (*ReviewOutcome, error)
	PreviewCard(ctx context.Context, userID int64, cardID uuid.UUID, now time.Time) (*CardPreview, error)

	NewCardsLimit(ctx context.Context, userID int64, now time.Time) (int, error)
	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	SavePreferences(ctx context.Context, prefs *Preferences) error
	SuspendCard(ctx context.Context, userID int64, cardID uuid.UUID) error
	UnsuspendCard(ctx context.Context, userID int64, cardID uuid.UUID) error
}
