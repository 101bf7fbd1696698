package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/romanzh1/lingua-srs/internal/srs"
	"github.com/romanzh1/lingua-srs/pkg/utils"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Ordering priorities, lowest first.
const (
	BucketReviewDue = iota
	BucketNew
	BucketLearningDue
	BucketFuture
)

type topicSnapshot struct {
	cards []models.OrderedCard
	// introducedToday counts distinct cards first reviewed today.
	introducedToday int
}

func (s *Service) GetOrderedCards(ctx context.Context, userID int64, topicID uuid.UUID, opts models.OrderOptions) ([]models.OrderedCard, error) {
	if err := validateOrderOptions(opts); err != nil {
		return nil, err
	}

	var categoryID *uuid.UUID
	if opts.SubMode == models.SubModeCategoryFocus {
		categoryID = opts.CategoryID
	}

	now := s.now()
	snap, err := s.loadTopic(ctx, userID, topicID, categoryID, now, opts.NewCardsPerDay != nil)
	if err != nil {
		return nil, fmt.Errorf("load topic (user_id: %d, topic_id: %s): %w", userID, topicID, err)
	}

	cards := filterSubMode(snap.cards, opts.SubMode, now)
	cards = orderCards(cards, now)

	if opts.NewCardsPerDay != nil {
		cards = applyNewCardBudget(cards, max(0, *opts.NewCardsPerDay-snap.introducedToday))
	}

	limit := -1
	switch {
	case opts.Limit != nil:
		limit = *opts.Limit
	case opts.SubMode == models.SubModeQuickReview:
		limit = quickReviewLimit
	}
	if limit >= 0 && len(cards) > limit {
		cards = cards[:limit]
	}

	zap.L().Debug("ordered cards",
		zap.Int64("user_id", userID),
		zap.String("topic_id", topicID.String()),
		zap.String("sub_mode", string(opts.SubMode)),
		zap.Int("cards", len(cards)),
		zap.Int("introduced_today", snap.introducedToday),
	)

	return cards, nil
}

func (s *Service) GetSubModeCounts(ctx context.Context, userID int64, topicID uuid.UUID) (models.SubModeCounts, error) {
	now := s.now()
	snap, err := s.loadTopic(ctx, userID, topicID, nil, now, false)
	if err != nil {
		return models.SubModeCounts{}, fmt.Errorf("load topic (user_id: %d, topic_id: %s): %w", userID, topicID, err)
	}

	counts := models.SubModeCounts{Full: len(snap.cards)}
	for _, c := range snap.cards {
		if c.State == nil {
			continue
		}
		counts.QuickReview++
		if isReviewDue(c.State, now) {
			counts.SpacedRepetition++
		}
	}
	counts.QuickReview = min(counts.QuickReview, quickReviewLimit)

	return counts, nil
}

func validateOrderOptions(opts models.OrderOptions) error {
	if !opts.SubMode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSubMode, opts.SubMode)
	}
	if opts.SubMode == models.SubModeCategoryFocus && opts.CategoryID == nil {
		return ErrCategoryRequired
	}
	if opts.Limit != nil && *opts.Limit < 0 {
		return fmt.Errorf("%w: limit %d", ErrInvalidOption, *opts.Limit)
	}
	if opts.NewCardsPerDay != nil && *opts.NewCardsPerDay < 0 {
		return fmt.Errorf("%w: new cards per day %d", ErrInvalidOption, *opts.NewCardsPerDay)
	}
	return nil
}

// loadTopic fetches the topic's cards, then suspensions, states and (optionally) today's
// logs concurrently. Suspended cards are dropped from the snapshot.
func (s *Service) loadTopic(ctx context.Context, userID int64, topicID uuid.UUID, categoryID *uuid.UUID, now time.Time, withLogs bool) (*topicSnapshot, error) {
	rows, err := s.repo.ListCardsForTopic(ctx, topicID, categoryID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &topicSnapshot{cards: []models.OrderedCard{}}, nil
	}

	ids := lo.Map(rows, func(r models.CardWithMeta, _ int) uuid.UUID { return r.Card.ID })

	var (
		suspended map[uuid.UUID]struct{}
		states    map[uuid.UUID]*models.UserCardState
		logs      []models.ReviewLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		suspended, err = s.repo.ListSuspendedCardIDs(gctx, userID, ids)
		return err
	})
	g.Go(func() error {
		var err error
		states, err = s.repo.ListCardStates(gctx, userID, ids)
		return err
	})
	if withLogs {
		g.Go(func() error {
			start, end := utils.DayWindow(now)
			var err error
			logs, err = s.repo.ListReviewLogsInWindow(gctx, userID, ids, start, end)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cards := make([]models.OrderedCard, 0, len(rows))
	for _, r := range rows {
		if _, ok := suspended[r.Card.ID]; ok {
			continue
		}
		cards = append(cards, models.OrderedCard{
			Card:     r.Card,
			Category: r.Category,
			State:    states[r.Card.ID],
		})
	}

	return &topicSnapshot{cards: cards, introducedToday: countIntroduced(logs)}, nil
}

func countIntroduced(logs []models.ReviewLog) int {
	introduced := lo.FilterMap(logs, func(l models.ReviewLog, _ int) (uuid.UUID, bool) {
		return l.CardID, l.IsNewCard()
	})
	return len(lo.Uniq(introduced))
}

func filterSubMode(cards []models.OrderedCard, mode models.SubMode, now time.Time) []models.OrderedCard {
	switch mode {
	case models.SubModeQuickReview:
		return lo.Filter(cards, func(c models.OrderedCard, _ int) bool { return c.State != nil })
	case models.SubModeSpacedRepetition:
		return lo.Filter(cards, func(c models.OrderedCard, _ int) bool { return isReviewDue(c.State, now) })
	default:
		return cards
	}
}

// isReviewDue reports a genuine review or relearning card that is due; learning steps are excluded.
func isReviewDue(state *models.UserCardState, now time.Time) bool {
	if state == nil || !state.IsDue(now) {
		return false
	}
	return state.State == srs.Review || state.State == srs.Relearning
}

func bucketOf(state *models.UserCardState, now time.Time) int {
	switch {
	case state == nil || state.State == srs.New:
		return BucketNew
	case isReviewDue(state, now):
		return BucketReviewDue
	case state.State == srs.Learning && state.IsDue(now):
		return BucketLearningDue
	default:
		return BucketFuture
	}
}

// orderCards sorts by bucket. Due buckets are ordered most overdue first; the new and
// future buckets are shuffled on every call.
func orderCards(cards []models.OrderedCard, now time.Time) []models.OrderedCard {
	var buckets [4][]models.OrderedCard
	for _, c := range cards {
		c.Bucket = bucketOf(c.State, now)
		buckets[c.Bucket] = append(buckets[c.Bucket], c)
	}

	byDue := func(a, b models.OrderedCard) int {
		return a.State.Due.Compare(b.State.Due)
	}
	slices.SortStableFunc(buckets[BucketReviewDue], byDue)
	slices.SortStableFunc(buckets[BucketLearningDue], byDue)
	buckets[BucketNew] = lo.Shuffle(buckets[BucketNew])
	buckets[BucketFuture] = lo.Shuffle(buckets[BucketFuture])

	out := make([]models.OrderedCard, 0, len(cards))
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

// applyNewCardBudget keeps the first remaining new cards and every other card.
func applyNewCardBudget(cards []models.OrderedCard, remaining int) []models.OrderedCard {
	kept := 0
	return lo.Filter(cards, func(c models.OrderedCard, _ int) bool {
		if c.Bucket != BucketNew {
			return true
		}
		kept++
		return kept <= remaining
	})
}
