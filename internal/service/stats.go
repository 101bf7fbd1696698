package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/romanzh1/lingua-srs/pkg/utils"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// GetDailyStats summarizes today's reviews in the topic using UTC day boundaries.
func (s *Service) GetDailyStats(ctx context.Context, userID int64, topicID uuid.UUID) (models.DailyStats, error) {
	rows, err := s.repo.ListCardsForTopic(ctx, topicID, nil)
	if err != nil {
		return models.DailyStats{}, fmt.Errorf("list cards for topic (user_id: %d, topic_id: %s): %w", userID, topicID, err)
	}
	if len(rows) == 0 {
		return models.DailyStats{}, nil
	}
	ids := lo.Map(rows, func(r models.CardWithMeta, _ int) uuid.UUID { return r.Card.ID })

	now := s.now()
	todayStart, todayEnd := utils.DayWindow(now)
	tomorrowStart, tomorrowEnd := utils.NextDayWindow(now)

	var (
		logs   []models.ReviewLog
		states map[uuid.UUID]*models.UserCardState
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		logs, err = s.repo.ListReviewLogsInWindow(gctx, userID, ids, todayStart, todayEnd)
		return err
	})
	g.Go(func() error {
		var err error
		states, err = s.repo.ListCardStates(gctx, userID, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DailyStats{}, fmt.Errorf("load daily activity (user_id: %d, topic_id: %s): %w", userID, topicID, err)
	}

	stats := summarizeLogs(logs)
	for _, st := range states {
		if !st.Due.Before(tomorrowStart) && st.Due.Before(tomorrowEnd) {
			stats.DueTomorrow++
		}
	}
	return stats, nil
}

func summarizeLogs(logs []models.ReviewLog) models.DailyStats {
	stats := models.DailyStats{ReviewsToday: len(logs)}
	if len(logs) == 0 {
		return stats
	}

	var correct, timed int
	var totalMs int64
	for _, l := range logs {
		if l.Rating.IsCorrect() {
			correct++
		}
		if l.IsNewCard() {
			stats.NewCardsToday++
		}
		if l.AnswerTimeMs > 0 {
			timed++
			totalMs += l.AnswerTimeMs
		}
	}

	rate := float64(correct) / float64(len(logs))
	stats.CorrectRate = &rate
	if timed > 0 {
		avg := float64(totalMs) / float64(timed)
		stats.AvgAnswerTimeMs = &avg
	}
	return stats
}
