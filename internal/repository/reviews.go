package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/samber/lo"
)

func (r Store) AppendReviewLog(ctx context.Context, log *models.ReviewLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	query := r.psql.Insert("review_logs").
		Columns("id", "user_id", "card_id", "rating", "reviewed_at", "answer_time_ms", "stability_before").
		Values(log.ID, log.UserID, log.CardID, int(log.Rating), log.ReviewedAt.UTC(), log.AnswerTimeMs, log.StabilityBefore)

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("append review log (user_id: %d, card_id: %s): %w", log.UserID, log.CardID, err)
	}
	return nil
}

// ListReviewLogsInWindow returns the learner's logs for cardIDs with reviewed_at in [start, end).
func (r Store) ListReviewLogsInWindow(ctx context.Context, userID int64, cardIDs []uuid.UUID, start, end time.Time) ([]models.ReviewLog, error) {
	logs := make([]models.ReviewLog, 0)

	for _, chunk := range lo.Chunk(cardIDs, inChunk) {
		query := r.psql.Select("id", "user_id", "card_id", "rating", "reviewed_at", "answer_time_ms", "stability_before").
			From("review_logs").
			Where("user_id = ?", userID).
			Where(squirrel.Eq{"card_id": chunk}).
			Where("reviewed_at >= ? AND reviewed_at < ?", start.UTC(), end.UTC()).
			OrderBy("reviewed_at")

		var part []models.ReviewLog
		if err := r.sel(ctx, &part, query); err != nil {
			return nil, fmt.Errorf("list review logs (user_id: %d, start: %s, end: %s): %w",
				userID, start.Format(time.RFC3339), end.Format(time.RFC3339), err)
		}
		logs = append(logs, part...)
	}

	return logs, nil
}

// FirstReviewAt returns when the learner answered their first card, or nil if they never did.
func (r Store) FirstReviewAt(ctx context.Context, userID int64) (*time.Time, error) {
	query := r.psql.Select("reviewed_at").
		From("review_logs").
		Where("user_id = ?", userID).
		OrderBy("reviewed_at").
		Limit(1)

	var first time.Time
	if err := r.get(ctx, &first, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get first review (user_id: %d): %w", userID, err)
	}
	return &first, nil
}
