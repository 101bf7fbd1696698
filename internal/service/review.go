package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/romanzh1/lingua-srs/internal/srs"
	"go.uber.org/zap"
)

// RecordReview is the only path that mutates card state. The new state and the log entry
// are written in one transaction; storage errors are returned without retry.
func (s *Service) RecordReview(ctx context.Context, in models.ReviewInput) (*models.ReviewOutcome, error) {
	if !in.Rating.IsValid() {
		return nil, fmt.Errorf("record review (user_id: %d, card_id: %s): %w: %d", in.UserID, in.CardID, srs.ErrInvalidRating, int(in.Rating))
	}
	if in.AnswerTimeMs < 0 {
		return nil, fmt.Errorf("record review (user_id: %d, card_id: %s): %w: %d", in.UserID, in.CardID, ErrInvalidAnswerTime, in.AnswerTimeMs)
	}

	now := in.Now.UTC()
	if in.Now.IsZero() {
		now = s.now()
	}

	var outcome *models.ReviewOutcome
	err := s.repo.RunInTx(ctx, func(tx models.Repository) error {
		prev, err := cardState(ctx, tx, in.UserID, in.CardID)
		if err != nil {
			return fmt.Errorf("get card state (user_id: %d, card_id: %s): %w", in.UserID, in.CardID, err)
		}

		prefs, err := tx.GetPreferences(ctx, in.UserID)
		if err != nil {
			return fmt.Errorf("get preferences (user_id: %d): %w", in.UserID, err)
		}
		sched, err := s.scheduler(prefs)
		if err != nil {
			return err
		}

		var (
			before          *srs.Card
			stabilityBefore *float64
		)
		if prev != nil {
			before = &prev.Card
			stability := prev.Stability
			stabilityBefore = &stability
		}

		res, err := sched.Schedule(before, in.Rating, now)
		if err != nil {
			return fmt.Errorf("schedule (user_id: %d, card_id: %s): %w", in.UserID, in.CardID, err)
		}

		state := models.UserCardState{UserID: in.UserID, CardID: in.CardID, Card: res.Next}
		log := models.ReviewLog{
			ID:              uuid.New(),
			UserID:          in.UserID,
			CardID:          in.CardID,
			Rating:          in.Rating,
			ReviewedAt:      now,
			AnswerTimeMs:    in.AnswerTimeMs,
			StabilityBefore: stabilityBefore,
		}

		if err := tx.UpsertCardState(ctx, &state); err != nil {
			zap.L().Error("upsert card state", zap.Error(err), zap.Int64("user_id", in.UserID), zap.String("card_id", in.CardID.String()))
			return err
		}
		if err := tx.AppendReviewLog(ctx, &log); err != nil {
			zap.L().Error("append review log", zap.Error(err), zap.Int64("user_id", in.UserID), zap.String("card_id", in.CardID.String()))
			return err
		}

		outcome = &models.ReviewOutcome{State: state, Log: log, Due: res.Due}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record review (user_id: %d, card_id: %s): %w", in.UserID, in.CardID, err)
	}

	return outcome, nil
}
