package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/samber/lo"
)

var stateColumns = []string{
	"user_id", "card_id", "stability", "difficulty", "elapsed_days", "scheduled_days",
	"reps", "lapses", "state", "due", "last_review", "learning_steps",
}

func (r Store) GetCardState(ctx context.Context, userID int64, cardID uuid.UUID) (*models.UserCardState, error) {
	query := r.psql.Select(stateColumns...).
		From("user_card_states").
		Where("user_id = ? AND card_id = ?", userID, cardID)

	var state models.UserCardState
	if err := r.get(ctx, &state, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get card state (user_id: %d, card_id: %s): %w", userID, cardID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get card state (user_id: %d, card_id: %s): %w", userID, cardID, err)
	}
	return &state, nil
}

func (r Store) ListCardStates(ctx context.Context, userID int64, cardIDs []uuid.UUID) (map[uuid.UUID]*models.UserCardState, error) {
	result := make(map[uuid.UUID]*models.UserCardState)

	for _, chunk := range lo.Chunk(cardIDs, inChunk) {
		query := r.psql.Select(stateColumns...).
			From("user_card_states").
			Where("user_id = ?", userID).
			Where(squirrel.Eq{"card_id": chunk})

		var states []models.UserCardState
		if err := r.sel(ctx, &states, query); err != nil {
			return nil, fmt.Errorf("list card states (user_id: %d, cards: %d): %w", userID, len(cardIDs), err)
		}
		for i := range states {
			result[states[i].CardID] = &states[i]
		}
	}

	return result, nil
}

// UpsertCardState writes state with last-write-wins semantics per (user_id, card_id).
func (r Store) UpsertCardState(ctx context.Context, state *models.UserCardState) error {
	var lastReview any
	if state.LastReview != nil {
		lastReview = state.LastReview.UTC()
	}

	query := r.psql.Insert("user_card_states").
		Columns(stateColumns...).
		Values(
			state.UserID, state.CardID, state.Stability, state.Difficulty, state.ElapsedDays, state.ScheduledDays,
			state.Reps, state.Lapses, string(state.State), state.Due.UTC(), lastReview, state.LearningSteps,
		).
		Suffix(`ON CONFLICT (user_id, card_id) DO UPDATE SET
			stability = excluded.stability,
			difficulty = excluded.difficulty,
			elapsed_days = excluded.elapsed_days,
			scheduled_days = excluded.scheduled_days,
			reps = excluded.reps,
			lapses = excluded.lapses,
			state = excluded.state,
			due = excluded.due,
			last_review = excluded.last_review,
			learning_steps = excluded.learning_steps`)

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("upsert card state (user_id: %d, card_id: %s): %w", state.UserID, state.CardID, err)
	}
	return nil
}
