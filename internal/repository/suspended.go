package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

func (r Store) ListSuspendedCardIDs(ctx context.Context, userID int64, cardIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	result := make(map[uuid.UUID]struct{})

	for _, chunk := range lo.Chunk(cardIDs, inChunk) {
		query := r.psql.Select("card_id").
			From("suspended_cards").
			Where("user_id = ?", userID).
			Where(squirrel.Eq{"card_id": chunk})

		var ids []uuid.UUID
		if err := r.sel(ctx, &ids, query); err != nil {
			return nil, fmt.Errorf("list suspended cards (user_id: %d): %w", userID, err)
		}
		for _, id := range ids {
			result[id] = struct{}{}
		}
	}

	return result, nil
}

func (r Store) SuspendCard(ctx context.Context, userID int64, cardID uuid.UUID, at time.Time) error {
	query := r.psql.Insert("suspended_cards").
		Columns("user_id", "card_id", "suspended_at").
		Values(userID, cardID, at.UTC()).
		Suffix("ON CONFLICT (user_id, card_id) DO NOTHING")

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("suspend card (user_id: %d, card_id: %s): %w", userID, cardID, err)
	}
	return nil
}

func (r Store) UnsuspendCard(ctx context.Context, userID int64, cardID uuid.UUID) error {
	query := r.psql.Delete("suspended_cards").
		Where("user_id = ? AND card_id = ?", userID, cardID)

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("unsuspend card (user_id: %d, card_id: %s): %w", userID, cardID, err)
	}
	return nil
}
