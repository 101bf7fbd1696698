package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/romanzh1/lingua-srs/internal/models"
)

func (r Store) GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error) {
	query := r.psql.Select("user_id", "desired_retention", "max_review_interval", "new_cards_per_day", "new_cards_ramp_up").
		From("user_preferences").
		Where("user_id = ?", userID)

	var prefs models.Preferences
	if err := r.get(ctx, &prefs, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultPreferences(userID), nil
		}
		return nil, fmt.Errorf("get preferences (user_id: %d): %w", userID, err)
	}
	return &prefs, nil
}

func (r Store) SavePreferences(ctx context.Context, prefs *models.Preferences) error {
	query := r.psql.Insert("user_preferences").
		Columns("user_id", "desired_retention", "max_review_interval", "new_cards_per_day", "new_cards_ramp_up").
		Values(prefs.UserID, prefs.DesiredRetention, prefs.MaxReviewInterval, prefs.NewCardsPerDay, prefs.NewCardsRampUp).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			desired_retention = excluded.desired_retention,
			max_review_interval = excluded.max_review_interval,
			new_cards_per_day = excluded.new_cards_per_day,
			new_cards_ramp_up = excluded.new_cards_ramp_up`)

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("save preferences (user_id: %d): %w", prefs.UserID, err)
	}
	return nil
}
