package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
)

func (r Store) CreateTopic(ctx context.Context, topic *models.Topic) error {
	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = time.Now().UTC()
	}

	query := r.psql.Insert("topics").
		Columns("id", "name_en", "name_ru", "created_at").
		Values(topic.ID, topic.NameEN, topic.NameRU, topic.CreatedAt.UTC())

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("create topic (name: %s): %w", topic.NameEN, err)
	}
	return nil
}

func (r Store) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	query := r.psql.Insert("categories").
		Columns("id", "topic_id", "name_en", "name_ru", "color", "created_at").
		Values(category.ID, category.TopicID, category.NameEN, category.NameRU, category.Color, category.CreatedAt.UTC())

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("create category (topic_id: %s, name: %s): %w", category.TopicID, category.NameEN, err)
	}
	return nil
}

func (r Store) CreateCard(ctx context.Context, card *models.Card) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}

	query := r.psql.Insert("cards").
		Columns("id", "category_id", "front_en", "front_ru", "back_en", "back_ru", "difficulty", "created_at").
		Values(card.ID, card.CategoryID, card.FrontEN, card.FrontRU, card.BackEN, card.BackRU, card.Difficulty, card.CreatedAt.UTC())

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("create card (category_id: %s): %w", card.CategoryID, err)
	}
	return nil
}

func (r Store) ListCardsForTopic(ctx context.Context, topicID uuid.UUID, categoryID *uuid.UUID) ([]models.CardWithMeta, error) {
	query := r.psql.Select(
		`c.id AS "card.id"`,
		`c.category_id AS "card.category_id"`,
		`c.front_en AS "card.front_en"`,
		`c.front_ru AS "card.front_ru"`,
		`c.back_en AS "card.back_en"`,
		`c.back_ru AS "card.back_ru"`,
		`c.difficulty AS "card.difficulty"`,
		`c.created_at AS "card.created_at"`,
		`cat.id AS "category.id"`,
		`cat.name_en AS "category.name_en"`,
		`cat.name_ru AS "category.name_ru"`,
		`cat.color AS "category.color"`,
	).
		From("cards c").
		Join("categories cat ON cat.id = c.category_id").
		Where("cat.topic_id = ?", topicID).
		OrderBy("c.created_at", "c.id")

	if categoryID != nil {
		query = query.Where("c.category_id = ?", *categoryID)
	}

	cards := make([]models.CardWithMeta, 0)
	if err := r.sel(ctx, &cards, query); err != nil {
		return nil, fmt.Errorf("list cards for topic (topic_id: %s): %w", topicID, err)
	}
	return cards, nil
}
