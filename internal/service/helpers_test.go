package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/romanzh1/lingua-srs/internal/srs"
)

const learner int64 = 42

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type deck struct {
	repo  *fakeRepo
	svc   *Service
	topic uuid.UUID
	catA  uuid.UUID
	catB  uuid.UUID
}

func newDeck(t *testing.T) *deck {
	t.Helper()
	ctx := context.Background()
	repo := newFakeRepo()

	topic := models.Topic{NameEN: "Travel", NameRU: "Путешествия"}
	if err := repo.CreateTopic(ctx, &topic); err != nil {
		t.Fatal(err)
	}
	catA := models.Category{TopicID: topic.ID, NameEN: "Airport", NameRU: "Аэропорт", Color: "#3366ff"}
	catB := models.Category{TopicID: topic.ID, NameEN: "Hotel", NameRU: "Гостиница", Color: "#ff9900"}
	for _, c := range []*models.Category{&catA, &catB} {
		if err := repo.CreateCategory(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	svc := NewService(repo, srs.DefaultConfig())
	svc.clock = func() time.Time { return testNow }

	return &deck{repo: repo, svc: svc, topic: topic.ID, catA: catA.ID, catB: catB.ID}
}

func (d *deck) card(t *testing.T, category uuid.UUID) uuid.UUID {
	t.Helper()
	c := models.Card{CategoryID: category, FrontEN: "word", FrontRU: "слово", Difficulty: 4}
	if err := d.repo.CreateCard(context.Background(), &c); err != nil {
		t.Fatal(err)
	}
	return c.ID
}

func (d *deck) cards(t *testing.T, category uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = d.card(t, category)
	}
	return ids
}

func (d *deck) setState(cardID uuid.UUID, state srs.State, due time.Time) {
	last := testNow.Add(-72 * time.Hour)
	d.repo.states[stateKey{learner, cardID}] = &models.UserCardState{
		UserID: learner,
		CardID: cardID,
		Card: srs.Card{
			Stability:  5,
			Difficulty: 5,
			Reps:       2,
			State:      state,
			Due:        due,
			LastReview: &last,
		},
	}
}

func (d *deck) addLog(cardID uuid.UUID, rating srs.Rating, at time.Time, answerMs int64, newCard bool) {
	l := models.ReviewLog{
		ID:           uuid.New(),
		UserID:       learner,
		CardID:       cardID,
		Rating:       rating,
		ReviewedAt:   at,
		AnswerTimeMs: answerMs,
	}
	if !newCard {
		s := 4.0
		l.StabilityBefore = &s
	}
	d.repo.logs = append(d.repo.logs, l)
}

func ptr[T any](v T) *T {
	return &v
}

func cardIDs(cards []models.OrderedCard) []uuid.UUID {
	ids := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		ids[i] = c.Card.ID
	}
	return ids
}
