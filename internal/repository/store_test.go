package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/romanzh1/lingua-srs/internal/srs"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testDSN = "file::memory:?_time_format=sqlite"

var day0 = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewDB(DriverSQLite, testDSN, 1, 1)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Up(); err != nil {
		t.Fatalf("Up: %v", err)
	}
	return store
}

type fixture struct {
	topic     models.Topic
	verbs     models.Category
	nouns     models.Category
	verbCards []models.Card
	nounCards []models.Card
}

func seed(t *testing.T, store *Store) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		topic: models.Topic{NameEN: "Basics", NameRU: "Основы"},
	}
	if err := store.CreateTopic(ctx, &f.topic); err != nil {
		t.Fatal(err)
	}

	f.verbs = models.Category{TopicID: f.topic.ID, NameEN: "Verbs", NameRU: "Глаголы", Color: "#ff0000"}
	f.nouns = models.Category{TopicID: f.topic.ID, NameEN: "Nouns", NameRU: "Существительные", Color: "#00ff00"}
	for _, c := range []*models.Category{&f.verbs, &f.nouns} {
		if err := store.CreateCategory(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	for i, front := range []string{"run", "walk", "read"} {
		card := models.Card{CategoryID: f.verbs.ID, FrontEN: front, BackRU: front, Difficulty: 3, CreatedAt: day0.Add(time.Duration(i) * time.Minute)}
		if err := store.CreateCard(ctx, &card); err != nil {
			t.Fatal(err)
		}
		f.verbCards = append(f.verbCards, card)
	}
	for i, front := range []string{"house", "tree"} {
		card := models.Card{CategoryID: f.nouns.ID, FrontEN: front, BackRU: front, Difficulty: 5, CreatedAt: day0.Add(time.Hour + time.Duration(i)*time.Minute)}
		if err := store.CreateCard(ctx, &card); err != nil {
			t.Fatal(err)
		}
		f.nounCards = append(f.nounCards, card)
	}
	return f
}

func (f fixture) allIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, c := range append(append([]models.Card{}, f.verbCards...), f.nounCards...) {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestListCardsForTopic(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)
	ctx := context.Background()

	all, err := store.ListCardsForTopic(ctx, f.topic.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("len = %d, want 5", len(all))
	}
	first := all[0]
	if first.Card.ID != f.verbCards[0].ID || first.Card.FrontEN != "run" {
		t.Errorf("first card = %+v, want run", first.Card)
	}
	if first.Category.ID != f.verbs.ID || first.Category.NameRU != "Глаголы" || first.Category.Color != "#ff0000" {
		t.Errorf("category meta = %+v", first.Category)
	}

	nouns, err := store.ListCardsForTopic(ctx, f.topic.ID, &f.nouns.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(nouns) != 2 {
		t.Fatalf("category filter: len = %d, want 2", len(nouns))
	}
	for _, c := range nouns {
		if c.Card.CategoryID != f.nouns.ID {
			t.Errorf("card %s from category %s", c.Card.ID, c.Card.CategoryID)
		}
	}

	empty, err := store.ListCardsForTopic(ctx, uuid.New(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("unknown topic: got %v, want empty slice", empty)
	}
}

func TestCardStateRoundTripAndUpsert(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)
	ctx := context.Background()
	cardID := f.verbCards[0].ID

	if _, err := store.GetCardState(ctx, 7, cardID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("GetCardState missing: err = %v, want ErrNotFound", err)
	}

	last := day0.Add(9 * time.Hour)
	state := &models.UserCardState{
		UserID: 7,
		CardID: cardID,
		Card: srs.Card{
			Stability:     2.3065,
			Difficulty:    2.1,
			ScheduledDays: 2,
			Reps:          1,
			State:         srs.Review,
			Due:           last.Add(48 * time.Hour),
			LastReview:    &last,
		},
	}
	if err := store.UpsertCardState(ctx, state); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetCardState(ctx, 7, cardID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != srs.Review || got.Reps != 1 || got.Stability != 2.3065 {
		t.Errorf("state = %+v", got.Card)
	}
	if !got.Due.Equal(state.Due) || got.LastReview == nil || !got.LastReview.Equal(last) {
		t.Errorf("due/last review = %v/%v, want %v/%v", got.Due, got.LastReview, state.Due, last)
	}

	state.Reps = 2
	state.Lapses = 1
	state.State = srs.Relearning
	if err := store.UpsertCardState(ctx, state); err != nil {
		t.Fatal(err)
	}

	states, err := store.ListCardStates(ctx, 7, f.allIDs())
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 1 {
		t.Fatalf("len(states) = %d, want 1", len(states))
	}
	if s := states[cardID]; s.Reps != 2 || s.Lapses != 1 || s.State != srs.Relearning {
		t.Errorf("upserted state = %+v", s.Card)
	}

	other, err := store.ListCardStates(ctx, 8, f.allIDs())
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("states leaked to another learner: %v", other)
	}
}

func TestListCardStatesEmptyInput(t *testing.T) {
	store := newTestStore(t)
	states, err := store.ListCardStates(context.Background(), 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if states == nil || len(states) != 0 {
		t.Errorf("got %v, want empty map", states)
	}
}

func TestSuspendAndUnsuspend(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)
	ctx := context.Background()
	cardID := f.nounCards[1].ID

	for range 2 {
		if err := store.SuspendCard(ctx, 3, cardID, day0); err != nil {
			t.Fatalf("SuspendCard: %v", err)
		}
	}

	suspended, err := store.ListSuspendedCardIDs(ctx, 3, f.allIDs())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := suspended[cardID]; !ok || len(suspended) != 1 {
		t.Errorf("suspended = %v, want only %s", suspended, cardID)
	}

	if err := store.UnsuspendCard(ctx, 3, cardID); err != nil {
		t.Fatal(err)
	}
	suspended, err = store.ListSuspendedCardIDs(ctx, 3, f.allIDs())
	if err != nil {
		t.Fatal(err)
	}
	if len(suspended) != 0 {
		t.Errorf("after unsuspend: %v", suspended)
	}
}

func TestReviewLogsWindow(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)
	ctx := context.Background()

	if first, err := store.FirstReviewAt(ctx, 5); err != nil || first != nil {
		t.Fatalf("FirstReviewAt with no logs = %v, %v", first, err)
	}

	stability := 3.0
	logs := []models.ReviewLog{
		{UserID: 5, CardID: f.verbCards[0].ID, Rating: srs.Good, ReviewedAt: day0.Add(-time.Minute), AnswerTimeMs: 900},
		{UserID: 5, CardID: f.verbCards[0].ID, Rating: srs.Again, ReviewedAt: day0, AnswerTimeMs: 1200, StabilityBefore: &stability},
		{UserID: 5, CardID: f.verbCards[1].ID, Rating: srs.Easy, ReviewedAt: day0.Add(23 * time.Hour)},
		{UserID: 5, CardID: f.verbCards[2].ID, Rating: srs.Hard, ReviewedAt: day0.Add(24 * time.Hour)},
		{UserID: 6, CardID: f.verbCards[1].ID, Rating: srs.Good, ReviewedAt: day0.Add(time.Hour)},
	}
	for i := range logs {
		if err := store.AppendReviewLog(ctx, &logs[i]); err != nil {
			t.Fatal(err)
		}
		if logs[i].ID == uuid.Nil {
			t.Fatal("AppendReviewLog did not assign an id")
		}
	}

	got, err := store.ListReviewLogsInWindow(ctx, 5, f.allIDs(), day0, day0.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Rating != srs.Again || got[0].StabilityBefore == nil || *got[0].StabilityBefore != 3 {
		t.Errorf("first log = %+v", got[0])
	}
	if got[1].Rating != srs.Easy || !got[1].IsNewCard() {
		t.Errorf("second log = %+v", got[1])
	}

	restricted, err := store.ListReviewLogsInWindow(ctx, 5, []uuid.UUID{f.verbCards[1].ID}, day0, day0.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(restricted) != 1 {
		t.Errorf("restricted len = %d, want 1", len(restricted))
	}

	first, err := store.FirstReviewAt(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if first == nil || !first.Equal(day0.Add(-time.Minute)) {
		t.Errorf("FirstReviewAt = %v, want %v", first, day0.Add(-time.Minute))
	}
}

func TestPreferencesDefaultsAndSave(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	prefs, err := store.GetPreferences(ctx, 11)
	if err != nil {
		t.Fatal(err)
	}
	if *prefs != *models.DefaultPreferences(11) {
		t.Errorf("defaults = %+v", prefs)
	}

	prefs.DesiredRetention = 0.85
	prefs.NewCardsPerDay = 5
	prefs.NewCardsRampUp = true
	if err := store.SavePreferences(ctx, prefs); err != nil {
		t.Fatal(err)
	}
	prefs.NewCardsPerDay = 7
	if err := store.SavePreferences(ctx, prefs); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetPreferences(ctx, 11)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *prefs {
		t.Errorf("saved = %+v, want %+v", got, prefs)
	}
}

func TestRunInTxRollsBack(t *testing.T) {
	store := newTestStore(t)
	f := seed(t, store)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(tx models.Repository) error {
		log := &models.ReviewLog{UserID: 1, CardID: f.verbCards[0].ID, Rating: srs.Good, ReviewedAt: day0}
		if err := tx.AppendReviewLog(ctx, log); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunInTx err = %v, want boom", err)
	}

	logs, err := store.ListReviewLogsInWindow(ctx, 1, f.allIDs(), day0.Add(-time.Hour), day0.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 0 {
		t.Errorf("rolled back log persisted: %+v", logs)
	}

	err = store.RunInTx(ctx, func(tx models.Repository) error {
		return tx.AppendReviewLog(ctx, &models.ReviewLog{UserID: 1, CardID: f.verbCards[0].ID, Rating: srs.Good, ReviewedAt: day0})
	})
	if err != nil {
		t.Fatal(err)
	}
	logs, err = store.ListReviewLogsInWindow(ctx, 1, f.allIDs(), day0.Add(-time.Hour), day0.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Errorf("committed logs = %d, want 1", len(logs))
	}
}

func TestMigrationsLogThroughZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

	newTestStore(t)

	applied := logs.FilterMessageSnippet("00001_init.sql")
	if applied.Len() == 0 {
		t.Fatalf("no migration entry logged, got %d entries", logs.Len())
	}
	if lvl := applied.All()[0].Level; lvl != zap.DebugLevel {
		t.Errorf("level = %v, want debug", lvl)
	}
}
