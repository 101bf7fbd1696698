package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/romanzh1/lingua-srs/internal/models"
)

type stateKey struct {
	userID int64
	cardID uuid.UUID
}

type fakeRepo struct {
	mu         sync.RWMutex
	topics     map[uuid.UUID]models.Topic
	categories map[uuid.UUID]models.Category
	cards      []models.Card
	states     map[stateKey]*models.UserCardState
	logs       []models.ReviewLog
	suspended  map[stateKey]time.Time
	prefs      map[int64]*models.Preferences

	errStates error
	errAppend error
}

var _ models.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		topics:     make(map[uuid.UUID]models.Topic),
		categories: make(map[uuid.UUID]models.Category),
		states:     make(map[stateKey]*models.UserCardState),
		suspended:  make(map[stateKey]time.Time),
		prefs:      make(map[int64]*models.Preferences),
	}
}

// RunInTx restores states and logs when fn fails.
func (r *fakeRepo) RunInTx(ctx context.Context, fn func(models.Repository) error) error {
	r.mu.RLock()
	states := make(map[stateKey]*models.UserCardState, len(r.states))
	for k, v := range r.states {
		cp := *v
		states[k] = &cp
	}
	logs := slices.Clone(r.logs)
	r.mu.RUnlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.states = states
		r.logs = logs
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *fakeRepo) CreateTopic(ctx context.Context, topic *models.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if topic.ID == uuid.Nil {
		topic.ID = uuid.New()
	}
	r.topics[topic.ID] = *topic
	return nil
}

func (r *fakeRepo) CreateCategory(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	r.categories[category.ID] = *category
	return nil
}

func (r *fakeRepo) CreateCard(ctx context.Context, card *models.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	r.cards = append(r.cards, *card)
	return nil
}

func (r *fakeRepo) ListCardsForTopic(ctx context.Context, topicID uuid.UUID, categoryID *uuid.UUID) ([]models.CardWithMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.CardWithMeta, 0)
	for _, c := range r.cards {
		cat, ok := r.categories[c.CategoryID]
		if !ok || cat.TopicID != topicID {
			continue
		}
		if categoryID != nil && c.CategoryID != *categoryID {
			continue
		}
		out = append(out, models.CardWithMeta{
			Card:     c,
			Category: models.CategoryMeta{ID: cat.ID, NameEN: cat.NameEN, NameRU: cat.NameRU, Color: cat.Color},
		})
	}
	return out, nil
}

func (r *fakeRepo) ListSuspendedCardIDs(ctx context.Context, userID int64, cardIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]struct{})
	for _, id := range cardIDs {
		if _, ok := r.suspended[stateKey{userID, id}]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (r *fakeRepo) SuspendCard(ctx context.Context, userID int64, cardID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suspended[stateKey{userID, cardID}]; !ok {
		r.suspended[stateKey{userID, cardID}] = at
	}
	return nil
}

func (r *fakeRepo) UnsuspendCard(ctx context.Context, userID int64, cardID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.suspended, stateKey{userID, cardID})
	return nil
}

func (r *fakeRepo) GetCardState(ctx context.Context, userID int64, cardID uuid.UUID) (*models.UserCardState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.errStates != nil {
		return nil, r.errStates
	}
	st, ok := r.states[stateKey{userID, cardID}]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *fakeRepo) ListCardStates(ctx context.Context, userID int64, cardIDs []uuid.UUID) (map[uuid.UUID]*models.UserCardState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.errStates != nil {
		return nil, r.errStates
	}

	out := make(map[uuid.UUID]*models.UserCardState)
	for _, id := range cardIDs {
		if st, ok := r.states[stateKey{userID, id}]; ok {
			cp := *st
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *fakeRepo) UpsertCardState(ctx context.Context, state *models.UserCardState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *state
	r.states[stateKey{state.UserID, state.CardID}] = &cp
	return nil
}

func (r *fakeRepo) AppendReviewLog(ctx context.Context, log *models.ReviewLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errAppend != nil {
		return r.errAppend
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeRepo) ListReviewLogsInWindow(ctx context.Context, userID int64, cardIDs []uuid.UUID, start, end time.Time) ([]models.ReviewLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ReviewLog, 0)
	for _, l := range r.logs {
		if l.UserID != userID || !slices.Contains(cardIDs, l.CardID) {
			continue
		}
		if l.ReviewedAt.Before(start) || !l.ReviewedAt.Before(end) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeRepo) FirstReviewAt(ctx context.Context, userID int64) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var first *time.Time
	for _, l := range r.logs {
		if l.UserID == userID && (first == nil || l.ReviewedAt.Before(*first)) {
			at := l.ReviewedAt
			first = &at
		}
	}
	return first, nil
}

func (r *fakeRepo) GetPreferences(ctx context.Context, userID int64) (*models.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.prefs[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return models.DefaultPreferences(userID), nil
}

func (r *fakeRepo) SavePreferences(ctx context.Context, prefs *models.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *prefs
	r.prefs[prefs.UserID] = &cp
	return nil
}
