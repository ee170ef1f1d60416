package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
)

// Memory keeps deals and notes in process memory. Values are copied on the
// way in and out so callers never share state with the store.
type Memory struct {
	mu     sync.RWMutex
	now    Clock
	deals  []*model.Deal
	nextID int64
	notes  map[string][]*model.DealNote
}

func NewMemory(now Clock) *Memory {
	t := now()
	deals := fixtureDeals(t)

	return &Memory{
		now:    now,
		deals:  deals,
		nextID: int64(len(deals)) + 1,
		notes:  map[string][]*model.DealNote{dealID(1): fixtureNotes(t)},
	}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) ListDeals(ctx context.Context) ([]*model.Deal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.Deal, 0, len(m.deals))
	for _, d := range m.deals {
		c := *d
		out = append(out, &c)
	}

	return out, nil
}

func (m *Memory) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, errors.Wrapf(ErrDealNotFound, "id %q", id)
	}
	c := *m.deals[i]

	return &c, nil
}

func (m *Memory) CreateDeal(ctx context.Context, in *model.CreateDealInput) (*model.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	d := &model.Deal{
		ID:              dealID(m.nextID),
		Name:            in.Name,
		Description:     in.Description,
		Category:        model.CategoryRealEstate,
		TransactionType: in.TransactionType,
		Status:          in.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if d.Status == "" {
		d.Status = model.StatusDraft
	}
	m.nextID++
	m.deals = append(m.deals, d)
	c := *d

	return &c, nil
}

func (m *Memory) UpdateDeal(ctx context.Context, id string, in *model.UpdateDealInput) (*model.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, errors.Wrapf(ErrDealNotFound, "id %q", id)
	}
	updated := *m.deals[i]
	in.Apply(&updated)
	updated.UpdatedAt = m.now()
	m.deals[i] = &updated
	c := updated

	return &c, nil
}

func (m *Memory) DeleteDeal(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return errors.Wrapf(ErrDealNotFound, "id %q", id)
	}
	m.deals = append(m.deals[:i:i], m.deals[i+1:]...)

	return nil
}

func (m *Memory) ListNotes(ctx context.Context, dealID string) ([]*model.DealNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notes := m.notes[dealID]
	out := make([]*model.DealNote, 0, len(notes))
	for _, n := range notes {
		c := *n
		out = append(out, &c)
	}

	return out, nil
}

func (m *Memory) CreateNote(ctx context.Context, note *model.DealNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *note
	m.notes[note.DealID] = append([]*model.DealNote{&c}, m.notes[note.DealID]...)

	return nil
}

func (m *Memory) indexOf(id string) int {
	for i, d := range m.deals {
		if d.ID == id {
			return i
		}
	}

	return -1
}
