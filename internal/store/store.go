// Package store holds the mock persistence for deals and their notes.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
)

var ErrDealNotFound = errors.New("deal not found")

type DealStore interface {
	ListDeals(ctx context.Context) ([]*model.Deal, error)
	GetDeal(ctx context.Context, id string) (*model.Deal, error)
	CreateDeal(ctx context.Context, in *model.CreateDealInput) (*model.Deal, error)
	UpdateDeal(ctx context.Context, id string, in *model.UpdateDealInput) (*model.Deal, error)
	DeleteDeal(ctx context.Context, id string) error
}

// NoteStore lists notes newest-inserted first. A deal without notes, known
// or not, has an empty list.
type NoteStore interface {
	ListNotes(ctx context.Context, dealID string) ([]*model.DealNote, error)
	CreateNote(ctx context.Context, note *model.DealNote) error
}

type Store interface {
	DealStore
	NoteStore
	Close() error
}

type Clock func() time.Time

func dealID(n int64) string {
	return fmt.Sprintf("deal-%d", n)
}

// fixtureDeals returns the seed deals in id order.
func fixtureDeals(now time.Time) []*model.Deal {
	return []*model.Deal{
		{
			ID:              dealID(1),
			Name:            "12 Harbor View Rd",
			Description:     "Single-family home, 4 bed / 3 bath.",
			Category:        model.CategoryRealEstate,
			TransactionType: model.TransactionSale,
			Status:          model.StatusActive,
			CreatedAt:       now.Add(-7 * 24 * time.Hour),
			UpdatedAt:       now.Add(-2 * time.Hour),
		},
		{
			ID:              dealID(2),
			Name:            "Suite 400, 88 Market St",
			Description:     "Office lease, 3,200 sq ft.",
			Category:        model.CategoryRealEstate,
			TransactionType: model.TransactionLease,
			Status:          model.StatusDraft,
			CreatedAt:       now.Add(-2 * 24 * time.Hour),
			UpdatedAt:       now.Add(-2 * 24 * time.Hour),
		},
	}
}

// fixtureNotes returns the seed notes for deal-1, newest first.
func fixtureNotes(now time.Time) []*model.DealNote {
	note := func(id, author, name, content string, age time.Duration, pinned bool) *model.DealNote {
		at := now.Add(-age)
		return &model.DealNote{
			ID:            id,
			DealID:        dealID(1),
			Content:       content,
			CreatedBy:     author,
			CreatedByName: name,
			CreatedAt:     at,
			UpdatedAt:     at,
			IsPinned:      pinned,
		}
	}

	return []*model.DealNote{
		note("1", "user-1", "John Smith",
			"Initial property inspection completed. Foundation looks solid, minor roof repairs needed.",
			2*time.Hour, true),
		note("2", "user-2", "Sarah Johnson",
			"Buyer has requested additional documents regarding property title. Will send by EOD.",
			24*time.Hour, false),
		note("3", "user-3", "Michael Chen",
			"Financing approved! Closing date scheduled for next Friday at 2 PM.",
			3*24*time.Hour, true),
	}
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
