package model

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const MaxNoteContentLength = 2000

// DealNote is a free-text note attached to a deal.
type DealNote struct {
	ID            string    `json:"id"`
	DealID        string    `json:"dealId"`
	Content       string    `json:"content"`
	CreatedBy     string    `json:"createdBy"`
	CreatedByName string    `json:"createdByName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	IsPinned      bool      `json:"isPinned"`
}

type ListDealNotesResult struct {
	Notes      []*DealNote `json:"notes"`
	TotalCount int         `json:"totalCount"`
}

// Clone returns a copy that shares no notes with r.
func (r *ListDealNotesResult) Clone() *ListDealNotesResult {
	if r == nil {
		return nil
	}
	notes := make([]*DealNote, 0, len(r.Notes))
	for _, n := range r.Notes {
		c := *n
		notes = append(notes, &c)
	}

	return &ListDealNotesResult{Notes: notes, TotalCount: r.TotalCount}
}

type CreateDealNoteInput struct {
	Content  string `json:"content" validate:"required,min=1,max=2000"`
	IsPinned *bool  `json:"isPinned,omitempty"`
}

// Validate checks the content length bounds. Whitespace-only content is
// rejected as empty.
func (in *CreateDealNoteInput) Validate() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if strings.TrimSpace(in.Content) == "" {
		return errors.Wrap(ErrInvalidInput, "Content is blank")
	}

	return nil
}

// Pinned reports the requested pin state; an omitted flag means unpinned.
func (in *CreateDealNoteInput) Pinned() bool {
	return in.IsPinned != nil && *in.IsPinned
}

// SortForDisplay returns the notes ordered pinned first, then newest first.
// Notes with equal keys keep their relative order. The input is not modified.
func SortForDisplay(notes []*DealNote) []*DealNote {
	sorted := make([]*DealNote, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}

		return a.CreatedAt.After(b.CreatedAt)
	})

	return sorted
}
