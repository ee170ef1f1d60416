package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
	"github.com/SergeyParamoshkin/dealnotes/internal/user"
)

var ErrDealIDRequired = errors.New("deal id is required")

// Notes reads deal notes through the query cache and creates them with an
// optimistic cache update.
type Notes struct {
	api   *Client
	cache *QueryCache
	now   func() time.Time
}

func NewNotes(api *Client, cache *QueryCache) *Notes {
	return &Notes{api: api, cache: cache, now: time.Now}
}

// List returns the notes of dealID, from cache while fresh.
func (n *Notes) List(ctx context.Context, dealID string) (*model.ListDealNotesResult, error) {
	if dealID == "" {
		return nil, ErrDealIDRequired
	}

	res, err := Fetch(ctx, n.cache, DealKeys.Notes(dealID), func(ctx context.Context) (*model.ListDealNotesResult, error) {
		return n.api.ListDealNotes(ctx, dealID)
	})
	if err != nil {
		return nil, err
	}

	return res.Clone(), nil
}

// Cached returns the notes currently cached for dealID, including any
// optimistic entries.
func (n *Notes) Cached(dealID string) (*model.ListDealNotesResult, bool) {
	res, ok := GetData[*model.ListDealNotesResult](n.cache, DealKeys.Notes(dealID))
	if !ok {
		return nil, false
	}

	return res.Clone(), true
}

// Create posts a note. While the request is in flight the cached list, if
// there is one, already shows the note under a temporary id. A failed
// request restores the list as it was. Either way the list is invalidated
// afterwards so the next List refetches it.
func (n *Notes) Create(ctx context.Context, dealID string, in *model.CreateDealNoteInput) (*model.DealNote, error) {
	if dealID == "" {
		return nil, ErrDealIDRequired
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	key := DealKeys.Notes(dealID)
	// in-flight fetches would overwrite the optimistic list
	n.cache.Cancel(key)
	defer n.cache.Invalidate(key)

	previous, hadPrevious := GetData[*model.ListDealNotesResult](n.cache, key)
	if hadPrevious {
		n.cache.Set(key, withOptimisticNote(previous, n.optimisticNote(dealID, in)))
	}

	note, err := n.api.CreateDealNote(ctx, dealID, in)
	if err != nil {
		if hadPrevious {
			n.cache.Set(key, previous)
		}

		return nil, err
	}

	return note, nil
}

func (n *Notes) optimisticNote(dealID string, in *model.CreateDealNoteInput) *model.DealNote {
	author, err := user.Get(n.api.UserID)
	if err != nil {
		author = user.Current()
	}
	now := n.now()

	return &model.DealNote{
		ID:            "temp-" + uuid.NewString(),
		DealID:        dealID,
		Content:       in.Content,
		CreatedBy:     author.ID,
		CreatedByName: author.Name,
		CreatedAt:     now,
		UpdatedAt:     now,
		IsPinned:      in.Pinned(),
	}
}

func withOptimisticNote(prev *model.ListDealNotesResult, note *model.DealNote) *model.ListDealNotesResult {
	notes := make([]*model.DealNote, 0, len(prev.Notes)+1)
	notes = append(notes, note)
	notes = append(notes, prev.Notes...)

	return &model.ListDealNotesResult{Notes: notes, TotalCount: prev.TotalCount + 1}
}
