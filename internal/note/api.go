package note

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/SergeyParamoshkin/dealnotes/internal/applog"
	"github.com/SergeyParamoshkin/dealnotes/internal/errresponse"
	"github.com/SergeyParamoshkin/dealnotes/internal/model"
	"github.com/SergeyParamoshkin/dealnotes/internal/store"
	"github.com/SergeyParamoshkin/dealnotes/internal/telemetry"
	"github.com/SergeyParamoshkin/dealnotes/internal/user"
)

// URLParam is the chi route parameter holding the deal id.
const URLParam = "dealID"

type API struct {
	store   store.NoteStore
	metrics *telemetry.Metrics
	now     store.Clock
	newID   func() string
}

func NewAPI(s store.NoteStore, m *telemetry.Metrics, now store.Clock) *API {
	return &API{
		store:   s,
		metrics: m,
		now:     now,
		newID:   func() string { return "note-" + uuid.NewString() },
	}
}

// ListNotes returns every note of the deal in storage order. Sorting for
// display is left to the caller.
func (a *API) ListNotes(w http.ResponseWriter, r *http.Request) {
	logger := applog.From(r.Context())
	dealID := chi.URLParam(r, URLParam)

	notes, err := a.store.ListNotes(r.Context(), dealID)
	if err != nil {
		logger.Errorw("list notes", "deal_id", dealID, "error", err)
		if err := render.Render(w, r, errresponse.ErrInternal(err, "Failed to fetch deal notes")); err != nil {
			logger.Errorw(err.Error())
		}

		return
	}

	if err := render.Render(w, r, NewNoteListResponse(notes)); err != nil {
		if err := render.Render(w, r, errresponse.ErrRender(err)); err != nil {
			logger.Errorw(err.Error())
		}
	}
}

// CreateNote persists the posted note on the deal and returns it back to
// the client as an acknowledgement.
func (a *API) CreateNote(w http.ResponseWriter, r *http.Request) {
	logger := applog.From(r.Context())
	dealID := chi.URLParam(r, URLParam)

	data := &NoteRequest{}
	if err := render.Bind(r, data); err != nil {
		if err := render.Render(w, r, errresponse.ErrInvalidRequest(err)); err != nil {
			logger.Errorw(err.Error())
		}

		return
	}

	author := user.FromContext(r.Context())
	now := a.now()
	n := &model.DealNote{
		ID:            a.newID(),
		DealID:        dealID,
		Content:       data.Content,
		CreatedBy:     author.ID,
		CreatedByName: author.Name,
		CreatedAt:     now,
		UpdatedAt:     now,
		IsPinned:      data.Pinned(),
	}
	if err := a.store.CreateNote(r.Context(), n); err != nil {
		logger.Errorw("create note", "deal_id", dealID, "error", err)
		if err := render.Render(w, r, errresponse.ErrInternal(err, "Failed to create note")); err != nil {
			logger.Errorw(err.Error())
		}

		return
	}
	a.metrics.NoteCreated(r, n.IsPinned)
	logger.Infow("note created", "deal_id", dealID, "note_id", n.ID, "pinned", n.IsPinned)

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, &NoteResponse{Note: n}); err != nil {
		logger.Errorw(err.Error())
	}
}
