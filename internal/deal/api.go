package deal

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/dealnotes/internal/applog"
	"github.com/SergeyParamoshkin/dealnotes/internal/errresponse"
	"github.com/SergeyParamoshkin/dealnotes/internal/store"
)

type API struct {
	store store.DealStore
}

func NewAPI(s store.DealStore) *API {
	return &API{store: s}
}

func (a *API) ListDeals(w http.ResponseWriter, r *http.Request) {
	logger := applog.From(r.Context())

	deals, err := a.store.ListDeals(r.Context())
	if err != nil {
		logger.Errorw("list deals", "error", err)
		if err := render.Render(w, r, errresponse.ErrInternal(err, "Failed to fetch deals")); err != nil {
			logger.Errorw(err.Error())
		}

		return
	}

	if err := render.RenderList(w, r, NewListResponse(deals)); err != nil {
		if err := render.Render(w, r, errresponse.ErrRender(err)); err != nil {
			logger.Errorw(err.Error())
		}
	}
}

// CreateDeal persists the posted Deal and returns it back to the client as
// an acknowledgement.
func (a *API) CreateDeal(w http.ResponseWriter, r *http.Request) {
	logger := applog.From(r.Context())

	data := &CreateRequest{}
	if err := render.Bind(r, data); err != nil {
		if err := render.Render(w, r, errresponse.ErrInvalidRequest(err)); err != nil {
			logger.Errorw(err.Error())
		}

		return
	}

	d, err := a.store.CreateDeal(r.Context(), data.CreateDealInput)
	if err != nil {
		logger.Errorw("create deal", "error", err)
		if err := render.Render(w, r, errresponse.ErrInternal(err, "Failed to create deal")); err != nil {
			logger.Errorw(err.Error())
		}

		return
	}
	logger.Infow("deal created", "deal_id", d.ID)

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, NewResponse(d)); err != nil {
		logger.Errorw(err.Error())
	}
}

// GetDeal returns the Deal loaded by DealCtx.
func (a *API) GetDeal(w http.ResponseWriter, r *http.Request) {
	if err := render.Render(w, r, NewResponse(FromContext(r.Context()))); err != nil {
		if err := render.Render(w, r, errresponse.ErrRender(err)); err != nil {
			applog.From(r.Context()).Errorw(err.Error())
		}
	}
}

// UpdateDeal applies a partial update to the Deal loaded by DealCtx.
func (a *API) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	logger := applog.From(r.Context())
	d := FromContext(r.Context())

	data := &UpdateRequest{}
	if err := render.Bind(r, data); err != nil {
		if err := render.Render(w, r, errresponse.ErrInvalidRequest(err)); err != nil {
			logger.Errorw(err.Error())
		}

		return
	}

	updated, err := a.store.UpdateDeal(r.Context(), d.ID, data.UpdateDealInput)
	if err != nil {
		a.renderStoreError(w, r, err, "Failed to update deal")

		return
	}

	if err := render.Render(w, r, NewResponse(updated)); err != nil {
		logger.Errorw(err.Error())
	}
}

// DeleteDeal removes the Deal loaded by DealCtx and echoes it back.
func (a *API) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	d := FromContext(r.Context())

	if err := a.store.DeleteDeal(r.Context(), d.ID); err != nil {
		a.renderStoreError(w, r, err, "Failed to delete deal")

		return
	}
	applog.From(r.Context()).Infow("deal deleted", "deal_id", d.ID)

	if err := render.Render(w, r, NewResponse(d)); err != nil {
		applog.From(r.Context()).Errorw(err.Error())
	}
}

// renderStoreError maps a store failure to 404 when the deal vanished
// between DealCtx and the write, and to 500 otherwise.
func (a *API) renderStoreError(w http.ResponseWriter, r *http.Request, err error, text string) {
	logger := applog.From(r.Context())

	resp := render.Renderer(errresponse.ErrNotFound)
	if !errors.Is(err, store.ErrDealNotFound) {
		logger.Errorw(text, "error", err)
		resp = errresponse.ErrInternal(err, text)
	}
	if err := render.Render(w, r, resp); err != nil {
		logger.Errorw(err.Error())
	}
}
