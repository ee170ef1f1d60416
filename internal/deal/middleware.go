package deal

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
)

// URLParam is the chi route parameter holding the deal id.
const URLParam = "dealID"

type ctxKey int8

const dealCtxKey ctxKey = 0

// DealCtx middleware is used to load a Deal object from the URL parameters
// passed through as the request. In case the Deal could not be found, we
// stop here and return a 404.
func (a *API) DealCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, err := a.store.GetDeal(r.Context(), chi.URLParam(r, URLParam))
		if err != nil {
			a.renderStoreError(w, r, err, "Failed to load deal")

			return
		}

		ctx := context.WithValue(r.Context(), dealCtxKey, d)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the deal loaded by DealCtx. Handlers mounted under
// DealCtx can rely on it being present.
func FromContext(ctx context.Context) *model.Deal {
	d, _ := ctx.Value(dealCtxKey).(*model.Deal)

	return d
}
