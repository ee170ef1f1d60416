package server

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/dealnotes/internal/applog"
	"github.com/SergeyParamoshkin/dealnotes/internal/deal"
	"github.com/SergeyParamoshkin/dealnotes/internal/note"
	"github.com/SergeyParamoshkin/dealnotes/internal/store"
	"github.com/SergeyParamoshkin/dealnotes/internal/telemetry"
	"github.com/SergeyParamoshkin/dealnotes/internal/user"
)

// Latency is the artificial delay added to each API group so the UI can
// show its loading states.
type Latency struct {
	ListNotes  time.Duration
	CreateNote time.Duration
	Deals      time.Duration
}

type Options struct {
	Logger  *zap.SugaredLogger
	Store   store.Store
	Metrics *telemetry.Metrics
	Now     store.Clock
	Latency Latency

	// RequestLog enables chi's access log on stdout.
	RequestLog bool
}

func NewRouter(o Options) chi.Router {
	deals := deal.NewAPI(o.Store)
	notes := note.NewAPI(o.Store, o.Metrics, o.Now)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(applog.Middleware(o.Logger))
	if o.RequestLog {
		r.Use(middleware.Logger)
	}
	r.Use(o.Metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("pong")); err != nil {
			applog.From(r.Context()).Errorw(err.Error())
		}
	})

	r.Route("/api/deals", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(user.Ctx)

		r.With(simulateLatency(o.Latency.Deals)).Get("/", deals.ListDeals)   // GET /api/deals
		r.With(simulateLatency(o.Latency.Deals)).Post("/", deals.CreateDeal) // POST /api/deals

		r.Route("/{"+deal.URLParam+"}", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(simulateLatency(o.Latency.Deals))
				r.Use(deals.DealCtx)            // Load the *Deal on the request context
				r.Get("/", deals.GetDeal)       // GET /api/deals/deal-1
				r.Put("/", deals.UpdateDeal)    // PUT /api/deals/deal-1
				r.Delete("/", deals.DeleteDeal) // DELETE /api/deals/deal-1
			})

			r.With(simulateLatency(o.Latency.ListNotes)).Get("/notes", notes.ListNotes)    // GET /api/deals/deal-1/notes
			r.With(simulateLatency(o.Latency.CreateNote)).Post("/notes", notes.CreateNote) // POST /api/deals/deal-1/notes
		})
	})

	FileServer(r, "/", UI())

	return r
}

// RoutesDoc renders Markdown docs for the router.
func RoutesDoc(r chi.Router) string {
	return docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
		ProjectPath: "github.com/SergeyParamoshkin/dealnotes",
		Intro:       "Routes of the deal notes service.",
	})
}

// simulateLatency holds the request for d before passing it on. A request
// cancelled while waiting is dropped without a response.
func simulateLatency(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := store.Sleep(r.Context(), d); err != nil {
				applog.From(r.Context()).Debugw("request abandoned during simulated latency", "error", err)

				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

//go:embed web
var embeddedFiles embed.FS

// UI is the single-page notes UI.
func UI() http.FileSystem {
	fsys, err := fs.Sub(embeddedFiles, "web")
	if err != nil {
		panic(err)
	}

	return http.FS(fsys)
}
