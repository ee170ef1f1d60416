//
// Deal notes
// ==========
// A mock REST service for notes on real-estate deals, with an embedded
// single-page UI at http://localhost:3333/.
//
// Also pass the -routes flag to print the generated route docs:
// `go run . -routes`
//
// Boot the server:
// ----------------
// $ go run .
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/api/deals/deal-1/notes
// {"notes":[{"id":"1","dealId":"deal-1",...}],"totalCount":3}
//
// $ curl -X POST -d '{"content":"Appraisal booked","isPinned":true}' http://localhost:3333/api/deals/deal-1/notes
// {"note":{"id":"note-6f1c...","dealId":"deal-1","content":"Appraisal booked",...}}
//
// $ curl http://localhost:3333/api/deals/deal-2
// {"id":"deal-2","name":"Suite 400, 88 Market St",...}
//
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SergeyParamoshkin/dealnotes/internal/applog"
	"github.com/SergeyParamoshkin/dealnotes/internal/server"
	"github.com/SergeyParamoshkin/dealnotes/internal/store"
	"github.com/SergeyParamoshkin/dealnotes/internal/telemetry"
)

const ServiceName = "dealnotes"

const envPrefix = "DEALNOTES_"

type App struct {
	sugarLogger *zap.SugaredLogger
	config      Config
}

func main() {
	os.Exit(realMain(flag.CommandLine, os.Args[1:]))
}

// realMain returns the process exit code so that deferred cleanup runs
// before main exits.
func realMain(fs *flag.FlagSet, args []string) int {
	cfg, err := loadConfig(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	sugar, err := applog.New(cfg.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer sugar.Sync() // flushes buffer, if any

	a := App{
		sugarLogger: sugar,
		config:      cfg,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		a.sugarLogger.Errorw("exiting", "error", err)
		return 1
	}

	return 0
}

func (a *App) run(ctx context.Context) error {
	exporter, err := telemetry.NewPrometheusExporter()
	if err != nil {
		return err
	}

	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	r := server.NewRouter(server.Options{
		Logger:     a.sugarLogger,
		Store:      s,
		Metrics:    telemetry.NewGlobal(ServiceName),
		Now:        utcNow,
		Latency:    a.config.latency(),
		RequestLog: a.config.RequestLog,
	})

	// Passing -routes to the program will generate docs for the above
	// router definition.
	if a.config.Routes {
		fmt.Println(server.RoutesDoc(r))

		return nil
	}

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	g, gctx := errgroup.WithContext(ctx)
	a.serve(gctx, g, "api", a.config.Addr, r)
	a.serve(gctx, g, "diag", a.config.DiagAddr, diagRouter)

	return g.Wait()
}

// serve runs h on addr until ctx is done, then shuts the listener down.
func (a *App) serve(ctx context.Context, g *errgroup.Group, name, addr string, h http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		a.sugarLogger.Infow("listening", "server", name, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "%s server", name)
		}

		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
		defer cancel()

		return errors.Wrapf(srv.Shutdown(shutdownCtx), "%s shutdown", name)
	})
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	if a.config.Store == storeSQLite {
		a.sugarLogger.Infow("using sqlite store", "path", a.config.SQLitePath)

		return store.OpenSQLite(ctx, a.config.SQLitePath, utcNow)
	}
	a.sugarLogger.Infow("using memory store")

	return store.NewMemory(utcNow), nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
