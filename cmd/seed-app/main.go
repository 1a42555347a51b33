package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"seed-app/internal/app"
	"seed-app/internal/httputil"
)

type queryForm struct {
	Prompt string `form:"prompt" validate:"required"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			deps.Log.Warn("failed to close dependencies", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("seed-app listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.GracePeriod())
		defer cancel()
		deps.Log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		deps.Log.Error("server error", "err", err)
	}
}

func newRouter(deps app.Deps) *chi.Mux {
	// Leave room past the upstream budget so the router never cuts off a
	// submission that is still within its inference timeout.
	r := httputil.NewRouter(deps.Log, deps.Config.Timeout()+30*time.Second)

	r.Get("/", indexHandler(deps))
	r.Post("/query/", queryHandler(deps))
	r.Post("/query", queryHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func indexHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := deps.Renderer.Render(deps.State.Get())
		if err := httputil.WriteHTML(w, http.StatusOK, doc); err != nil {
			deps.Log.Warn("index write failed", "err", err)
		}
	}
}

func queryHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			httputil.Fail(deps.Log, w, r, "invalid form", err, http.StatusBadRequest)
			return
		}
		form := queryForm{Prompt: r.PostFormValue("prompt")}
		if err := httputil.Validator.Struct(&form); err != nil {
			httputil.ValidationError(deps.Log, w, r, err)
			return
		}

		// The submission runs to completion even if the browser goes away; the
		// inference timeout bounds it.
		redirect := deps.Orchestrator.Handle(context.WithoutCancel(r.Context()), form.Prompt)
		http.Redirect(w, r, redirect.Location, redirect.Status)
	}
}
