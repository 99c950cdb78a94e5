package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/cadence/internal/server"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/web"
	"github.com/urfave/cli/v3"
)

// newRouter wires the API and web dashboard behind recover and logging middleware.
func (r *Runner) newRouter() (*server.BasicRouter, error) {
	st, err := r.repos()
	if err != nil {
		return nil, err
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	router := server.NewBasicRouter()
	router.Use(server.Recover(logger), server.Logging(logger))

	server.NewAPI(server.APIOpts{
		Tracker:      st.tracker,
		Tracks:       st.tracks,
		Goals:        st.goals,
		MediaBaseURL: r.config.Catalog.MediaBaseURL,
	}).Register(router)
	router.Handler(web.NewDashboard(st.tracker, logger))
	return router, nil
}

// Serve runs the HTTP API and web dashboard until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	router, err := r.newRouter()
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	if cmd.Bool("open") {
		go func() {
			time.Sleep(100 * time.Millisecond)
			url := "http://" + addr + "/"
			r.writePlain("→ Opening dashboard at %s\n", url)
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warnf("failed to open browser automatically %v", err)
				r.writePlain("⚠ Could not open browser automatically. Visit %s\n", url)
			}
		}()
	}

	return server.Serve(ctx, srv, r.logger)
}
