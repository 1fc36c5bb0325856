// Command server runs the AutoNation API.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autonation/internal/config"
	"autonation/internal/middleware"
	"autonation/internal/server"
)

// @title AutoNation API
// @version 1.0
// @description Instagram auto-reply automations: keywords, listeners, triggers and the posts and DMs they act on.

// @contact.name API Support
// @contact.email support@autonation.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider's session token.

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		middleware.Logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, cfg)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		return errors.Join(err, shutdown(srv))
	case <-ctx.Done():
	}

	middleware.Logger.Info("shutting down", "grace", shutdownGrace)
	if err := shutdown(srv); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// shutdown stops the listener and releases the runtime opened by NewServer.
func shutdown(srv *server.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(ctx)
}
