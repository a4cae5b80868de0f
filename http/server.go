package http

import (
	"context"
	"net/http"
	"time"

	"github.com/intentlane-hq/intentlane/logging"
	"github.com/rs/zerolog"
)

// Long enough for an in-flight benchmark settlement batch to drain.
const shutdownTimeout = 15 * time.Second

// StartAsync starts the API server in the background and returns a callback
// for its shutdown. In-flight settlements are allowed to finish before the
// listener closes.
func StartAsync(srv *http.Server, logger zerolog.Logger) (shutdownFunc func(context.Context)) {
	logger = logger.With().
		Str(logging.FieldModule, "http").
		Str("http.addr", srv.Addr).
		Logger()

	go func() {
		logger.Info().Msg("Starting HTTP server")

		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Err(err).Msg("HTTP server error")
		}
	}()

	return func(ctx context.Context) {
		logger.Info().Msg("Shutting down HTTP server")

		ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Err(err).Msg("Failed to shutdown HTTP server")
			return
		}

		logger.Info().Msg("HTTP server shutdown complete")
	}
}
