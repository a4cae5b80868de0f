package logging

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// Shared field names so settlement, dispatch and benchmark logs stay
// queryable across modules.
const (
	FieldModule    = "module"
	FieldMechanism = "mechanism"
	FieldSolver    = "solver"
	FieldUser      = "user"
)

func New(writer io.Writer, level zerolog.Level, jsonOutput bool) zerolog.Logger {
	if !jsonOutput {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Caller().Logger()
}

// NewTesting routes log output through the test runner so it only surfaces
// on failure.
func NewTesting(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}
