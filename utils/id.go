package utils

import (
	"github.com/google/uuid"
)

// EventID mints an identifier for a fulfillment or stake event record.
func EventID() string {
	return uuid.NewString()
}

// RunID mints an identifier for a benchmark report. Prefixed so run ids are
// distinguishable from event ids in logs.
func RunID() string {
	return "run-" + uuid.NewString()
}
