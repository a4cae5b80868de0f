package models

// FulfillRequest is the request body for settling an intent. Amounts are
// decimal strings, signatures are 0x-prefixed 65-byte hex.
type FulfillRequest struct {
	User            string `json:"user" binding:"required"`
	Asset           string `json:"asset" binding:"required"`
	Amount          string `json:"amount" binding:"required"`
	Fee             string `json:"fee"`
	Deadline        uint64 `json:"deadline" binding:"required"`
	UserSignature   string `json:"user_signature" binding:"required"`
	SolverSignature string `json:"solver_signature" binding:"required"`
	Solver          string `json:"solver" binding:"required"`
}

// CancelRequest invalidates the intent built on the user's current nonce.
type CancelRequest struct {
	User      string `json:"user" binding:"required"`
	Nonce     uint64 `json:"nonce"`
	Signature string `json:"signature" binding:"required"`
}

// StakeRequest is the request body for bond deposits and withdrawals.
type StakeRequest struct {
	Solver string `json:"solver" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// StakeResponse reports a solver's bond after a stake operation.
type StakeResponse struct {
	Solver   string `json:"solver"`
	Balance  string `json:"balance"`
	Eligible bool   `json:"eligible"`
}

// BenchmarkRequest configures a benchmark run over the dispatch mechanisms.
type BenchmarkRequest struct {
	Intents    int      `json:"intents"`
	Mechanisms []string `json:"mechanisms,omitempty"`
	Baseline   bool     `json:"baseline"`
}
