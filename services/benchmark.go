package services

import (
	"context"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/intentlane-hq/intentlane/dispatch"
	"github.com/intentlane-hq/intentlane/logging"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/intentlane-hq/intentlane/protocol"
	"github.com/intentlane-hq/intentlane/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// benchmarkActor is one simulated user. Its settlements are serialized so
// concurrent runs never race on the user's nonce.
type benchmarkActor struct {
	signer *protocol.Signer
	mu     sync.Mutex
}

// BenchmarkService drives intents through each dispatch mechanism into the
// settlement engine, and through the baseline bridge, and reports latency,
// cost and fairness per mechanism.
type BenchmarkService struct {
	engine      *protocol.SettlementEngine
	bridge      *protocol.BaselineBridge
	asset       common.Address
	amount      *big.Int
	users       []*benchmarkActor
	solvers     map[common.Address]*protocol.Signer
	mechanisms  []dispatch.Mechanism
	metrics     *MetricsService
	concurrency int
	logger      zerolog.Logger
}

// NewBenchmarkService wires the benchmark harness. Users must already hold
// asset balances and allowances toward every solver and the bridge escrow;
// solvers must already be bonded.
func NewBenchmarkService(
	engine *protocol.SettlementEngine,
	bridge *protocol.BaselineBridge,
	asset common.Address,
	amount *big.Int,
	users []*protocol.Signer,
	solvers []*protocol.Signer,
	mechanisms []dispatch.Mechanism,
	metrics *MetricsService,
	logger zerolog.Logger,
) *BenchmarkService {
	actors := make([]*benchmarkActor, len(users))
	for i, user := range users {
		actors[i] = &benchmarkActor{signer: user}
	}

	bySolver := make(map[common.Address]*protocol.Signer, len(solvers))
	for _, solver := range solvers {
		bySolver[solver.Address()] = solver
	}

	return &BenchmarkService{
		engine:      engine,
		bridge:      bridge,
		asset:       asset,
		amount:      new(big.Int).Set(amount),
		users:       actors,
		solvers:     bySolver,
		mechanisms:  mechanisms,
		metrics:     metrics,
		concurrency: defaultConcurrency,
		logger:      logger.With().Str(logging.FieldModule, "benchmark").Logger(),
	}
}

// Run executes a benchmark according to the request and returns the report.
func (s *BenchmarkService) Run(ctx context.Context, req models.BenchmarkRequest) (*models.BenchmarkReport, error) {
	if req.Intents <= 0 {
		return nil, errors.New("intents must be positive")
	}

	mechanisms, err := s.selectMechanisms(req.Mechanisms)
	if err != nil {
		return nil, err
	}

	report := &models.BenchmarkReport{
		ID:        utils.RunID(),
		StartedAt: time.Now(),
	}

	for _, mech := range mechanisms {
		s.logger.Info().
			Str(logging.FieldMechanism, string(mech.Name())).
			Int("intents", req.Intents).
			Msg("Starting mechanism benchmark")

		stats, err := s.runMechanism(ctx, mech, req.Intents)
		if err != nil {
			return nil, err
		}
		report.Mechanisms = append(report.Mechanisms, *stats)
	}

	if req.Baseline {
		baseline, err := s.runBaseline(ctx, req.Intents)
		if err != nil {
			return nil, err
		}
		report.Baseline = baseline
	}

	report.FinishedAt = time.Now()
	return report, nil
}

func (s *BenchmarkService) selectMechanisms(names []string) ([]dispatch.Mechanism, error) {
	if len(names) == 0 {
		return s.mechanisms, nil
	}

	byName := make(map[models.Mechanism]dispatch.Mechanism, len(s.mechanisms))
	for _, mech := range s.mechanisms {
		byName[mech.Name()] = mech
	}

	out := make([]dispatch.Mechanism, 0, len(names))
	for _, name := range names {
		mech, ok := byName[models.Mechanism(name)]
		if !ok {
			return nil, errors.Errorf("unknown mechanism %q", name)
		}
		out = append(out, mech)
	}
	return out, nil
}

type mechanismRun struct {
	mu         sync.Mutex
	latencies  []time.Duration
	selections map[string]int
	totalFees  *big.Int
	failures   int
	timeouts   int
}

func (s *BenchmarkService) runMechanism(ctx context.Context, mech dispatch.Mechanism, n int) (*models.MechanismStats, error) {
	run := &mechanismRun{
		selections: make(map[string]int),
		totalFees:  new(big.Int),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)

	for i := 0; i < n; i++ {
		actor := s.users[i%len(s.users)]
		group.Go(func() error {
			return s.settleOne(groupCtx, mech, actor, run)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	stats := &models.MechanismStats{
		Mechanism:       mech.Name(),
		Runs:            n,
		Settled:         len(run.latencies),
		Failures:        run.failures,
		Timeouts:        run.timeouts,
		TotalFees:       run.totalFees.String(),
		Fairness:        jainIndex(run.selections, len(s.solvers)),
		SelectionCounts: run.selections,
	}
	stats.MeanLatency, stats.P50Latency, stats.P95Latency = latencyStats(run.latencies)

	return stats, nil
}

// settleOne drives a single intent end to end: dispatch selection, user and
// solver signatures, settlement. Expected protocol failures count against the
// mechanism; only infrastructure errors abort the run.
func (s *BenchmarkService) settleOne(ctx context.Context, mech dispatch.Mechanism, actor *benchmarkActor, run *mechanismRun) error {
	actor.mu.Lock()
	defer actor.mu.Unlock()

	user := actor.signer.Address()
	deadline := uint64(time.Now().Add(time.Hour).Unix())

	intent := &models.Intent{
		User:     user,
		Asset:    s.asset,
		Amount:   new(big.Int).Set(s.amount),
		Nonce:    s.engine.Nonces().Current(user),
		Deadline: deadline,
	}

	selection, err := mech.Select(ctx, intent)
	if err != nil {
		if errors.Is(err, dispatch.ErrNoSolverSelected) {
			run.mu.Lock()
			run.timeouts++
			run.mu.Unlock()
			return nil
		}
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordSelection(mech.Name(), selection)
	}

	solver, ok := s.solvers[selection.Solver]
	if !ok {
		return errors.Errorf("selected unknown solver %s", selection.Solver.Hex())
	}

	intent.Fee = selection.Fee

	codec := s.engine.Codec()
	intentDigest := codec.IntentDigest(intent)

	userSig, err := actor.signer.Sign(intentDigest)
	if err != nil {
		return err
	}
	solverSig, err := solver.Sign(codec.CommitmentDigest(intentDigest))
	if err != nil {
		return err
	}

	settleStart := time.Now()
	_, err = s.engine.Fulfill(ctx, protocol.FulfillParams{
		User:            user,
		Asset:           s.asset,
		Amount:          intent.Amount,
		Fee:             intent.Fee,
		Deadline:        deadline,
		UserSignature:   userSig,
		SolverSignature: solverSig,
		Caller:          selection.Solver,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSettlementFailure(mech.Name(), failureReason(err))
		}
		run.mu.Lock()
		run.failures++
		run.mu.Unlock()
		return nil
	}

	if s.metrics != nil {
		s.metrics.RecordSettlement(mech.Name())
	}

	run.mu.Lock()
	run.latencies = append(run.latencies, selection.Latency+time.Since(settleStart))
	run.selections[selection.Solver.Hex()]++
	run.totalFees.Add(run.totalFees, selection.Fee)
	run.mu.Unlock()

	return nil
}

func (s *BenchmarkService) runBaseline(ctx context.Context, n int) (*models.BaselineStats, error) {
	latencies := make([]time.Duration, 0, n)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		actor := s.users[i%len(s.users)]
		actor.mu.Lock()

		user := actor.signer.Address()
		start := time.Now()

		if err := s.bridge.Lock(user, s.asset, s.amount); err != nil {
			actor.mu.Unlock()
			return nil, err
		}
		if err := s.bridge.Unlock(user, s.asset, s.amount); err != nil {
			actor.mu.Unlock()
			return nil, err
		}

		elapsed := time.Since(start)
		actor.mu.Unlock()

		latencies = append(latencies, elapsed)
		if s.metrics != nil {
			s.metrics.RecordBaselineRoundTrip(elapsed.Seconds())
		}
	}

	stats := &models.BaselineStats{Runs: n}
	stats.MeanLatency, stats.P50Latency, stats.P95Latency = latencyStats(latencies)
	return stats, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, protocol.ErrInvalidIntent):
		return "invalid_intent"
	case errors.Is(err, protocol.ErrIntentExpired):
		return "intent_expired"
	case errors.Is(err, protocol.ErrSolverNotBonded):
		return "solver_not_bonded"
	case errors.Is(err, protocol.ErrInvalidUserSignature):
		return "invalid_user_signature"
	case errors.Is(err, protocol.ErrInvalidSolverSignature):
		return "invalid_solver_signature"
	case errors.Is(err, protocol.ErrNonceMismatch):
		return "nonce_mismatch"
	case errors.Is(err, protocol.ErrInsufficientAllowance):
		return "insufficient_allowance"
	case errors.Is(err, protocol.ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "other"
	}
}

func latencyStats(latencies []time.Duration) (mean, p50, p95 time.Duration) {
	if len(latencies) == 0 {
		return 0, 0, 0
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, l := range sorted {
		total += l
	}

	return total / time.Duration(len(sorted)), percentile(sorted, 50), percentile(sorted, 95)
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p int) time.Duration {
	idx := (len(sorted)*p + 99) / 100
	if idx > 0 {
		idx--
	}
	return sorted[idx]
}

// jainIndex computes Jain's fairness index over solver selection counts.
// Solvers never selected still count toward the pool size; 1.0 means
// perfectly even assignment.
func jainIndex(selections map[string]int, poolSize int) float64 {
	if poolSize == 0 {
		return 0
	}

	var sum, sumSquares float64
	for _, count := range selections {
		sum += float64(count)
		sumSquares += float64(count) * float64(count)
	}
	if sumSquares == 0 {
		return 0
	}

	return (sum * sum) / (float64(poolSize) * sumSquares)
}
