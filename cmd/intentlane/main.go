package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/intentlane-hq/intentlane/cmd/intentlane/httpjson"
	"github.com/intentlane-hq/intentlane/config"
	"github.com/intentlane-hq/intentlane/db"
	"github.com/intentlane-hq/intentlane/dispatch"
	"github.com/intentlane-hq/intentlane/http"
	"github.com/intentlane-hq/intentlane/logging"
	"github.com/intentlane-hq/intentlane/protocol"
	"github.com/intentlane-hq/intentlane/services"
)

const benchmarkUsers = 16

// benchmarkAsset is the in-memory asset the harness settles against.
var benchmarkAsset = common.HexToAddress("0x00000000000000000000000000000000000a55e7")

// bridgeEscrow holds baseline-bridge custody.
var bridgeEscrow = common.HexToAddress("0x000000000000000000000000000000000e5c0c0c")

func main() {
	flags := parseFlags()
	log := logging.New(os.Stdout, flags.LogLevel, flags.LogJSON)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()

	// Initialize database
	log.Info().Msg("Initializing database connection")
	database, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Msg("Database connection established successfully")

	metrics := services.NewMetricsService()
	recorder := services.NewEventRecorderService(database, metrics, log)

	// Protocol core
	codec := protocol.NewDigestCodec(protocol.Domain{
		Name:              cfg.DomainName,
		Version:           cfg.DomainVersion,
		NetworkID:         cfg.NetworkID,
		SettlementAddress: cfg.SettlementAddress,
	})
	nonces := protocol.NewNonceLedger()
	bonds := protocol.NewBondLedger(cfg.MinimumBond, recorder)
	tokens := protocol.NewTokenLedger()
	engine := protocol.NewSettlementEngine(codec, nonces, bonds, tokens, recorder, log)
	bridge := protocol.NewBaselineBridge(bridgeEscrow, tokens, log)

	benchmark, err := createBenchmark(ctx, cfg, engine, bridge, bonds, tokens, metrics, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create benchmark harness")
	}

	// Create and start the server
	server := httpjson.New(httpjson.Config{
		Addr:           fmt.Sprintf(":%s", cfg.Port),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
		LogRequests:    true,
		Dependencies: httpjson.Dependencies{
			Engine:    engine,
			Bonds:     bonds,
			Assets:    tokens,
			Events:    recorder,
			Benchmark: benchmark,
			Metrics:   metrics,
		},
	})

	serverShutdown := http.StartAsync(server, log)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	log.Info().Msg("Shutdown signal received, cleaning up services...")

	serverShutdown(ctx)

	log.Info().Msg("All services shut down successfully")
}

// createBenchmark builds the simulated actors and dispatch mechanisms.
func createBenchmark(
	ctx context.Context,
	cfg *config.Config,
	engine *protocol.SettlementEngine,
	bridge *protocol.BaselineBridge,
	bonds *protocol.BondLedger,
	tokens *protocol.TokenLedger,
	metrics *services.MetricsService,
	log zerolog.Logger,
) (*services.BenchmarkService, error) {
	users, err := services.CreateSigners(benchmarkUsers)
	if err != nil {
		return nil, err
	}

	solvers, err := services.CreateSigners(cfg.BenchmarkSolvers)
	if err != nil {
		return nil, err
	}

	amount := big.NewInt(100)

	// Enough balance and allowance for every configured benchmark run.
	balance := new(big.Int).Mul(amount, big.NewInt(int64(cfg.BenchmarkIntents)*1000))
	services.FundUsers(tokens, benchmarkAsset, users, solvers, bridgeEscrow, balance)

	if err := services.BondSolvers(ctx, bonds, solvers, bonds.MinimumBond()); err != nil {
		return nil, err
	}

	addresses := make([]common.Address, len(solvers))
	for i, solver := range solvers {
		addresses[i] = solver.Address()
	}
	pool := dispatch.NewPool(addresses, bonds.Eligible)

	unit := cfg.DispatchTimeUnit
	mechanisms := []dispatch.Mechanism{
		dispatch.NewAuction(pool, descendingSchedule(unit), dispatch.FixedStepRule(3), log),
		dispatch.NewRandomizedEgalitarian(pool, big.NewInt(2), unit, 2, time.Now().UnixNano(), log),
		dispatch.NewOpenClaimBestFit(pool, big.NewInt(2), 2*unit, unit, log),
	}

	return services.NewBenchmarkService(
		engine,
		bridge,
		benchmarkAsset,
		amount,
		users,
		solvers,
		mechanisms,
		metrics,
		log,
	), nil
}

// descendingSchedule is the auction fee ladder: one offer per time unit,
// starting high and stepping down.
func descendingSchedule(unit time.Duration) []dispatch.FeeStep {
	fees := []int64{10, 8, 6, 4, 3, 2, 1}

	schedule := make([]dispatch.FeeStep, len(fees))
	for i, fee := range fees {
		schedule[i] = dispatch.FeeStep{Wait: unit, Fee: big.NewInt(fee)}
	}
	return schedule
}

type flagSet struct {
	LogJSON  bool
	LogLevel zerolog.Level
}

func parseFlags() flagSet {
	var (
		logJSON        bool
		logLevel       string
		logLevelParsed zerolog.Level
	)

	flag.BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")
	flag.StringVar(&logLevel, "log-level", "info", "Set log level (debug, info, warn, error)")

	flag.Parse()

	switch logLevel {
	case "debug":
		logLevelParsed = zerolog.DebugLevel
	case "warn":
		logLevelParsed = zerolog.WarnLevel
	case "error":
		logLevelParsed = zerolog.ErrorLevel
	default:
		logLevelParsed = zerolog.InfoLevel
	}

	return flagSet{
		LogJSON:  logJSON,
		LogLevel: logLevelParsed,
	}
}
