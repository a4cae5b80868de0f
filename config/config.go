package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port           string
	AllowedOrigins string

	// Database configuration
	DatabaseURL string

	// Digest domain configuration. Signer tooling must use identical values.
	DomainName        string
	DomainVersion     string
	NetworkID         uint64
	SettlementAddress common.Address

	// Bonding configuration
	MinimumBond *big.Int

	// Dispatch configuration
	DispatchTimeUnit time.Duration

	// Benchmark defaults
	BenchmarkIntents int
	BenchmarkSolvers int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	networkID, err := getEnvUint("NETWORK_ID", 1)
	if err != nil {
		return nil, err
	}

	minimumBond, ok := new(big.Int).SetString(getEnvOrDefault("MINIMUM_BOND", "1"), 10)
	if !ok || minimumBond.Sign() <= 0 {
		return nil, fmt.Errorf("invalid MINIMUM_BOND")
	}

	timeUnitMs, err := getEnvUint("DISPATCH_TIME_UNIT_MS", 10)
	if err != nil {
		return nil, err
	}

	benchIntents, err := getEnvUint("BENCHMARK_INTENTS", 100)
	if err != nil {
		return nil, err
	}

	benchSolvers, err := getEnvUint("BENCHMARK_SOLVERS", 5)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		AllowedOrigins:    os.Getenv("ALLOWED_ORIGINS"),
		DatabaseURL:       getEnvOrDefault("DATABASE_URL", "postgresql://localhost:5432/intentlane?sslmode=disable"),
		DomainName:        getEnvOrDefault("DOMAIN_NAME", "intentlane"),
		DomainVersion:     getEnvOrDefault("DOMAIN_VERSION", "1"),
		NetworkID:         networkID,
		SettlementAddress: common.HexToAddress(getEnvOrDefault("SETTLEMENT_ADDRESS", "0x0000000000000000000000000000000000001001")),
		MinimumBond:       minimumBond,
		DispatchTimeUnit:  time.Duration(timeUnitMs) * time.Millisecond,
		BenchmarkIntents:  int(benchIntents),
		BenchmarkSolvers:  int(benchSolvers),
	}

	return config, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return parsed, nil
}
