package httpjson

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	web "github.com/intentlane-hq/intentlane/http"
	"github.com/intentlane-hq/intentlane/logging"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/intentlane-hq/intentlane/protocol"
)

type handler struct {
	*gin.Engine

	deps   Dependencies
	logger zerolog.Logger
}

type Config struct {
	Dependencies

	Addr           string
	AllowedOrigins string
	LogRequests    bool

	Logger zerolog.Logger
}

type Dependencies struct {
	Engine    *protocol.SettlementEngine
	Bonds     *protocol.BondLedger
	Assets    protocol.AssetLedger
	Events    EventStore
	Benchmark BenchmarkRunner
	Metrics   MetricsHandler
}

// EventStore lists recorded protocol events.
type EventStore interface {
	ListFulfillments(ctx context.Context, user string) ([]*models.FulfillmentEvent, error)
	ListStakes(ctx context.Context, solver string) ([]*models.StakeEvent, error)
}

// BenchmarkRunner executes benchmark runs.
type BenchmarkRunner interface {
	Run(ctx context.Context, req models.BenchmarkRequest) (*models.BenchmarkReport, error)
}

// MetricsHandler exposes the Prometheus registry.
type MetricsHandler interface {
	Handler() http.Handler
}

const (
	requestTimeout = 10 * time.Second
	rwTimeout      = 15 * time.Second

	// benchmark runs outlive the ordinary request budget
	benchmarkTimeout = 5 * time.Minute

	benchmarkRoute = "/api/v1/benchmarks"
)

func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:    cfg.Addr,
		Handler: newHandler(cfg, gin.New()),

		// Time to read the request headers/body
		ReadTimeout: rwTimeout,

		// Time to write the response
		WriteTimeout: rwTimeout,

		// Time to keep connections alive
		IdleTimeout: 60 * time.Second,

		// Max header bytes (1MB)
		MaxHeaderBytes: 1024 * 1024,
	}
}

func newHandler(cfg Config, router *gin.Engine) *handler {
	h := &handler{
		Engine: router,
		deps:   cfg.Dependencies,
		logger: cfg.Logger.With().Str(logging.FieldModule, "api").Logger(),
	}

	logLevel := zerolog.DebugLevel
	if cfg.LogRequests {
		logLevel = zerolog.InfoLevel
	}

	h.Use(
		gin.Recovery(),
		web.Zerolog(cfg.Logger, logLevel, benchmarkRoute),
		web.CORS(cfg.AllowedOrigins),
	)

	h.setupAPIRoutes()
	h.setupObservabilityRoutes()

	return h
}

func (h *handler) setupAPIRoutes() {
	v1 := h.Group("/api/v1")
	v1.Use(web.Timeout(requestTimeout, h.logger))

	v1.POST("/fulfillments", h.createFulfillment)
	v1.POST("/cancellations", h.createCancellation)
	v1.GET("/nonces/:user", h.getNonce)

	v1.POST("/stakes", h.createStake)
	v1.POST("/stakes/withdrawals", h.createWithdrawal)
	v1.GET("/stakes/:solver", h.getStake)

	v1.GET("/balances/:owner", h.getBalance)

	v1.GET("/events/fulfillments", h.listFulfillmentEvents)
	v1.GET("/events/stakes", h.listStakeEvents)

	// long-running; gets its own timeout budget
	bench := h.Group("/api/v1")
	bench.Use(web.Timeout(benchmarkTimeout, h.logger))
	bench.POST("/benchmarks", h.createBenchmark)
}

func (h *handler) setupObservabilityRoutes() {
	h.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if h.deps.Metrics != nil {
		h.GET("/metrics", gin.WrapH(h.deps.Metrics.Handler()))
	}
}
