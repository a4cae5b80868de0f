package httpjson

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	web "github.com/intentlane-hq/intentlane/http"
	"github.com/intentlane-hq/intentlane/models"
)

const maxBenchmarkIntents = 10_000

// createBenchmark runs the dispatch mechanisms (and optionally the baseline
// bridge) over a batch of simulated intents and returns the report.
func (h *handler) createBenchmark(c *gin.Context) {
	var req models.BenchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.ErrBadRequest(c, err)
		return
	}

	if req.Intents <= 0 || req.Intents > maxBenchmarkIntents {
		web.ErrBadRequest(c, errors.Errorf("intents must be in (0, %d]", maxBenchmarkIntents))
		return
	}

	report, err := h.deps.Benchmark.Run(c.Request.Context(), req)
	if err != nil {
		web.ErrInternalServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
