package httpjson

import (
	"net/http"

	"github.com/gin-gonic/gin"

	web "github.com/intentlane-hq/intentlane/http"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/intentlane-hq/intentlane/utils"
)

// listFulfillmentEvents returns recorded fulfillment events, optionally
// filtered by ?user=.
func (h *handler) listFulfillmentEvents(c *gin.Context) {
	user := c.Query("user")
	if user != "" {
		parsed, err := utils.ParseAddress(user)
		if err != nil {
			web.ErrBadRequest(c, err)
			return
		}
		user = parsed.Hex()
	}

	events, err := h.deps.Events.ListFulfillments(c.Request.Context(), user)
	if err != nil {
		web.ErrInternalServerError(c, err)
		return
	}

	if events == nil {
		events = []*models.FulfillmentEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// listStakeEvents returns recorded stake events, optionally filtered by
// ?solver=.
func (h *handler) listStakeEvents(c *gin.Context) {
	solver := c.Query("solver")
	if solver != "" {
		parsed, err := utils.ParseAddress(solver)
		if err != nil {
			web.ErrBadRequest(c, err)
			return
		}
		solver = parsed.Hex()
	}

	events, err := h.deps.Events.ListStakes(c.Request.Context(), solver)
	if err != nil {
		web.ErrInternalServerError(c, err)
		return
	}

	if events == nil {
		events = []*models.StakeEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
