package httpjson

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	web "github.com/intentlane-hq/intentlane/http"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/intentlane-hq/intentlane/protocol"
	"github.com/intentlane-hq/intentlane/utils"
)

// createFulfillment settles a signed intent/commitment pair in one shot.
func (h *handler) createFulfillment(c *gin.Context) {
	var req models.FulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.ErrBadRequest(c, err)
		return
	}

	params, err := parseFulfillRequest(req)
	if err != nil {
		web.ErrBadRequest(c, err)
		return
	}

	event, err := h.deps.Engine.Fulfill(c.Request.Context(), params)
	if err != nil {
		respondProtocolError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// createCancellation consumes the user's current nonce without a transfer.
func (h *handler) createCancellation(c *gin.Context) {
	var req models.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.ErrBadRequest(c, err)
		return
	}

	user, err := utils.ParseAddress(req.User)
	if err != nil {
		web.ErrBadRequest(c, err)
		return
	}

	signature, err := utils.ParseSignature(req.Signature)
	if err != nil {
		web.ErrBadRequest(c, err)
		return
	}

	if err := h.deps.Engine.CancelIntent(c.Request.Context(), user, req.Nonce, signature); err != nil {
		respondProtocolError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user.Hex(),
		"nonce": req.Nonce + 1,
	})
}

func (h *handler) getNonce(c *gin.Context) {
	user, err := utils.ParseAddress(c.Param("user"))
	if err != nil {
		web.ErrBadRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user.Hex(),
		"nonce": h.deps.Engine.Nonces().Current(user),
	})
}

func (h *handler) getBalance(c *gin.Context) {
	owner, err := utils.ParseAddress(c.Param("owner"))
	if err != nil {
		web.ErrBadRequest(c, err)
		return
	}

	asset, err := utils.ParseAddress(c.Query("asset"))
	if err != nil {
		web.ErrBadRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"owner":   owner.Hex(),
		"asset":   asset.Hex(),
		"balance": h.deps.Assets.BalanceOf(asset, owner).String(),
	})
}

func parseFulfillRequest(req models.FulfillRequest) (protocol.FulfillParams, error) {
	var params protocol.FulfillParams

	user, err := utils.ParseAddress(req.User)
	if err != nil {
		return params, errors.Wrap(err, "user")
	}
	asset, err := utils.ParseAddress(req.Asset)
	if err != nil {
		return params, errors.Wrap(err, "asset")
	}
	caller, err := utils.ParseAddress(req.Solver)
	if err != nil {
		return params, errors.Wrap(err, "solver")
	}

	amount, err := utils.ParseAmount(req.Amount)
	if err != nil {
		return params, errors.Wrap(err, "amount")
	}

	fee := "0"
	if req.Fee != "" {
		fee = req.Fee
	}
	feeValue, err := utils.ParseAmount(fee)
	if err != nil {
		return params, errors.Wrap(err, "fee")
	}

	userSig, err := utils.ParseSignature(req.UserSignature)
	if err != nil {
		return params, errors.Wrap(err, "user signature")
	}
	solverSig, err := utils.ParseSignature(req.SolverSignature)
	if err != nil {
		return params, errors.Wrap(err, "solver signature")
	}

	return protocol.FulfillParams{
		User:            user,
		Asset:           asset,
		Amount:          amount,
		Fee:             feeValue,
		Deadline:        req.Deadline,
		UserSignature:   userSig,
		SolverSignature: solverSig,
		Caller:          caller,
	}, nil
}

// respondProtocolError maps the protocol failure taxonomy onto HTTP statuses.
// Failures surface verbatim; nothing is downgraded.
func respondProtocolError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, protocol.ErrInvalidIntent),
		errors.Is(err, protocol.ErrInvalidSignature),
		errors.Is(err, protocol.ErrInvalidUserSignature),
		errors.Is(err, protocol.ErrInvalidSolverSignature):
		web.ErrBadRequest(c, err)
	case errors.Is(err, protocol.ErrNonceMismatch):
		web.ErrConflict(c, err)
	case errors.Is(err, protocol.ErrIntentExpired),
		errors.Is(err, protocol.ErrSolverNotBonded),
		errors.Is(err, protocol.ErrInvalidStake),
		errors.Is(err, protocol.ErrInsufficientBond),
		errors.Is(err, protocol.ErrInsufficientLocked),
		errors.Is(err, protocol.ErrInsufficientAllowance),
		errors.Is(err, protocol.ErrInsufficientBalance):
		web.ErrUnprocessable(c, err)
	default:
		web.ErrInternalServerError(c, err)
	}
}
