package httpjson

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	web "github.com/intentlane-hq/intentlane/http"
	"github.com/intentlane-hq/intentlane/models"
	"github.com/intentlane-hq/intentlane/utils"
)

// createStake deposits bond for a solver.
func (h *handler) createStake(c *gin.Context) {
	solver, amount, ok := h.bindStakeRequest(c)
	if !ok {
		return
	}

	total, err := h.deps.Bonds.Deposit(c.Request.Context(), solver, amount)
	if err != nil {
		respondProtocolError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.StakeResponse{
		Solver:   solver.Hex(),
		Balance:  total.String(),
		Eligible: h.deps.Bonds.Eligible(solver),
	})
}

// createWithdrawal releases bond back to the solver.
func (h *handler) createWithdrawal(c *gin.Context) {
	solver, amount, ok := h.bindStakeRequest(c)
	if !ok {
		return
	}

	total, err := h.deps.Bonds.Withdraw(c.Request.Context(), solver, amount)
	if err != nil {
		respondProtocolError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StakeResponse{
		Solver:   solver.Hex(),
		Balance:  total.String(),
		Eligible: h.deps.Bonds.Eligible(solver),
	})
}

func (h *handler) getStake(c *gin.Context) {
	solver, err := utils.ParseAddress(c.Param("solver"))
	if err != nil {
		web.ErrBadRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StakeResponse{
		Solver:   solver.Hex(),
		Balance:  h.deps.Bonds.Balance(solver).String(),
		Eligible: h.deps.Bonds.Eligible(solver),
	})
}

func (h *handler) bindStakeRequest(c *gin.Context) (solver common.Address, amount *big.Int, ok bool) {
	var req models.StakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.ErrBadRequest(c, err)
		return solver, nil, false
	}

	addr, err := utils.ParseAddress(req.Solver)
	if err != nil {
		web.ErrBadRequest(c, err)
		return solver, nil, false
	}

	value, err := utils.ParseAmount(req.Amount)
	if err != nil {
		web.ErrBadRequest(c, err)
		return solver, nil, false
	}

	return addr, value, true
}
