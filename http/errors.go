package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func ErrBadRequest(c *gin.Context, err error) {
	Err(c, http.StatusBadRequest, err)
}

// ErrConflict reports a nonce that no longer matches the ledger,
// i.e. a replayed or raced settlement.
func ErrConflict(c *gin.Context, err error) {
	Err(c, http.StatusConflict, err)
}

// ErrUnprocessable reports a well-formed request the protocol refuses,
// e.g. an expired deadline or an unbonded solver.
func ErrUnprocessable(c *gin.Context, err error) {
	Err(c, http.StatusUnprocessableEntity, err)
}

func ErrInternalServerError(c *gin.Context, err error) {
	Err(c, http.StatusInternalServerError, err)
}

func Err(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"error": err.Error()})
}
