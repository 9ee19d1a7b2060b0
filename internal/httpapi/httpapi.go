// Package httpapi exposes the core quoting API (spec §6's "Quoting API
// (exposed)") over HTTP: swapQuote, increaseLiquidityQuoteByInputToken,
// increaseLiquidityQuoteByLiquidity and findBestRoutes.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IHttpHandler is implemented by each route group this package
// registers.
type IHttpHandler interface {
	Root() string
	SetRoutes(group *gin.RouterGroup)
}

// Response is the envelope every endpoint in this package replies
// with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func fail(c *gin.Context, status int, err string) {
	c.JSON(status, Response{Success: false, Error: err})
}

func badRequest(c *gin.Context, err string) {
	fail(c, http.StatusBadRequest, err)
}

func notFound(c *gin.Context, err string) {
	fail(c, http.StatusNotFound, err)
}

func internalError(c *gin.Context, err string) {
	fail(c, http.StatusInternalServerError, err)
}

// errStatus maps a core error kind to the HTTP status it should
// surface as, per spec §7's taxonomy.
func errStatus(err error) (int, string) {
	kind, ok := coreErrorKind(err)
	if !ok {
		return http.StatusInternalServerError, err.Error()
	}
	switch kind {
	case kindValidation:
		return http.StatusBadRequest, err.Error()
	case kindNotFound:
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusUnprocessableEntity, err.Error()
	}
}
