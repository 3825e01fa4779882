package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/server/endpoints"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type handlers struct {
	endpoints *endpoints.Endpoints
	logger    *zap.Logger
}

// handle binds a JSON body into Req, calls fn and renders its result.
func handle[Req any, Resp any](h *handlers, fn func(context.Context, Req) (Resp, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Req
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, endpoints.Malformed(err))
			return
		}
		resp, err := fn(c.Request.Context(), req)
		if err != nil {
			h.failWith(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (h *handlers) health(c *gin.Context) {
	resp, err := h.endpoints.Health(c.Request.Context())
	if err != nil {
		h.failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) searchUsers(c *gin.Context) {
	resp, err := h.endpoints.SearchUsers(c.Request.Context(), api.SearchUsersRequest{Query: c.Query("q")})
	if err != nil {
		h.failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) failWith(c *gin.Context, err error) {
	f := endpoints.Classify(err)
	if f.Internal() {
		h.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(api.RequestIDKey)),
			zap.Error(err),
		)
	}
	h.fail(c, f)
}

func (h *handlers) fail(c *gin.Context, f endpoints.Failure) {
	c.AbortWithStatusJSON(f.HTTPStatus, f.Response())
}
