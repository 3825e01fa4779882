// Package httpapi serves the ledger over REST with gin.
package httpapi

import (
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/server/endpoints"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// NewRouter wires every ledger path onto a fresh gin engine.
func NewRouter(logger *zap.Logger, e *endpoints.Endpoints) *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery())

	h := &handlers{endpoints: e, logger: logger}

	r.GET(api.PathHealth, h.health)
	r.GET(api.PathSearchUsers, h.searchUsers)

	r.POST(api.PathUserDetails, handle(h, e.UserDetails))
	r.POST(api.PathRegister, handle(h, e.Register))
	r.POST(api.PathVerifyTOTPSetup, handle(h, e.VerifyTOTPSetup))
	r.POST(api.PathRegenerateTOTP, handle(h, e.RegenerateTOTP))
	r.POST(api.PathTransactions, handle(h, e.Transactions))
	r.POST(api.PathVerifyTOTP, handle(h, e.VerifyTOTP))
	r.POST(api.PathTransfer, handle(h, e.Transfer))
	r.POST(api.PathEditProfile, handle(h, e.EditProfile))
	r.POST(api.PathChangeEmail, handle(h, e.ChangeEmail))

	return r
}

// requestIDMiddleware echoes the caller's request id or assigns one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(api.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(api.RequestIDKey)),
		)
	}
}
