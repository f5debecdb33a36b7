package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-api/pkg/logger"
)

// RequestLogger tags every request with an id and logs method, path, status
// and latency.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log := logger.Get()
		requestID := uuid.New().String()
		ctx.Set("request_id", requestID)
		ctx.Header("X-Request-Id", requestID)

		start := time.Now()
		ctx.Next()

		log.Info().
			Str("request_id", requestID).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
