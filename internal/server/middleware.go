package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns a unique identifier to every request. An identifier
// supplied by the client in X-Request-ID is kept so callers can correlate
// their own logs with ours.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}

// RequestLogger emits one structured log entry per request with latency
// and outcome, leveled by the response status code.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		fields := []zap.Field{
			zap.String("request_id", c.GetString("request_id")),
			zap.String("http_method", c.Request.Method),
			zap.String("uri", c.Request.URL.RequestURI()),
			zap.Int("status_code", statusCode),
			zap.Int64("latency_ms", latency.Milliseconds()),
			zap.String("client_ip", c.ClientIP()),
		}

		switch {
		case statusCode >= http.StatusInternalServerError:
			logger.Error("request completed with server error", fields...)
		case statusCode >= http.StatusBadRequest:
			logger.Warn("request completed with client error", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// BearerAuth rejects requests that do not carry the configured bearer token.
// A missing or malformed Authorization header yields 401, a wrong token 403.
func BearerAuth(token string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		presented := strings.TrimPrefix(header, "Bearer ")
		// Constant-time comparison so response timing reveals nothing about the token
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			logger.Warn("rejected request with invalid token",
				zap.String("request_id", c.GetString("request_id")),
				zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		c.Next()
	}
}
