package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/auth"
	"github.com/itww/admin-api/pkg/logger"
)

const (
	GinContextKeyPrincipal = "principal"
	TokenCookieName        = "token"
	RequestIDHeader        = "X-Request-ID"
)

// candidateTokens lists the token cookie first and the Authorization header second.
func candidateTokens(c *gin.Context) []string {
	var tokens []string
	if v, err := c.Cookie(TokenCookieName); err == nil && v != "" {
		tokens = append(tokens, v)
	}
	if t, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// AuthMiddleware records the Principal of the first token that verifies on
// both the gin context and the request context. A stale cookie does not hide a
// valid header. It never rejects on its own.
func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, token := range candidateTokens(c) {
			p, err := jwtSvc.Verify(token)
			if err != nil {
				log.Debug("Token rejected", zap.Error(err), zap.String("path", c.Request.URL.Path))
				continue
			}
			c.Set(GinContextKeyPrincipal, p)
			c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
			break
		}
		c.Next()
	}
}

// RequireAuth stops the chain with 401 unless AuthMiddleware found a valid token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipalFromGinContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func GetPrincipalFromGinContext(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(GinContextKeyPrincipal)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// principal returns the zero Principal when the request is anonymous. Use cases reject it.
func principal(c *gin.Context) auth.Principal {
	p, _ := GetPrincipalFromGinContext(c)
	return p
}

// ErrorMiddleware renders the last error a handler pushed with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, fields...)
		} else {
			log.Debug("Request rejected", append(fields, zap.Error(err))...)
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(status, apperror.ToJSON(err))
	}
}

// RequestLogger tags each request with an id and logs one line when it completes.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		c.Next()

		log.Info("HTTP request",
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Recovery turns a panic into a logged 500 with the generic body.
func Recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("Panic recovered", nil, zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}
