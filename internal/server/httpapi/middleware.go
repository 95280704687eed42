package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/dmitrijs2005/biscotto/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const (
	ctxClaims = "claims"
	ctxToken  = "token"
)

func (a *API) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			a.logger.Error(c.Request.Context(), "http request", args...)
			return
		}
		a.logger.Info(c.Request.Context(), "http request", args...)
	}
}

func (a *API) recovered(c *gin.Context, rec any) {
	a.logger.Error(c.Request.Context(), "panic while serving request", "panic", rec, "path", c.Request.URL.Path)
	body := gin.H{"message": "Something went wrong!"}
	if !a.opts.Production {
		body["error"] = rec
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader(common.AuthorizationHeaderName)
	if !strings.HasPrefix(h, common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, common.BearerPrefix))
}

// requireAuth rejects requests without a valid bearer token and stores the
// token and its claims in the context.
func (a *API) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}

		claims, err := a.users.Authenticate(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		c.Set(ctxToken, token)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// requireRole lets the request through only if the authenticated role is
// one of roles. It must run after requireAuth.
func requireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		v, ok := c.Get(ctxClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}
		claims, ok := v.(*auth.Claims)
		if !ok || !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next()
	}
}

// rateLimit counts requests per client IP and route. Redis failures let the
// request through.
func (a *API) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.opts.Limiter == nil {
			c.Next()
			return
		}

		key := c.ClientIP() + ":" + c.FullPath()
		ok, remaining, err := a.opts.Limiter.Allow(c.Request.Context(), key)
		if err != nil {
			a.logger.Warn(c.Request.Context(), "rate limit check failed", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(a.opts.Limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !ok {
			a.logger.Warn(c.Request.Context(), "rate limit exceeded", "ip", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, please try again later."})
			return
		}
		c.Next()
	}
}
