package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/skyfare/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderRequestID = "X-Request-ID"

	ctxUserID    = "user_id"
	ctxRequestID = "request_id"
)

var (
	ErrMissingUser  = errors.New("missing user id")
	ErrInvalidToken = errors.New("invalid token")
)

// RequestID propagates an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// AccessLog writes one line per request and records the HTTP metrics.
func AccessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(status), elapsed.Seconds())

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("elapsed", elapsed),
			slog.String("request_id", requestID(c)),
			slog.String("user_id", c.GetString(ctxUserID)),
		)
	}
}

// Authenticate resolves the calling user. With a secret configured the user
// is the sub claim of an HS256 bearer token; without one it is read from
// the X-User-ID header.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			userID string
			err    error
		)
		if secret != "" {
			userID, err = subjectFromBearer(c.GetHeader("Authorization"), secret)
		} else {
			userID = strings.TrimSpace(c.GetHeader(HeaderUserID))
			if userID == "" {
				err = ErrMissingUser
			}
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func subjectFromBearer(header, secret string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrMissingUser
	}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// IssueToken signs a token for userID. Used by tests and local tooling.
func IssueToken(userID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// RateLimit throttles requests per authenticated user, falling back to the
// client IP when no user has been resolved.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := userID(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
