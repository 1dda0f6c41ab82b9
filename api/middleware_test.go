package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whoAmI(c *gin.Context) {
	c.String(http.StatusOK, userID(c))
}

func newAuthRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Authenticate(secret), whoAmI)
	return r
}

func TestAuthenticate_header(t *testing.T) {
	r := newAuthRouter("")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderUserID, " user-7 ")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-7", w.Body.String())
}

func TestAuthenticate_missingHeader(t *testing.T) {
	r := newAuthRouter("")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"missing user id"}`, w.Body.String())
}

func TestAuthenticate_bearer(t *testing.T) {
	const secret = "s3cret"
	r := newAuthRouter(secret)

	token, err := IssueToken("user-42", secret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(HeaderUserID, "spoofed")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", w.Body.String())
}

func TestAuthenticate_bearerRejected(t *testing.T) {
	const secret = "s3cret"

	expired, err := IssueToken("user-42", secret, -time.Minute)
	require.NoError(t, err)
	wrongKey, err := IssueToken("user-42", "other", time.Hour)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: "user-42",
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := map[string]string{
		"no header":  "",
		"not bearer": "Basic abc",
		"garbage":    "Bearer not-a-token",
		"expired":    "Bearer " + expired,
		"wrong key":  "Bearer " + wrongKey,
		"no subject": "Bearer " + noSubject,
		"wrong alg":  "Bearer " + wrongAlg,
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			r := newAuthRouter(secret)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, requestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "keys have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiter_sweepsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	assert.Equal(t, 2, rl.size())

	now = now.Add(2 * time.Minute)
	rl.Allow("c")
	assert.Equal(t, 1, rl.size())
}

func TestRateLimit_middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/book", Authenticate(""), RateLimit(NewRateLimiter(0.001, 1, time.Minute)), whoAmI)

	send := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/book", nil)
		req.Header.Set(HeaderUserID, user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("u1"))
	assert.Equal(t, http.StatusTooManyRequests, send("u1"))
	assert.Equal(t, http.StatusOK, send("u2"))
}
