package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/giftcard-service/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "test-secret"

func signedToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := &middleware.Claims{
		UserID: userID.String(),
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

// disabledLimiter skips Redis entirely; the middleware still classifies
// the identity and reports the applied rule in the response headers.
func disabledLimiter() *Limiter {
	client, _ := redismock.NewClientMock()
	cfg := testConfig()
	cfg.Enabled = false
	return NewLimiter(client, cfg)
}

// ---------------------------------------------------------------------------
// Middleware – identity classification depends on running after Auth
// ---------------------------------------------------------------------------

func TestMiddleware_AfterAuth_UsesAuthenticatedLimit(t *testing.T) {
	limiter := disabledLimiter()

	router := gin.New()
	authed := router.Group("")
	authed.Use(middleware.Auth(testJWTSecret), Middleware(limiter))
	authed.GET("/api/gift-cards", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/gift-cards", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, uuid.New()))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}

func TestMiddleware_WithoutAuth_UsesAnonymousLimit(t *testing.T) {
	limiter := disabledLimiter()

	router := gin.New()
	router.GET("/api/gift-cards/:code/balance", Middleware(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/gift-cards/ABCD/balance", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30", w.Header().Get("X-RateLimit-Limit"))
}

// A limiter installed before Auth never sees the user identity: the
// request is keyed anonymously even with a valid token. Guards against
// reintroducing that ordering in the router wiring.
func TestMiddleware_BeforeAuth_MisclassifiesAsAnonymous(t *testing.T) {
	limiter := disabledLimiter()

	router := gin.New()
	group := router.Group("")
	group.Use(Middleware(limiter), middleware.Auth(testJWTSecret))
	group.GET("/api/gift-cards", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/gift-cards", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, uuid.New()))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30", w.Header().Get("X-RateLimit-Limit"))
}
