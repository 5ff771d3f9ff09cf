package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatnexus/backend/internal/infrastructure/auth"
	"github.com/greatnexus/backend/internal/infrastructure/cache"
	"github.com/greatnexus/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	t.Run("generates an id when absent", func(t *testing.T) {
		engine := gin.New()
		engine.Use(RequestID())
		engine.GET("/", func(c *gin.Context) {
			assert.NotEmpty(t, c.GetString("request_id"))
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		engine := gin.New()
		engine.Use(RequestID())
		engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "caller-id")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, "caller-id", w.Header().Get("X-Request-ID"))
	})
}

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://app.example.com"}

	engine := gin.New()
	engine.Use(CORSWithConfig(cfg))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin gets headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
	})

	t.Run("other origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered with 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func newAuthTestEngine(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-that-is-long-enough",
		Issuer: "nexus-backend-test",
	})

	engine := gin.New()
	engine.Use(JWTAuth(jwtService))
	engine.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/protected", func(c *gin.Context) {
		tenantID, ok := GetJWTTenantID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"tenant_id": tenantID})
	})
	return engine, jwtService
}

func TestJWTAuth(t *testing.T) {
	engine, jwtService := newAuthTestEngine(t)

	t.Run("skip paths bypass auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token passes and exposes claims", func(t *testing.T) {
		token, err := jwtService.GenerateToken(auth.GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
			Username: "tester",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := jwtService.GenerateToken(auth.GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
			TTL:      -time.Minute,
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	engine := gin.New()
	engine.Use(Idempotency(store))
	engine.POST("/", func(c *gin.Context) { c.Status(http.StatusCreated) })

	t.Run("requests without key pass through", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
			assert.Equal(t, http.StatusCreated, w.Code)
		}
	})

	t.Run("replayed key is rejected", func(t *testing.T) {
		first := httptest.NewRequest(http.MethodPost, "/", nil)
		first.Header.Set(IdempotencyKeyHeader, "order-123")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, first)
		assert.Equal(t, http.StatusCreated, w.Code)

		replay := httptest.NewRequest(http.MethodPost, "/", nil)
		replay.Header.Set(IdempotencyKeyHeader, "order-123")
		w = httptest.NewRecorder()
		engine.ServeHTTP(w, replay)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("distinct keys both pass", func(t *testing.T) {
		for _, key := range []string{"order-124", "order-125"} {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set(IdempotencyKeyHeader, key)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusCreated, w.Code)
		}
	})

	t.Run("failed request does not burn the key", func(t *testing.T) {
		calls := 0
		failOnce := gin.New()
		failOnce.Use(Idempotency(store))
		failOnce.POST("/", func(c *gin.Context) {
			calls++
			if calls == 1 {
				c.Status(http.StatusBadRequest)
				return
			}
			c.Status(http.StatusCreated)
		})

		for attempt, want := range []int{http.StatusBadRequest, http.StatusCreated, http.StatusConflict} {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set(IdempotencyKeyHeader, "order-retry")
			w := httptest.NewRecorder()
			failOnce.ServeHTTP(w, req)
			assert.Equal(t, want, w.Code, "attempt %d", attempt+1)
		}
	})
}
