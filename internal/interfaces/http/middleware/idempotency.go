package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greatnexus/backend/internal/domain/shared"
	"github.com/greatnexus/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the request header carrying the client idempotency key
const IdempotencyKeyHeader = "Idempotency-Key"

// defaultIdempotencyTTL bounds how long a processed key blocks replays
const defaultIdempotencyTTL = 24 * time.Hour

// Idempotency rejects replays of requests that carry an Idempotency-Key
// header already seen within the TTL. Requests without the header pass
// through untouched. Keys are scoped per tenant so tenants cannot
// invalidate each other's keys. A key is recorded only after the handler
// responds successfully, so a rejected or failed request leaves the key
// free for a legitimate retry.
func Idempotency(store shared.IdempotencyStore) gin.HandlerFunc {
	return IdempotencyWithTTL(store, defaultIdempotencyTTL)
}

// IdempotencyWithTTL is Idempotency with a caller-chosen replay window
func IdempotencyWithTTL(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scopedKey := key
		if tenantID, ok := GetJWTTenantID(c); ok {
			scopedKey = tenantID.String() + ":" + key
		}

		processed, err := store.IsProcessed(c.Request.Context(), scopedKey)
		if err != nil {
			// Store failures must not block writes; the operation proceeds
			// without replay protection.
			c.Next()
			return
		}
		if processed {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeConflict, "request with this idempotency key was already processed", requestID))
			return
		}

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			_, _ = store.MarkProcessed(c.Request.Context(), scopedKey, ttl)
		}
	}
}
