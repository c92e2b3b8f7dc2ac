package rest

import (
	"net/http"
	"strconv"

	"blogposts/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	DefaultUserHeader = "X-User-ID"

	userIDKey = "rest.userID"
)

// Identity resolves the authenticated user from a header set by the
// session layer in front of this service. A missing or malformed value
// leaves the request anonymous.
//
// The header is trusted as is. Deploy the service only behind a gateway
// that strips any client-supplied copy of the header and sets it from the
// authenticated session; never expose the service to clients directly.
func Identity(header string) gin.HandlerFunc {
	if header == "" {
		header = DefaultUserHeader
	}
	return func(c *gin.Context) {
		raw := c.GetHeader(header)
		if raw == "" {
			c.Next()
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			logger.FromContext(c.Request.Context()).Warn("ignoring malformed user id", "header", header)
			c.Next()
			return
		}

		c.Set(userIDKey, id)
		c.Request = c.Request.WithContext(logger.With(c.Request.Context(), "user_id", id))
		c.Next()
	}
}

// RequireUser stops anonymous requests before they reach a handler.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
