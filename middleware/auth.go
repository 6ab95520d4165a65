package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/siravitrin-eng/the-pos-67079349/services"
)

// Context keys populated by RequireAuth.
const (
	UserIDKey      = "user_id"
	SessionIDKey   = "session_id"
	IsAnonymousKey = "is_anonymous"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "token"

// RequireAuth gates a route group behind a valid session token, read
// from the session cookie or a bearer Authorization header.
func RequireAuth(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			header := c.GetHeader("Authorization")
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(SessionIDKey, claims.SessionID)
		c.Set(IsAnonymousKey, claims.IsAnonymous)
		c.Next()
	}
}
