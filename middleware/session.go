package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionIDKey = "session_id"

// Session makes sure every browser carries a session cookie. The cart of a
// visitor is keyed by it.
func Session(cookieName string, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
		}

		// Refreshed on every request so the cookie lives as long as the cart.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, sessionID, int(ttl.Seconds()), "/", "", secure, true)
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session id set by Session.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
