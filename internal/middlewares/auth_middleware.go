package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sqlgenie/internal/utils"
)

// Authenticate requires a valid bearer access token and stores the user ID in
// the context for handlers.
func Authenticate(c *gin.Context) {
	userID, ok := bearerUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or missing access token"})
		return
	}

	c.Set("userId", userID)
	c.Next()
}

// AuthenticateOptional attaches the user ID when a valid token is present and
// lets the request through either way. Used where anonymous access is allowed
// but authenticated callers get extra behavior (history recording).
func AuthenticateOptional(c *gin.Context) {
	if userID, ok := bearerUserID(c); ok {
		c.Set("userId", userID)
	}
	c.Next()
}

func bearerUserID(c *gin.Context) (interface{}, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Expected format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := utils.VerifyJWT(parts[1], utils.AccessTokenSecret())
	if err != nil {
		return nil, false
	}

	return claims.UserID, true
}
