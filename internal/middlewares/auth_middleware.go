package middlewares

import (
	"net/http"
	"strings"

	"teamwork/internal/responses"
	"teamwork/internal/utils"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated uuid.UUID.
const UserIDKey = "userId"

// Authenticate verifies the bearer token and stores the user id in the
// context for handlers.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			responses.Abort(c, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			responses.Abort(c, http.StatusUnauthorized, "Invalid Authorization format")
			return
		}

		claims, err := utils.VerifyJWT(parts[1], secret)
		if err != nil {
			responses.Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		userID, _ := claims.UserID()
		c.Set(UserIDKey, userID)

		c.Next()
	}
}
