package middleware

import (
	"net/http"
	"strings"

	"evently/utils"

	"github.com/gin-gonic/gin"
)

// ContextParticipantID is the gin context key carrying the authenticated
// participant's ID.
const ContextParticipantID = "participantID"

// JWTAuthParticipantMiddleware authenticates requests with a bearer token and
// stores the resolved participant ID on the context. Verified tokens are
// cached in Redis by the resolver so repeat requests skip JWT verification.
func JWTAuthParticipantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		participantID, err := utils.ResolveAuthToken(c.Request.Context(), tokenString)
		if err != nil || participantID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set(ContextParticipantID, participantID)
		c.Next()
	}
}
