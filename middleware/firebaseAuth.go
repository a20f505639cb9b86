package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"salonbook/utils"
)

// FirebaseAdminMiddleware authorizes admin endpoints by verifying a Firebase
// ID token. The token must carry an "admin" custom claim; plain client
// accounts are rejected.
func FirebaseAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		idToken := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := utils.AuthClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Firebase ID token"})
			return
		}

		if isAdmin, ok := token.Claims["admin"].(bool); !ok || !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			return
		}

		c.Set("adminSubject", token.UID)
		c.Set("isAdmin", true)
		c.Next()
	}
}
