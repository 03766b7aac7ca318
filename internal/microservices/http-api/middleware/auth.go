package middleware

import (
	"net/http"
	"strings"

	"softwire/internal/microservices/http-api/dto"
	"softwire/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const ClaimsKey = "claims"

const invalidTokenMessage = "Invalid or missing token"

// AuthMiddleware is a Gin middleware for session token authentication.
// Every failure, from a missing header to an expired token, gets the same 401.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := authService.ValidateSession(tokenString)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ClaimsKey, claims)

		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.MessageResponse{
		Success: false,
		Message: invalidTokenMessage,
	})
}

// SessionClaims returns the claims stored by AuthMiddleware.
func SessionClaims(c *gin.Context) (*service.SessionClaims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*service.SessionClaims)
	return claims, ok
}
