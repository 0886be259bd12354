package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/soaringlab/flightlog-backend-go/pkg/response"
)

// UserIDKey is the context key the authenticated user's ID is stored under
const UserIDKey = "userID"

// Auth validates the Bearer token and stores the subject claim in the
// request context
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "Missing bearer token", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			response.Error(c, http.StatusUnauthorized, "Invalid token", err)
			c.Abort()
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			response.Error(c, http.StatusUnauthorized, "Token has no subject", err)
			c.Abort()
			return
		}

		c.Set(UserIDKey, subject)
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the request context
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
