package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
)

const (
	errHeaderMissing   = "Authorization header missing"
	errHeaderMalformed = "Malformed auth header"
	errTokenInvalid    = "Invalid or expired token"
)

// Auth validates a Bearer JWT and sets the caller's id and role in the gin
// context. The header must be exactly "Bearer <token>".
func Auth(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, errHeaderMissing)
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, errHeaderMalformed)
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, errTokenInvalid)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, errTokenInvalid)
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			abortUnauthorized(c, errTokenInvalid)
			return
		}

		roleStr, _ := claims["role"].(string)
		role := domain.Role(roleStr)
		if !role.Valid() {
			abortUnauthorized(c, errTokenInvalid)
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUserRole, string(role))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": message,
	})
}
