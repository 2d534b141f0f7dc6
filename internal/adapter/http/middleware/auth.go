package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"quoteflow/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserIDKey is where Auth stores the authenticated account id.
const ContextUserIDKey = "auth_user_id"

// Auth verifies the bearer token against the identity provider's shared
// HS256 secret and stores the subject claim as the account id. A missing
// principal is an error here, never a guard silently bypassed downstream.
func Auth(jwtSecret string) gin.HandlerFunc {
	unauthorized := pkg.NewDomainErrorSimple("NOT_AUTHENTICATED", "Not authenticated", http.StatusUnauthorized)
	notConfigured := pkg.NewDomainErrorSimple("AUTH_NOT_CONFIGURED", "Authentication is not configured", http.StatusServiceUnavailable)

	return func(c *gin.Context) {
		if jwtSecret == "" {
			c.AbortWithStatusJSON(notConfigured.HTTPStatus, notConfigured.ToHTTPError())
			return
		}

		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(unauthorized.HTTPStatus, unauthorized.ToHTTPError())
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(unauthorized.HTTPStatus, unauthorized.ToHTTPError())
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			c.AbortWithStatusJSON(unauthorized.HTTPStatus, unauthorized.ToHTTPError())
			return
		}

		c.Set(ContextUserIDKey, sub)
		c.Next()
	}
}

// UserID returns the authenticated account id set by Auth, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
