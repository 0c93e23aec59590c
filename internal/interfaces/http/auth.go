package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/role"
)

const userContextKey = "authenticated-user"

// identityClaims is the token shape issued by the external session
// provider. Only identity travels in the token; what the user may do is
// re-derived from the live workflow definition on every action.
type identityClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// authMiddleware verifies the bearer token and stores the acting user in
// the request context.
func authMiddleware(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing bearer token",
			})
			return
		}

		claims := &identityClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		}, jwt.WithIssuer(issuer))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid token",
			})
			return
		}

		r, _ := role.Parse(claims.Role)
		c.Set(userContextKey, request.User{
			ID:   claims.Subject,
			Name: claims.Name,
			Role: r,
		})
		c.Next()
	}
}

// currentUser returns the authenticated user stored by authMiddleware.
func currentUser(c *gin.Context) request.User {
	if v, ok := c.Get(userContextKey); ok {
		if u, ok := v.(request.User); ok {
			return u
		}
	}
	return request.User{}
}
