package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sahanw/restopos/internal/model"
	"github.com/sahanw/restopos/internal/permission"
	"github.com/sahanw/restopos/internal/user"
)

const claimsKey = "claims"

// AuthRequired validates the bearer token and injects the claims.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}
		claims, err := user.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Require gates a route on one capability of the caller's role.
func Require(check func(permission.Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		caps := permission.Resolve(roleFrom(c))
		if !check(caps) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *user.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*user.Claims); ok {
			return claims
		}
	}
	return nil
}

func roleFrom(c *gin.Context) model.Role {
	if claims := claimsFrom(c); claims != nil {
		return claims.Role
	}
	return ""
}
