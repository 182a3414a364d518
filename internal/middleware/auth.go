package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/i18n"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	ContextUserID = "userID"
	ContextRoles  = "userRoles"
	ContextLocale = "locale"
)

// IssueToken signs an HS256 token carrying the user id and role names.
func IssueToken(secret string, ttl time.Duration, user *models.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"roles": user.Roles.Names(),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := LocaleFrom(c)

		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "unauthorized", i18n.T(locale, "unauthorized"))
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "unauthorized", i18n.T(locale, "unauthorized"))
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "unauthorized", i18n.T(locale, "unauthorized"))
			c.Abort()
			return
		}

		userID, ok := claims["sub"].(float64)
		if !ok || userID <= 0 {
			httperr.Unauthorized(c, "unauthorized", i18n.T(locale, "unauthorized"))
			c.Abort()
			return
		}

		var names []string
		if raw, ok := claims["roles"].([]interface{}); ok {
			for _, r := range raw {
				if s, ok := r.(string); ok {
					names = append(names, s)
				}
			}
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextRoles, models.ParseRoles(names))

		c.Next()
	}
}

// RequireRole lets the request through when the caller holds any role in mask.
func RequireRole(mask models.RoleSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !RolesFrom(c).HasAny(mask) {
			locale := LocaleFrom(c)
			httperr.Forbidden(c, "forbidden", i18n.T(locale, "forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func UserIDFrom(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

func RolesFrom(c *gin.Context) models.RoleSet {
	if v, ok := c.Get(ContextRoles); ok {
		if roles, ok := v.(models.RoleSet); ok {
			return roles
		}
	}
	return 0
}
