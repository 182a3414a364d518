package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/i18n"
)

// Locale picks the response language from ?lang= or Accept-Language.
func Locale(defaultLocale string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("lang")
		if raw == "" {
			raw = c.GetHeader("Accept-Language")
		}
		c.Set(ContextLocale, i18n.Normalize(raw, defaultLocale))
		c.Next()
	}
}

func LocaleFrom(c *gin.Context) string {
	if l := c.GetString(ContextLocale); l != "" {
		return l
	}
	return i18n.Bulgarian
}
