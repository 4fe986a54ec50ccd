package middleware

import (
	"net/http"
	"strings"
	"time"

	"lexsync_app_go/config"
	"lexsync_app_go/services/i18n"

	"github.com/labstack/echo/v4"
)

// Locale middleware handles language detection and persistence.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. Accept-Language header
// 4. Default ("en")
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := c.QueryParam("lang")
			if lang != "" {
				if lang != "en" && lang != "es" {
					lang = "en"
				}

				cookie := new(http.Cookie)
				cookie.Name = "lang"
				cookie.Value = lang
				cookie.Expires = time.Now().Add(24 * 365 * time.Hour) // 1 year
				cookie.Path = "/"
				cookie.HttpOnly = true
				cookie.SameSite = http.SameSiteLaxMode
				if cfg.Environment == "production" {
					cookie.Secure = true
				}
				c.SetCookie(cookie)
			} else {
				cookie, err := c.Cookie("lang")
				if err == nil {
					lang = cookie.Value
				}
			}

			if lang == "" {
				accept := c.Request().Header.Get("Accept-Language")
				if strings.Contains(accept, "es") {
					lang = "es"
				} else {
					lang = "en"
				}
			}

			c.Set("locale", lang)

			ctx := i18n.WithLocale(c.Request().Context(), lang)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetLocale returns the current locale from the echo context
func GetLocale(c echo.Context) string {
	val := c.Get("locale")
	if lang, ok := val.(string); ok {
		return lang
	}
	return "en"
}
