package auth

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"repairshop.GO/config"
)

// Settings selects the protection applied to the /api group.
type Settings struct {
	Type      string // "basic" (default) or "key"
	User      string
	Pass      string
	Key       string
	SkipPaths []string
}

// SettingsFromEnv reads AUTH_TYPE, API_USER, API_PASS and API_KEY.
func SettingsFromEnv() Settings {
	return Settings{
		Type:      config.GetEnv("AUTH_TYPE", "basic"),
		User:      config.GetEnv("API_USER", ""),
		Pass:      config.GetEnv("API_PASS", ""),
		Key:       config.GetEnv("API_KEY", ""),
		SkipPaths: config.GetAuthSkipperPaths(),
	}
}

// Middleware returns the auth middleware for s.
func Middleware(s Settings) echo.MiddlewareFunc {
	skipper := buildSkipper(s.SkipPaths)
	if s.Type == "key" {
		return keyAuth(s.Key, skipper)
	}
	return basicAuth(s.User, s.Pass, skipper)
}

func buildSkipper(skipPaths []string) middleware.Skipper {
	return func(c echo.Context) bool {
		path := c.Path()
		for _, skip := range skipPaths {
			if path == skip {
				return true
			}
		}
		return false
	}
}

func basicAuth(user, pass string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: func(username, password string, c echo.Context) (bool, error) {
			if user == "" {
				return false, nil
			}
			return equal(username, user) && equal(password, pass), nil
		},
		Skipper: skipper,
	})
}

func keyAuth(apiKey string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(key string, c echo.Context) (bool, error) {
			return apiKey != "" && equal(key, apiKey), nil
		},
		Skipper: skipper,
	})
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
