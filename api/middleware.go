package api

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/spf13/viper"
)

// APIKeyProtected guards a route group with the configured API key, read
// from the X-API-Key header. With no key configured the surface stays open.
func APIKeyProtected() fiber.Handler {
	apiKey := viper.GetString("api.auth.key")
	if apiKey == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return keyauth.New(keyauth.Config{
		KeyLookup: "header:X-API-Key",
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error: "Unauthorized. Invalid or missing API key.",
			})
		},
	})
}
