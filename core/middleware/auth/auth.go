package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// HeaderAPIKey carries the API key.
	HeaderAPIKey = "X-API-Key"
	// HeaderActor names the verified caller on whose behalf the request runs.
	HeaderActor = "X-Actor"
	// LocalsActor is the fiber locals key holding the caller identity.
	LocalsActor = "actor"
	// DefaultActor is used when an authorized caller does not name itself.
	DefaultActor = "api"
)

// Config holds the auth middleware settings.
type Config struct {
	// ApiKey is the shared secret. An empty key disables the check.
	ApiKey string
}

// New returns a middleware that rejects requests without a valid API key.
// The key is read from X-API-Key or an "Authorization: Bearer" header.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey != "" {
			key := c.Get(HeaderAPIKey)
			if key == "" {
				key = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "unauthorized",
				})
			}
		}

		actor := strings.TrimSpace(c.Get(HeaderActor))
		if actor == "" {
			actor = DefaultActor
		}
		c.Locals(LocalsActor, actor)
		return c.Next()
	}
}

// Actor returns the caller identity recorded by the middleware.
func Actor(c *fiber.Ctx) string {
	if actor, ok := c.Locals(LocalsActor).(string); ok && actor != "" {
		return actor
	}
	return DefaultActor
}
