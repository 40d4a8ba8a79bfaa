package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/goinsights/goinsights/internal/web/session"
)

// LocalsUser is the fiber.Locals key holding the authenticated *session.Data.
const LocalsUser = "user"

// RequirePermission creates Fiber middleware that requires a specific permission.
// Requests without a valid session fail with 401, users lacking the
// permission with 403.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return RequireAnyPermission(authService, permission)
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(authService *Service, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData, err := session.FromRequest(c)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("request without valid session")
			return fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
		}

		hasPermission, err := authService.HasAnyPermission(sessionData.User.ID, permissions)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).Strs("permissions", permissions).
				Msg("Failed to check permissions")

			return err
		}

		if !hasPermission {
			log.Warn().Uint64("user_id", sessionData.User.ID).Strs("permissions", permissions).
				Msg("User lacks required permission")

			return fiber.NewError(fiber.StatusForbidden, "You don't have permission to access this resource")
		}

		c.Locals(LocalsUser, sessionData)

		return c.Next()
	}
}
