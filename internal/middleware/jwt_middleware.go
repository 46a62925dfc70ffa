package middleware

import (
	"fmt"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// TokenCookie is the cookie the login endpoint sets.
const TokenCookie = "token"

const userLocalsKey = "user"

// AuthRequired is a Fiber middleware to check for a valid JWT token. The
// token is read from the token cookie or an "Authorization: Bearer" header.
// The authenticated user is stored in the context locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(TokenCookie)
		if tokenString == "" {
			authHeader := c.Get(fiber.HeaderAuthorization)
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = strings.TrimSpace(parts[1])
			}
		}
		if tokenString == "" {
			return apperrors.Unauthorized("Login first to access this resource")
		}

		user, err := authService.UserFromToken(c.UserContext(), tokenString)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("authentication failed")
			return err
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// AuthorizeRoles only lets users holding one of roles through. It must run
// after AuthRequired.
func AuthorizeRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperrors.Unauthorized("Login first to access this resource")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return apperrors.Forbidden(fmt.Sprintf("Role (%s) is not allowed to access this resource", user.Role))
	}
}

// CurrentUser returns the user set by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
