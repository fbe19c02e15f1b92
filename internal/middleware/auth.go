package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
)

const (
	localUser   = "user"
	localClaims = "claims"
)

// RequireAuth validates the bearer token and loads the account it was issued to
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return types.NewAuthError(fiber.StatusUnauthorized, types.CodeAuthHeaderMissing, "Authorization header is required")
		}
		return authenticate(c, auth, header)
	}
}

// OptionalAuth attaches the user when a valid bearer token is present and
// passes the request through untouched otherwise
func OptionalAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		token, ok := bearerToken(header)
		if !ok {
			return c.Next()
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			return c.Next()
		}
		if user, err := auth.CurrentUser(c.UserContext(), claims.UserID); err == nil && !user.IsDisabled {
			c.Locals(localUser, user)
			c.Locals(localClaims, claims)
		}
		return c.Next()
	}
}

// RequireAdmin must follow RequireAuth
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return types.NewAuthError(fiber.StatusUnauthorized, types.CodeAuthHeaderMissing, "Authentication required")
		}
		if !user.IsAdmin {
			return types.NewAuthError(fiber.StatusForbidden, types.CodeAdminRequired, "Admin privileges required")
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user or nil
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localUser).(*models.User)
	return user
}

// CurrentClaims returns the verified token claims or nil
func CurrentClaims(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(localClaims).(*services.Claims)
	return claims
}

func authenticate(c *fiber.Ctx, auth *services.AuthService, header string) error {
	token, ok := bearerToken(header)
	if !ok {
		return types.NewAuthError(fiber.StatusUnauthorized, types.CodeInvalidAuthFormat, "Authorization header must be 'Bearer <token>'")
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		if errors.Is(err, services.ErrTokenExpired) {
			return types.NewAuthError(fiber.StatusUnauthorized, types.CodeTokenExpired, "Token has expired")
		}
		return types.NewAuthError(fiber.StatusUnauthorized, types.CodeInvalidToken, "Invalid token")
	}

	user, err := auth.CurrentUser(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return types.NewAuthError(fiber.StatusUnauthorized, types.CodeUserNotFound, "User not found")
		}
		return err
	}
	if user.IsDisabled {
		return types.NewAuthError(fiber.StatusForbidden, types.CodeAccountDisabled, "Account is disabled")
	}

	c.Locals(localUser, user)
	c.Locals(localClaims, claims)
	RequestLogger(c).Debug("Request authenticated", "userId", user.ID)

	return c.Next()
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
