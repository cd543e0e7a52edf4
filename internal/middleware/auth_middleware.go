package middleware

import (
	"context"
	"strings"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Locals keys set by RequireAuth
const (
	LocalUserID     = "user_id"
	LocalUserName   = "user_name"
	LocalRoleCode   = "role_code"
	LocalPrivileges = "user_privileges"
)

// Authenticator resolves a bearer token to the user of a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, *jwt.Claims, error)
}

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}

		// Signature, expiry and session version are all checked against the DB user
		user, claims, err := auth.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			return err
		}

		roleCode := claims.RoleCode
		if user.Role != nil {
			roleCode = user.Role.Code
		}

		// Set user info in context for downstream handlers
		c.Locals(LocalUserID, user.ID.String())
		c.Locals(LocalUserName, user.Username)
		c.Locals(LocalRoleCode, roleCode)
		c.Locals(LocalPrivileges, user.GetPrivilegeCodes())

		l := zerolog.Ctx(c.UserContext()).With().Str("user", user.Username).Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))

		return c.Next()
	}
}

// extractToken accepts "Bearer <token>" or the bare token.
func extractToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", apperror.Unauthorized(apperror.MsgUnauthorized)
	}

	parts := strings.Fields(header)
	switch {
	case len(parts) == 1:
		return parts[0], nil
	case len(parts) == 2 && strings.EqualFold(parts[0], "bearer"):
		return parts[1], nil
	default:
		return "", apperror.Unauthorized(apperror.MsgInvalidToken)
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return RequireAnyPrivilege(requiredPrivilege)
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals(LocalPrivileges).([]string)
		if !ok {
			return apperror.Forbidden("No privileges found")
		}

		for _, userPriv := range privileges {
			for _, reqPriv := range requiredPrivileges {
				if userPriv == reqPriv {
					return c.Next()
				}
			}
		}

		return apperror.Forbidden("Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges")
	}
}
