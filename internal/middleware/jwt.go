package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/sira-go-api/internal/auth"
	"github.com/noah-isme/sira-go-api/internal/repository"
	"github.com/noah-isme/sira-go-api/internal/utils"
)

// JWTProtected returns a middleware that validates bearer tokens and loads
// the account they belong to. Disabled and locked accounts are rejected even
// when the token itself is still valid.
func JWTProtected(secret string, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendErrorCode(c, fiber.StatusUnauthorized, "authorization header missing", "TOKEN_MISSING")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendErrorCode(c, fiber.StatusUnauthorized, "invalid authorization header", "TOKEN_INVALID")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendErrorCode(c, fiber.StatusUnauthorized, "invalid token", "TOKEN_INVALID")
		}

		claims, err := auth.VerifyToken(secret, tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return utils.SendErrorCode(c, fiber.StatusUnauthorized, "token expired", "TOKEN_EXPIRED")
			}
			return utils.SendErrorCode(c, fiber.StatusUnauthorized, "invalid token", "TOKEN_INVALID")
		}

		user, err := users.GetByID(c.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return utils.SendErrorCode(c, fiber.StatusUnauthorized, "user not found", "USER_NOT_FOUND")
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to authenticate request")
		}

		if !user.IsActive {
			return utils.SendErrorCode(c, fiber.StatusUnauthorized, "account is deactivated", "ACCOUNT_DEACTIVATED")
		}

		if user.Locked(time.Now()) {
			return utils.SendErrorCode(c, fiber.StatusUnauthorized, "account is locked", "ACCOUNT_LOCKED")
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_role", strings.ToLower(user.Role))
		c.Locals("user_email", user.Email)

		return c.Next()
	}
}
