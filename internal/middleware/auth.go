package middleware

import (
	"fmt"

	"github.com/authorizerdev/authorizer-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/config"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/services"
	"github.com/sdxshuai/Epicourier-Web-sub001/internal/types"
)

// RequireUser validates the Authorizer session cookie and stores the user id
// in c.Locals("userID"). Missing or invalid sessions get 401. The Authorizer
// client is created on the first request that carries a cookie, since the
// redirect URL depends on how the server is being addressed.
func RequireUser(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := c.Cookies("cookie_session")
		if session == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Authorizer cookie \"cookie_session\" not found",
				Type:    "authorization.user",
			}
		}

		if !services.IsAuthorizerInitialized() {
			if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
				return &types.CustomError{
					Code:    fiber.StatusUnauthorized,
					Message: fmt.Sprintf("Session validation unavailable: %v", err),
					Type:    "authorization.user",
				}
			}
		}

		data, err := services.ValidateSession(session, []string{"user"})
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: fmt.Sprintf("Invalid session: %v", err),
				Type:    "authorization.user",
			}
		}

		userID, err := userIDFromSession(data)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: err.Error(),
				Type:    "authorization.user",
			}
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

// userIDFromSession digs the user id out of the validate_session payload. The
// SDK returns a typed user; raw GraphQL fallbacks return a map.
func userIDFromSession(data map[string]interface{}) (string, error) {
	user, ok := data["user"]
	if !ok || user == nil {
		return "", fmt.Errorf("user not found in session")
	}

	switch u := user.(type) {
	case *authorizer.User:
		if u.ID == "" {
			return "", fmt.Errorf("user ID not found in session")
		}
		return u.ID, nil
	case map[string]interface{}:
		id, ok := u["id"].(string)
		if !ok || id == "" {
			return "", fmt.Errorf("user ID not found in session")
		}
		return id, nil
	}

	return "", fmt.Errorf("invalid user data format")
}
