package auth

import "github.com/gofiber/fiber/v2"

// LoadUser resolves the session cookie, if any, and stores the current
// user in locals. Anonymous requests pass through untouched.
func LoadUser(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token != "" {
			if claims, err := svc.ResolveSession(c.Context(), token); err == nil {
				c.Locals("user_id", claims.UserID)
				c.Locals("username", claims.Username)
			}
		}
		return c.Next()
	}
}

// RequireUser redirects anonymous requests to the login page, carrying the
// original path in ?next= so login can return the user where they started.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUserID(c) == "" {
			return c.Redirect("/auth/login/?next="+c.Path(), fiber.StatusFound)
		}
		return c.Next()
	}
}

// CurrentUserID returns the resolved user id or "" for anonymous requests.
func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// CurrentUsername returns the resolved username or "" for anonymous requests.
func CurrentUsername(c *fiber.Ctx) string {
	name, _ := c.Locals("username").(string)
	return name
}
