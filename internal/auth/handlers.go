package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/signup", func(c *fiber.Ctx) error {
		var req SignupRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}

		user, fieldErrs, err := svc.Signup(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if fieldErrs != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrs})
		}

		token, err := svc.StartSession(c.Context(), user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		setSessionCookie(c, token)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
	})

	r.Get("/login", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"next": c.Query("next", "/")})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "username and password required")
		}

		user, err := svc.Authenticate(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		token, err := svc.StartSession(c.Context(), user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		setSessionCookie(c, token)
		return c.Redirect(c.Query("next", "/"), fiber.StatusFound)
	})

	r.Post("/logout", func(c *fiber.Ctx) error {
		if token := c.Cookies(SessionCookie); token != "" {
			_ = svc.EndSession(c.Context(), token)
		}
		clearSessionCookie(c)
		return c.Redirect("/", fiber.StatusFound)
	})
}

func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(sessionTTL),
		HTTPOnly: true,
		Path:     "/",
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})
}
