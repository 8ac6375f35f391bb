package handler

import (
	"go-shop-ms/internal/apperr"
	"go-shop-ms/internal/middleware"
	"go-shop-ms/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register mounts the identity routes. Only the profile sits behind requireAuth.
func (h *AuthHandler) Register(r fiber.Router, requireAuth fiber.Handler) {
	auth := r.Group("/auth")
	auth.Post("/register", h.SignUp)
	auth.Post("/login", h.Login)
	auth.Get("/profil", requireAuth, h.Profile)
}

// SignUp creates a user
// POST /auth/register
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// Login handles user authentication
// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   response.Token,
		"user":    response.User,
	})
}

// Profile returns the caller's own user document
// GET /auth/profil
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.LocalUserID).(uuid.UUID)
	if !ok {
		return apperr.Auth("unauthorized")
	}

	profile, err := h.authService.Profile(userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
