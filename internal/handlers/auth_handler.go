package handlers

import (
	"galaxia/internal/schemas"
	"galaxia/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleLogin checks an email and password pair and returns the matching user.
// No session or token is issued.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	req, errs := schemas.LoadLogin(c.Body())
	if errs != nil {
		return errorResponse(c, fiber.StatusBadRequest, CodeValidation, "Email and password are required.", errs)
	}

	user, err := h.authService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Debug().Err(err).Msg("login failed")
		return serviceError(c, err)
	}
	return c.JSON(schemas.NewUserOutput(user))
}
