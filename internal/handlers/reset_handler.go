package handlers

import (
	"galaxia/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ResetHandler clears every store. It is only mounted in the test environment.
type ResetHandler struct {
	users *services.UserService
	wall  *services.WallService
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(users *services.UserService, wall *services.WallService) *ResetHandler {
	return &ResetHandler{users: users, wall: wall}
}

// RegisterRoutes registers the reset route with the Fiber app.
func (h *ResetHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/testing/reset", h.HandleReset)
}

// HandleReset removes all users and posts and restarts their ids at 1.
func (h *ResetHandler) HandleReset(c *fiber.Ctx) error {
	if err := h.users.Reset(c.UserContext()); err != nil {
		return serviceError(c, err)
	}
	if err := h.wall.Reset(c.UserContext()); err != nil {
		return serviceError(c, err)
	}
	log.Warn().Msg("all stores reset")
	return c.SendStatus(fiber.StatusNoContent)
}
