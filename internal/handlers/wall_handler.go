package handlers

import (
	"galaxia/internal/schemas"
	"galaxia/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthorHeader optionally names the author of a new wall post.
const AuthorHeader = "X-Author"

// WallHandler handles HTTP requests for the wall.
type WallHandler struct {
	service *services.WallService
}

// NewWallHandler creates a new WallHandler.
func NewWallHandler(service *services.WallService) *WallHandler {
	return &WallHandler{service: service}
}

// RegisterRoutes registers the wall routes with the Fiber app.
func (h *WallHandler) RegisterRoutes(router fiber.Router) {
	wallRoutes := router.Group("/wall")
	wallRoutes.Get("/posts", h.HandleListPosts)
	wallRoutes.Post("/posts", h.HandleCreatePost)
}

// HandleListPosts returns every post, most recent first.
func (h *WallHandler) HandleListPosts(c *fiber.Ctx) error {
	posts, err := h.service.ListPosts(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(posts)
}

// HandleCreatePost publishes a post.
func (h *WallHandler) HandleCreatePost(c *fiber.Ctx) error {
	content := schemas.LoadPostContent(c.Body())

	post, err := h.service.CreatePost(c.UserContext(), content, c.Get(AuthorHeader))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}
