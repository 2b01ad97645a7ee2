package handlers

import (
	"net/http"

	"galaxia/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

// PagesHandler serves the HTML pages and their static assets.
type PagesHandler struct {
	renderer *web.Renderer
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(renderer *web.Renderer) *PagesHandler {
	return &PagesHandler{renderer: renderer}
}

// RegisterRoutes registers the page routes and /static with the Fiber app.
func (h *PagesHandler) RegisterRoutes(router fiber.Router) {
	for _, p := range web.Pages {
		router.Get(p.Path, h.page(p))
	}
	router.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(web.StaticFS()),
		MaxAge: 3600,
	}))
}

func (h *PagesHandler) page(p web.Page) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.renderer.Render(p.File, &web.HTMLData{Title: p.Title, Path: p.Path})
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(out)
	}
}
