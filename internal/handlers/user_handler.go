package handlers

import (
	"strconv"

	"galaxia/internal/schemas"
	"galaxia/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service        *services.UserService
	defaultPerPage int
	maxPerPage     int
}

// NewUserHandler creates a new UserHandler. defaultPerPage and maxPerPage
// bound the page size of paginated listings.
func NewUserHandler(service *services.UserService, defaultPerPage, maxPerPage int) *UserHandler {
	if maxPerPage < 1 {
		maxPerPage = 100
	}
	if defaultPerPage < 1 || defaultPerPage > maxPerPage {
		defaultPerPage = min(10, maxPerPage)
	}
	return &UserHandler{
		service:        service,
		defaultPerPage: defaultPerPage,
		maxPerPage:     maxPerPage,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// PaginatedUsers is the listing body returned when pagination is requested.
type PaginatedUsers struct {
	Items      []schemas.UserOutput `json:"items"`
	Pagination services.Pagination  `json:"pagination"`
}

// HandleCreateUser registers a new user.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	in, errs := schemas.LoadUserCreate(c.Body())
	if errs != nil {
		return errorResponse(c, fiber.StatusBadRequest, CodeValidation, "Invalid payload.", errs)
	}

	user, err := h.service.Create(c.UserContext(), in.Name, in.Email, in.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(schemas.NewUserOutput(user))
}

// HandleListUsers lists users. Without page or per_page the full list is
// returned as a bare array; with either one a page wrapped in
// {items, pagination} is returned.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	args := c.Context().QueryArgs()
	if !args.Has("page") && !args.Has("per_page") {
		users, err := h.service.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(schemas.NewUserOutputs(users))
	}

	page, perPage, ok := h.parsePagination(c)
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, CodeInvalidPagination, "Pagination parameters must be integers.", nil)
	}

	users, pagination, err := h.service.ListPage(c.UserContext(), page, perPage)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(PaginatedUsers{
		Items:      schemas.NewUserOutputs(users),
		Pagination: pagination,
	})
}

// parsePagination reads page and per_page, clamping page to at least 1 and
// per_page to [1, maxPerPage].
func (h *UserHandler) parsePagination(c *fiber.Ctx) (int, int, bool) {
	page, perPage := 1, h.defaultPerPage

	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		page = v
	}
	if raw := c.Query("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		perPage = v
	}

	page = max(page, 1)
	perPage = min(max(perPage, 1), h.maxPerPage)
	return page, perPage, true
}

// HandleGetUser retrieves a single user by its ID.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return serviceError(c, services.ErrUserNotFound)
	}

	user, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(schemas.NewUserOutput(user))
}

// HandleUpdateUser applies a partial update to a user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return serviceError(c, services.ErrUserNotFound)
	}

	changes, errs := schemas.LoadUserUpdate(c.Body())
	if errs != nil {
		// A missing user is reported before a bad payload.
		if _, err := h.service.Get(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return errorResponse(c, fiber.StatusBadRequest, CodeValidation, "Invalid payload.", errs)
	}

	user, err := h.service.Update(c.UserContext(), id, *changes)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(schemas.NewUserOutput(user))
}

// HandleDeleteUser removes a user.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, ok := userID(c)
	if !ok {
		return serviceError(c, services.ErrUserNotFound)
	}

	deleted, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return serviceError(c, err)
	}
	if !deleted {
		return serviceError(c, services.ErrUserNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// userID parses the :id path parameter. Anything that is not a positive
// integer cannot name a user.
func userID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
