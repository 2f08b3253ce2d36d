package handlers

import (
	"fmt"
	"log"

	"cartapi/internal/models"
	"cartapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleGetUsers returns one page of users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	page, pageSize, err := pageQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	users, err := h.service.ListUsers(c.UserContext(), page, pageSize)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Users retrieved", users)
}

// HandleGetUserByID retrieves a single user by their ID.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.service.GetUserByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "User retrieved", user)
}

// HandleCreateUser creates a new user.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var in models.UserInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("POST /api/users: error parsing request body: %v", err)
		return invalidBody(c)
	}

	user, err := h.service.CreateUser(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}

	log.Printf("POST /api/users: user %d created", user.ID)
	c.Location(fmt.Sprintf("/api/users/%d", user.ID))
	return respond(c, fiber.StatusCreated, "User created", user)
}

// HandleUpdateUser replaces the name and phone number of a user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in models.UserInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("PUT /api/users/%d: error parsing request body: %v", id, err)
		return invalidBody(c)
	}

	if err := h.service.UpdateUser(c.UserContext(), id, in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteUser deletes a user and their cart items.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	log.Printf("DELETE /api/users/%d: user deleted", id)
	return respond(c, fiber.StatusOK, "User deleted", nil)
}
