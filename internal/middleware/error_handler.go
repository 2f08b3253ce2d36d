package middleware

import (
	"errors"
	"log"

	"cartapi/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// ErrorHandler is the fiber.Config ErrorHandler. A *fiber.Error keeps its code
// and message; any other error is logged with the request method and path and
// answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.APIResponse{
			Status:  fe.Code,
			Success: fe.Code < fiber.StatusBadRequest,
			Message: fe.Message,
		})
	}

	log.Printf("%s %s: %v (request %v)", c.Method(), c.Path(), err, c.Locals(requestid.ConfigDefault.ContextKey))
	return c.Status(fiber.StatusInternalServerError).JSON(models.APIResponse{
		Status:  fiber.StatusInternalServerError,
		Success: false,
		Message: "Internal Server Error",
	})
}

// Register installs panic recovery, request IDs and the access log on app.
func Register(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))
}
