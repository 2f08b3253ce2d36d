package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"cartapi/internal/apperror"
	"cartapi/internal/models"
	"cartapi/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// respond writes the standard envelope with the given status.
func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(models.APIResponse{
		Status:  status,
		Success: status < fiber.StatusBadRequest,
		Message: message,
		Data:    data,
	})
}

// respondError maps the service error kinds to 400, 404 and 409. Anything else
// is returned unchanged so the app error handler answers 500.
func respondError(c *fiber.Ctx, err error) error {
	var status int
	switch {
	case errors.Is(err, apperror.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		status = fiber.StatusConflict
	default:
		return err
	}
	return respond(c, status, apperror.Message(err, err.Error()), nil)
}

func invalidBody(c *fiber.Ctx) error {
	return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
}

// paramID reads a positive integer path parameter that fits a bigint column.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 63)
	if err != nil || id == 0 {
		return 0, apperror.InvalidInput("Invalid id")
	}
	return uint(id), nil
}

func queryInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.InvalidInput("Invalid " + key)
	}
	return n, nil
}

func queryInt64(c *fiber.Ctx, key string) (int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.InvalidInput("Invalid " + key)
	}
	return n, nil
}

var dateLayouts = []string{time.RFC3339, time.DateOnly}

// queryDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. An absent
// value is the zero time.
func queryDate(c *fiber.Ctx, key string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.InvalidInput("Invalid " + key)
}

// pageQuery reads page and pageSize, falling back to the defaults.
func pageQuery(c *fiber.Ctx) (page, pageSize int, err error) {
	if page, err = queryInt(c, "page", pagination.DefaultPage); err != nil {
		return 0, 0, err
	}
	if pageSize, err = queryInt(c, "pageSize", pagination.DefaultPageSize); err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}
