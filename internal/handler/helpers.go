package handler

import (
	"strconv"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/middleware"
	"go-tailor-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{Username: getUserName(c)}
	if id, ok := c.Locals(middleware.LocalUserID).(string); ok {
		actor.ID, _ = uuid.Parse(id)
	}
	return actor
}

func getUserName(c *fiber.Ctx) string {
	userName, ok := c.Locals(middleware.LocalUserName).(string)
	if !ok {
		return "system"
	}
	return userName
}

// parseID reads a positive numeric route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validationf("%q must be a positive number", name)
	}
	return uint(id), nil
}

// parseQueryID reads an optional positive numeric query value; absent means 0.
func parseQueryID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validationf("%q must be a positive number", name)
	}
	return uint(id), nil
}

func parseUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validationf("%q must be a valid id", name)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("Invalid JSON")
	}
	return nil
}

func searchRequest(c *fiber.Ctx, nameKey, codeKey string) service.SearchRequest {
	req := service.SearchRequest{
		Page: c.QueryInt("page", 1),
		Size: c.QueryInt("size", 10),
	}
	if nameKey != "" {
		req.Name = c.Query(nameKey)
	}
	if codeKey != "" {
		req.Code = c.Query(codeKey)
	}
	return req
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}
