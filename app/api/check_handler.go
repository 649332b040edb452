package api

import (
	"github.com/gofiber/fiber/v2"
)

type CheckHandler struct{}

func NewCheckHandler() *CheckHandler {
	return &CheckHandler{}
}

func (h CheckHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "message": "MedRAG API is running"})
}
