package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

type CategoryHandler struct {
	Jobs *lifecycle.Service
}

func NewCategoryHandler(jobs *lifecycle.Service) *CategoryHandler {
	return &CategoryHandler{Jobs: jobs}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.Jobs.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", categories)
}
