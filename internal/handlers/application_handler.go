package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

type ApplicationHandler struct {
	Jobs *lifecycle.Service
}

func NewApplicationHandler(jobs *lifecycle.Service) *ApplicationHandler {
	return &ApplicationHandler{Jobs: jobs}
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	app, err := h.Jobs.Apply(c.UserContext(), session(c), jobID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "application submitted", app)
}

func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	apps, err := h.Jobs.SeekerApplications(c.UserContext(), session(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", apps)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req updateStatusReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	outcome := models.ApplicationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	app, err := h.Jobs.Decide(c.UserContext(), session(c), id, outcome)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "application "+string(app.Status), app)
}
