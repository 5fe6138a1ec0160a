package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

type JobHandler struct {
	Jobs *lifecycle.Service
}

func NewJobHandler(jobs *lifecycle.Service) *JobHandler {
	return &JobHandler{Jobs: jobs}
}

func queryFloat(c *fiber.Ctx, key string, fields lifecycle.FieldErrors) float64 {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields.Add(key, "must be a number")
		return 0
	}
	return v
}

// ListPublic: GET /api/jobs?q=&cat=&min=&max=&poster=&page=&limit=
func (h *JobHandler) ListPublic(c *fiber.Ctx) error {
	fields := lifecycle.FieldErrors{}
	var poster uuid.UUID
	if raw := c.Query("poster"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fields.Add("poster", "must be a valid id")
		}
		poster = id
	}
	f := lifecycle.JobFilter{
		Query:    c.Query("q"),
		Category: c.Query("cat"),
		MinPay:   queryFloat(c, "min", fields),
		MaxPay:   queryFloat(c, "max", fields),
		PosterID: poster,
		Limit:    c.QueryInt("limit", 20),
	}
	if len(fields) > 0 {
		return lifecycle.InvalidInput("invalid filter", fields)
	}

	page, err := h.Jobs.BrowseJobs(c.UserContext(), f, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", page)
}

func (h *JobHandler) GetDetail(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	job, err := h.Jobs.GetJob(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"job":          job,
		"requirements": job.RequirementList(),
	})
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var in lifecycle.JobInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	job, err := h.Jobs.CreateJob(c.UserContext(), session(c), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "job posted", job)
}

func (h *JobHandler) Complete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	job, err := h.Jobs.CompleteJob(c.UserContext(), session(c), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "job marked as completed", job)
}

// ListMine is the poster dashboard: own jobs with their applications.
func (h *JobHandler) ListMine(c *fiber.Ctx) error {
	jobs, err := h.Jobs.PosterDashboard(c.UserContext(), session(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", jobs)
}
