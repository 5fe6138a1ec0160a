package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

type ReviewHandler struct {
	Jobs *lifecycle.Service
}

func NewReviewHandler(jobs *lifecycle.Service) *ReviewHandler {
	return &ReviewHandler{Jobs: jobs}
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	reviews, summary, err := h.Jobs.ListReviews(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"reviews": reviews,
		"rating":  summary,
	})
}

type createReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req createReviewReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	review, err := h.Jobs.SubmitReview(c.UserContext(), session(c), id, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, "review submitted", review)
}
