package lifecycle

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

const (
	MinRating = 1
	MaxRating = 5

	// NoRatings is shown in place of an average when there are no reviews.
	NoRatings = "N/A"

	maxCommentLen = 2000
)

type RatingSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Display string  `json:"display"`
}

// Summarize computes the mean rating, formatted to one decimal place with
// halves rounded up (4.25 shows as "4.3").
func Summarize(reviews []models.Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{Display: NoRatings}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return RatingSummary{
		Count:   len(reviews),
		Average: avg,
		Display: fmt.Sprintf("%.1f", math.Round(avg*10)/10),
	}
}

func (s *Service) SubmitReview(ctx context.Context, sess Session, revieweeID uuid.UUID, rating int, comment string) (review *models.Review, err error) {
	ctx, span := s.startSpan(ctx, "SubmitReview", sess)
	defer func() { endSpan(span, err) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if !CanReview(sess.AccountID, revieweeID) {
		return nil, Forbidden("you cannot review yourself")
	}

	comment = strings.TrimSpace(comment)
	fields := FieldErrors{}
	if rating < MinRating || rating > MaxRating {
		fields.Add("rating", fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	if comment == "" {
		fields.Add("comment", "please add a comment")
	} else if len(comment) > maxCommentLen {
		fields.Add("comment", fmt.Sprintf("comment must be at most %d characters", maxCommentLen))
	}
	if len(fields) > 0 {
		return nil, InvalidInput("invalid review", fields)
	}

	ok, err := s.store.AccountExists(ctx, revieweeID)
	if err != nil {
		return nil, s.storageErr("SubmitReview", err)
	}
	if !ok {
		return nil, NotFound("account not found", nil)
	}

	review = &models.Review{
		ReviewerID: sess.AccountID,
		RevieweeID: revieweeID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, s.storageErr("SubmitReview", err)
	}

	s.logger.Info("review recorded",
		zap.String("review_id", review.ID.String()),
		zap.String("reviewee_id", revieweeID.String()),
		zap.Int("rating", rating))
	s.notify(ctx, Change{Collection: CollectionReviews, Op: OpInsert, ID: review.ID})
	return review, nil
}

// ListReviews returns an account's reviews newest first and their summary.
func (s *Service) ListReviews(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, RatingSummary, error) {
	reviews, err := s.store.ListReviews(ctx, revieweeID)
	if err != nil {
		return nil, RatingSummary{}, s.storageErr("ListReviews", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, Summarize(reviews), nil
}
