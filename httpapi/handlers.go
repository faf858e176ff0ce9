package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"review-sentiment/models"
	"review-sentiment/services"
)

// ReviewAnalyzer is the part of services.ReviewService the handlers use
type ReviewAnalyzer interface {
	Reviews(ctx context.Context, q models.ReviewQuery) (*models.ReviewReport, error)
	ScoreDocuments(documents []string) ([]models.DocumentSentiment, error)
}

// Handler serves the review and sentiment endpoints
type Handler struct {
	svc ReviewAnalyzer
}

// NewHandler creates a new Handler
func NewHandler(svc ReviewAnalyzer) *Handler {
	return &Handler{svc: svc}
}

// AppleReviews handles GET /apple/reviews
func (h *Handler) AppleReviews(c echo.Context) error {
	return h.reviews(c, models.ProviderAppStore)
}

// GoogleReviews handles GET /google/reviews
func (h *Handler) GoogleReviews(c echo.Context) error {
	return h.reviews(c, models.ProviderPlayStore)
}

func (h *Handler) reviews(c echo.Context, provider models.Provider) error {
	q, err := services.ValidateQuery(services.QueryParams{
		Provider:   string(provider),
		Country:    c.QueryParam("country"),
		AppID:      c.QueryParam("appID"),
		Pages:      c.QueryParam("pages"),
		Statistics: c.QueryParam("statistics"),
	})
	if err != nil {
		return err
	}

	report, err := h.svc.Reviews(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewsResponse(report))
}

// Sentiments handles POST /sentiments
func (h *Handler) Sentiments(c echo.Context) error {
	var req SentimentsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	results, err := h.svc.ScoreDocuments(req.Documents)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SentimentsResponse{Results: results})
}

// Health handles GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
