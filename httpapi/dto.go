package httpapi

import "review-sentiment/models"

// ReviewDTO is the wire form of a scored review
type ReviewDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Title     string  `json:"title,omitempty"`
	Review    string  `json:"review"`
	Stars     int     `json:"stars"`
	Sentiment float64 `json:"sentiment"`
	Date      string  `json:"date"`
	Version   string  `json:"version"`
	Reply     string  `json:"reply"`
}

// ReviewsResponse is the body of the review endpoints
type ReviewsResponse struct {
	Reviews    []ReviewDTO        `json:"reviews"`
	Statistics *models.Statistics `json:"statistics,omitempty"`
}

// SentimentsRequest is the body of POST /sentiments
type SentimentsRequest struct {
	Documents []string `json:"documents"`
}

// SentimentsResponse holds one result per submitted document, in order
type SentimentsResponse struct {
	Results []models.DocumentSentiment `json:"results"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string `json:"message"`
}

func toReviewDTO(r models.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		Name:      r.DisplayAuthor(),
		Title:     r.Title,
		Review:    r.Body,
		Stars:     r.StarRating,
		Sentiment: r.SentimentScore(),
		Date:      r.Date,
		Version:   r.Version,
		Reply:     r.Reply,
	}
}

func toReviewsResponse(report *models.ReviewReport) ReviewsResponse {
	reviews := make([]ReviewDTO, 0, len(report.Reviews))
	for _, r := range report.Reviews {
		reviews = append(reviews, toReviewDTO(r))
	}
	return ReviewsResponse{Reviews: reviews, Statistics: report.Statistics}
}
