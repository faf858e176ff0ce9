package models

// SentenceSentiment holds the scores of a single sentence
type SentenceSentiment struct {
	Text     string  `json:"text"`
	Compound float64 `json:"compound"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// DocumentSentiment aggregates sentence scores by arithmetic mean.
// All aggregates are zero when SentenceCount is zero.
type DocumentSentiment struct {
	Sentences     []SentenceSentiment `json:"sentiments"`
	SentenceCount int                 `json:"count"`
	Compound      float64             `json:"compound"`
	Negative      float64             `json:"negative"`
	Neutral       float64             `json:"neutral"`
	Positive      float64             `json:"positive"`
}
