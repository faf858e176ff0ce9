package models

import (
	"bytes"
	"encoding/json"
)

// WordCount is one entry of a word frequency summary
type WordCount struct {
	Word  string
	Count int
}

// WordFrequencies is ordered by descending frequency and marshals to an ordered JSON object
type WordFrequencies []WordCount

// MarshalJSON keeps the slice order, which a Go map would lose
func (w WordFrequencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, wc := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(wc.Word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(wc.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Statistics holds corpus-level analytics computed from a scored review batch
type Statistics struct {
	AverageRating       float64            `json:"averageRating"`
	AverageSentiment    float64            `json:"averageSentiment"`
	RatingDistribution  map[int]int        `json:"ratingDistribution"`
	RatingPerVersion    map[string]float64 `json:"ratingPerVersion"`
	SentimentPerVersion map[string]float64 `json:"sentimentPerVersion"`
	MostCommonWords     WordFrequencies    `json:"mostCommonWords"`
}
