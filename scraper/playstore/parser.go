package playstore

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"review-sentiment/models"
	"review-sentiment/utils"
)

// Review card selectors of the Play Store reviews dialog
const (
	cardSelector    = "div.RHo1pe"
	headerSelector  = "header[data-review-id]"
	authorSelector  = "div.X5PpBb"
	ratingSelector  = "div.iXRFPc"
	dateSelector    = "span.bp9Aid"
	bodySelector    = "div.h3YV2d"
	replySelector   = "div.ras4vb"
	reviewIDAttr    = "data-review-id"
	ratingLabelAttr = "aria-label"
)

var firstNumber = regexp.MustCompile(`\d+`)

// ParseReviews extracts review cards from the rendered reviews dialog, in document order.
// Cards repeated by the infinite scroll are dropped.
func ParseReviews(html string) ([]models.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("playstore: parse html: %w", err)
	}

	tracker := utils.NewIDTracker()
	var records []models.RawRecord
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		id, _ := card.Find(headerSelector).Attr(reviewIDAttr)
		if !tracker.Add(id) {
			return
		}

		rec := models.RawRecord{}
		setText(rec, "id", id)
		setText(rec, "userName", card.Find(authorSelector).First().Text())
		setText(rec, "date", card.Find(dateSelector).First().Text())
		setText(rec, "text", card.Find(bodySelector).First().Text())
		setText(rec, "replyText", card.Find(replySelector).First().Text())

		if label, ok := card.Find(ratingSelector).First().Attr(ratingLabelAttr); ok {
			if n, err := strconv.Atoi(firstNumber.FindString(label)); err == nil {
				rec["score"] = n
			}
		}
		records = append(records, rec)
	})
	return records, nil
}

// Window returns the records of a 1-based page of perPage cards
func Window(records []models.RawRecord, page, perPage int) []models.RawRecord {
	start := (page - 1) * perPage
	if page < 1 || perPage < 1 || start >= len(records) {
		return []models.RawRecord{}
	}
	end := start + perPage
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

func setText(rec models.RawRecord, key, v string) {
	if v = strings.TrimSpace(v); v != "" {
		rec[key] = v
	}
}
