package appstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"review-sentiment/models"
)

// ErrMissingFeed means the response carried no feed object at all
var ErrMissingFeed = errors.New("appstore: response has no feed")

// decodeJSON extracts feed.entry, which the feed renders as an object when there is a single review
func decodeJSON(body []byte) ([]models.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("appstore: decode json: %w", err)
	}

	feed, ok := doc["feed"].(map[string]any)
	if !ok {
		return nil, ErrMissingFeed
	}

	switch entry := feed["entry"].(type) {
	case nil:
		return []models.RawRecord{}, nil
	case map[string]any:
		return []models.RawRecord{entry}, nil
	case []any:
		records := make([]models.RawRecord, 0, len(entry))
		for i, e := range entry {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("appstore: entry %d is %T, want object", i, e)
			}
			records = append(records, m)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("appstore: feed.entry is %T, want object or array", entry)
	}
}

// decodeXML parses the Atom feed and rebuilds the label-wrapped shape of the JSON feed
func decodeXML(body []byte) ([]models.RawRecord, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("appstore: parse xml feed: %w", err)
	}

	records := make([]models.RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		rec := models.RawRecord{}
		setLabel(rec, "id", item.GUID)
		setLabel(rec, "title", item.Title)
		content := item.Content
		if content == "" {
			content = item.Description
		}
		setLabel(rec, "content", content)
		setLabel(rec, "updated", item.Updated)
		if item.Author != nil && item.Author.Name != "" {
			rec["author"] = map[string]any{"name": label(item.Author.Name)}
		}
		setLabel(rec, "im:rating", imValue(item.Extensions, "rating"))
		setLabel(rec, "im:version", imValue(item.Extensions, "version"))
		records = append(records, rec)
	}
	return records, nil
}

func label(v string) map[string]any {
	return map[string]any{"label": v}
}

func setLabel(rec models.RawRecord, key, v string) {
	if v != "" {
		rec[key] = label(v)
	}
}

func imValue(exts ext.Extensions, name string) string {
	if exts == nil {
		return ""
	}
	values := exts["im"][name]
	if len(values) == 0 {
		return ""
	}
	return values[0].Value
}
