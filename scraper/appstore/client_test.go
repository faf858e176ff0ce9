package appstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-sentiment/utils"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const twoEntries = `{"feed":{"author":{"name":{"label":"iTunes Store"}},"entry":[
 {"id":{"label":"101"},"author":{"name":{"label":"Anna"}},"title":{"label":"Great"},"content":{"label":"Love it"},"im:rating":{"label":"5"},"im:version":{"label":"2.1"}},
 {"id":{"label":"102"},"author":{"name":{"label":"Bob"}},"title":{"label":"Meh"},"content":{"label":"Crashes"},"im:rating":{"label":"2"},"im:version":{"label":"2.0"}}
]}}`

const singleEntry = `{"feed":{"entry":{"id":{"label":"201"},"content":{"label":"Only one"},"im:rating":{"label":"4"}}}}`

const xmlFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns:im="http://itunes.apple.com/rss" xmlns="http://www.w3.org/2005/Atom" xml:lang="en">
  <id>https://itunes.apple.com/nl/rss/customerreviews/page=1/id=123/sortby=mostrecent/xml</id>
  <title>iTunes Store: Customer Reviews</title>
  <updated>2024-05-01T10:00:00-07:00</updated>
  <entry>
    <updated>2024-04-30T09:00:00-07:00</updated>
    <id>301</id>
    <title>Fantastic</title>
    <content type="text">Works great</content>
    <im:rating>5</im:rating>
    <im:version>3.4</im:version>
    <author><name>Carla</name><uri>https://itunes.apple.com/nl/reviews/id1</uri></author>
  </entry>
</feed>`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	utils.BackoffUnit = time.Millisecond
	return NewClient(testLogger(), append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

func TestFetchPage_JSON(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(twoEntries))
	})

	records, err := c.FetchPage(context.Background(), "NL", "123", 2)
	require.NoError(t, err)

	assert.Equal(t, "/nl/rss/customerreviews/page=2/id=123/sortby=mostrecent/json", gotPath)
	require.Len(t, records, 2)
	assert.Equal(t, map[string]any{"label": "101"}, records[0]["id"])
	assert.Equal(t, map[string]any{"label": "Crashes"}, records[1]["content"])
}

func TestFetchPage_SingleEntryObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(singleEntry))
	})

	records, err := c.FetchPage(context.Background(), "us", "123", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, map[string]any{"label": "201"}, records[0]["id"])
}

func TestFetchPage_NoEntries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"feed":{"author":{"name":{"label":"iTunes Store"}}}}`))
	})

	records, err := c.FetchPage(context.Background(), "us", "123", 1)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchPage_MissingFeed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errorMessage":"unknown app"}`))
	})

	_, err := c.FetchPage(context.Background(), "us", "123", 1)
	assert.ErrorIs(t, err, ErrMissingFeed)
}

func TestFetchPage_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.FetchPage(context.Background(), "us", "123", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode json")
}

func TestFetchPage_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(singleEntry))
	}, WithMaxRetries(3))

	records, err := c.FetchPage(context.Background(), "us", "123", 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchPage_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, WithMaxRetries(3))

	_, err := c.FetchPage(context.Background(), "us", "123", 1)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchPage_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithMaxRetries(1))

	for i := 0; i < 5; i++ {
		_, err := c.FetchPage(context.Background(), "us", "123", 1)
		require.Error(t, err)
	}
	_, err := c.FetchPage(context.Background(), "us", "123", 1)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), calls.Load())
}

func TestFetchPage_UnknownAppDoesNotOpenBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "id=999") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(twoEntries))
	}, WithMaxRetries(1))

	for i := 0; i < 6; i++ {
		_, err := c.FetchPage(context.Background(), "nl", "999", 1)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.Code)
	}

	records, err := c.FetchPage(context.Background(), "nl", "123", 1)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFetchPage_CancelledCallersDoNotOpenBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "id=999") {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		_, _ = w.Write([]byte(twoEntries))
	}, WithMaxRetries(1))

	for i := 0; i < 6; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err := c.FetchPage(ctx, "nl", "999", 1)
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}

	records, err := c.FetchPage(context.Background(), "nl", "123", 1)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestBreakerSuccess(t *testing.T) {
	assert.True(t, breakerSuccess(nil))
	assert.True(t, breakerSuccess(&StatusError{Code: http.StatusNotFound}))
	assert.True(t, breakerSuccess(fmt.Errorf("retry aborted: %w", context.Canceled)))
	assert.False(t, breakerSuccess(&StatusError{Code: http.StatusBadGateway}))
	assert.False(t, breakerSuccess(errors.New("connection reset")))
}

func TestFetchPage_XML(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(xmlFeed))
	}, WithFormat(FormatXML))

	records, err := c.FetchPage(context.Background(), "nl", "123", 1)
	require.NoError(t, err)

	assert.Equal(t, "/nl/rss/customerreviews/page=1/id=123/sortby=mostrecent/xml", gotPath)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, map[string]any{"label": "301"}, rec["id"])
	assert.Equal(t, map[string]any{"label": "Fantastic"}, rec["title"])
	assert.Equal(t, map[string]any{"label": "Works great"}, rec["content"])
	assert.Equal(t, map[string]any{"label": "5"}, rec["im:rating"])
	assert.Equal(t, map[string]any{"label": "3.4"}, rec["im:version"])
	assert.Equal(t, map[string]any{"name": map[string]any{"label": "Carla"}}, rec["author"])
}

func TestPageFunc(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(twoEntries))
	})

	fetch := c.PageFunc("be", "42")
	records, err := fetch(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "/be/rss/customerreviews/page=3/id=42/sortby=mostrecent/json", gotPath)
}
