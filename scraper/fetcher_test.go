package scraper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review-sentiment/metrics"
	"review-sentiment/models"
)

func pageRecords(page, n int) []models.RawRecord {
	out := make([]models.RawRecord, n)
	for i := range out {
		out[i] = models.RawRecord{"page": page, "idx": i}
	}
	return out
}

func TestFetchAll_ConcatenatesInPageOrder(t *testing.T) {
	fetch := func(ctx context.Context, page int) ([]models.RawRecord, error) {
		// later pages finish first
		time.Sleep(time.Duration(4-page) * 5 * time.Millisecond)
		return pageRecords(page, 2), nil
	}

	got, err := FetchAll(context.Background(), models.ProviderAppStore, 3, fetch)
	require.NoError(t, err)
	require.Len(t, got, 6)
	for i, rec := range got {
		assert.Equal(t, i/2+1, rec["page"])
		assert.Equal(t, i%2, rec["idx"])
	}
}

func TestFetchAll_EmptyPages(t *testing.T) {
	fetch := func(ctx context.Context, page int) ([]models.RawRecord, error) {
		if page == 2 {
			return nil, nil
		}
		return pageRecords(page, 1), nil
	}

	got, err := FetchAll(context.Background(), models.ProviderAppStore, 3, fetch)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFetchAll_FailFast(t *testing.T) {
	sentinel := errors.New("upstream 503")
	var cancelled atomic.Int32
	fetch := func(ctx context.Context, page int) ([]models.RawRecord, error) {
		if page == 2 {
			return nil, sentinel
		}
		select {
		case <-ctx.Done():
			cancelled.Add(1)
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return pageRecords(page, 1), nil
		}
	}

	start := time.Now()
	got, err := FetchAll(context.Background(), models.ProviderPlayStore, 4, fetch)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Less(t, time.Since(start), 2*time.Second)

	var fe *models.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Page)
	assert.Equal(t, models.ProviderPlayStore, fe.Provider)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, int32(3), cancelled.Load())
}

func TestFetchAll_KeepsProviderFetchError(t *testing.T) {
	inner := &models.FetchError{Provider: models.ProviderAppStore, Page: 1, Err: errors.New("missing feed")}
	fetch := func(ctx context.Context, page int) ([]models.RawRecord, error) {
		return nil, inner
	}

	_, err := FetchAll(context.Background(), models.ProviderAppStore, 1, fetch)
	assert.Same(t, inner, err)
}

func TestFetchAll_PagesOutOfRange(t *testing.T) {
	called := false
	fetch := func(ctx context.Context, page int) ([]models.RawRecord, error) {
		called = true
		return nil, nil
	}

	for _, n := range []int{0, -1, 11} {
		_, err := FetchAll(context.Background(), models.ProviderAppStore, n, fetch)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, models.PagesOutOfRange, ve.Kind)
	}
	assert.False(t, called)
}

func TestFetchAll_MaxPagesRunConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	fetch := func(ctx context.Context, page int) ([]models.RawRecord, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return pageRecords(page, 1), nil
	}

	got, err := FetchAll(context.Background(), models.ProviderAppStore, MaxPages, fetch)
	require.NoError(t, err)
	assert.Len(t, got, MaxPages)
	assert.Greater(t, peak.Load(), int32(1))
	assert.LessOrEqual(t, peak.Load(), int32(MaxPages))
}

func TestInstrument(t *testing.T) {
	m := metrics.NewPipelineMetrics(metrics.NewRegistry())
	fetch := Instrument(models.ProviderAppStore, m, func(ctx context.Context, page int) ([]models.RawRecord, error) {
		if page == 2 {
			return nil, errors.New("boom")
		}
		return pageRecords(page, 1), nil
	})

	_, _ = fetch(context.Background(), 1)
	_, _ = fetch(context.Background(), 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PagesFetched.WithLabelValues("appstore", metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PagesFetched.WithLabelValues("appstore", metrics.OutcomeError)))
}
