package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"example.com/assettrack/internal/cache"
	"example.com/assettrack/internal/domain"
	"example.com/assettrack/internal/source"
)

func newTestService(sources []source.Source, pageCache cache.Cache, ttl time.Duration) *Service {
	return NewService(sources, pageCache, Options{CacheTTL: ttl}, zerolog.Nop())
}

// decodedPage skips the activities payload: Details is an interface, so
// responses are inspected through their pagination envelope.
type decodedPage struct {
	Pagination domain.PaginationInfo `json:"pagination"`
}

func TestRepeatedRequestsWithinTTLAreByteIdentical(t *testing.T) {
	newest := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	move := &fakeSource{kind: domain.ActivityMove, records: makeRecords(domain.ActivityMove, 3, newest, time.Minute)}
	sources := []source.Source{move}
	svc := newTestService(sources, cache.NewMemory(), time.Minute)

	first, err := svc.GetActivities(context.Background(), nil, 1, 100)
	require.NoError(t, err)

	// A write lands between the two reads; the second must not see it.
	move.records = makeRecords(domain.ActivityMove, 4, newest.Add(time.Hour), time.Minute)

	second, err := svc.GetActivities(context.Background(), nil, 1, 100)
	require.NoError(t, err)
	require.True(t, bytes.Equal(first, second), "cached response must be byte-identical")

	var page decodedPage
	require.NoError(t, json.Unmarshal(second, &page))
	require.Equal(t, 3, page.Pagination.Total, "second response must reflect the cached snapshot")
}

func TestExpiredEntryRecomputes(t *testing.T) {
	newest := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	move := &fakeSource{kind: domain.ActivityMove, records: makeRecords(domain.ActivityMove, 3, newest, time.Minute)}
	svc := newTestService([]source.Source{move}, cache.NewMemory(), 5*time.Millisecond)

	_, err := svc.GetActivities(context.Background(), nil, 1, 100)
	require.NoError(t, err)

	move.records = makeRecords(domain.ActivityMove, 4, newest.Add(time.Hour), time.Minute)
	time.Sleep(20 * time.Millisecond)

	payload, err := svc.GetActivities(context.Background(), nil, 1, 100)
	require.NoError(t, err)

	var page decodedPage
	require.NoError(t, json.Unmarshal(payload, &page))
	require.Equal(t, 4, page.Pagination.Total, "post-expiry response must observe the new write")
}

func TestQueriesDifferingInPageAreCacheIndependent(t *testing.T) {
	newest := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	checkout := &fakeSource{kind: domain.ActivityCheckout, records: makeRecords(domain.ActivityCheckout, 250, newest, time.Minute)}
	svc := newTestService([]source.Source{checkout}, cache.NewMemory(), time.Minute)

	filter := domain.ActivityCheckout
	page1, err := svc.GetActivities(context.Background(), &filter, 1, 100)
	require.NoError(t, err)
	page2, err := svc.GetActivities(context.Background(), &filter, 2, 100)
	require.NoError(t, err)
	require.False(t, bytes.Equal(page1, page2))
}

func TestPageSizeIsClamped(t *testing.T) {
	newest := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	checkout := &fakeSource{kind: domain.ActivityCheckout, records: makeRecords(domain.ActivityCheckout, 10, newest, time.Minute)}
	svc := newTestService([]source.Source{checkout}, cache.Noop{}, time.Minute)

	filter := domain.ActivityCheckout

	payload, err := svc.GetActivities(context.Background(), &filter, 1, 7)
	require.NoError(t, err)
	var page decodedPage
	require.NoError(t, json.Unmarshal(payload, &page))
	require.Equal(t, 100, page.Pagination.PageSize, "page size below the minimum clamps up")

	payload, err = svc.GetActivities(context.Background(), &filter, 1, 9000)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &page))
	require.Equal(t, 500, page.Pagination.PageSize, "page size above the maximum clamps down")
}

func TestFailedQueryLeavesNoCacheEntry(t *testing.T) {
	boom := errors.New("boom")
	broken := &fakeSource{kind: domain.ActivityCheckout, countErr: boom}
	pageCache := cache.NewMemory()
	svc := newTestService([]source.Source{broken}, pageCache, time.Minute)

	filter := domain.ActivityCheckout
	_, err := svc.GetActivities(context.Background(), &filter, 1, 100)
	require.Error(t, err)

	_, found := pageCache.Get(context.Background(), cache.Key(&filter, 1, 100))
	require.False(t, found, "a failed query must not populate the cache")
}

func TestEmptyFeedSerializesEmptyArray(t *testing.T) {
	empty := &fakeSource{kind: domain.ActivityCheckout}
	svc := newTestService([]source.Source{empty}, cache.Noop{}, time.Minute)

	payload, err := svc.GetActivities(context.Background(), nil, 1, 100)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"activities":[]`)
}
