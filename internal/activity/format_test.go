package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"landivo/internal/model"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestFormatter(t *testing.T) *Formatter {
	f := NewFormatter((*logging.TestLogger)(t))
	f.now = func() time.Time { return fixedNow }
	return f
}

func TestFormattersRejectNonArrays(t *testing.T) {
	f := newTestFormatter(t)
	for _, raw := range []any{nil, "views", 42.0, map[string]any{"a": 1.0}} {
		assert.Empty(t, f.PropertyViews(raw))
		assert.Empty(t, f.ClickEvents(raw))
		assert.Empty(t, f.PageVisits(raw))
		assert.Empty(t, f.SearchHistory(raw))
		assert.Empty(t, f.OfferHistory(raw))
		assert.Empty(t, f.EmailInteractions(raw))
		assert.Empty(t, f.SessionHistory(raw))
	}
	assert.NotNil(t, f.PropertyViews(nil))
}

func TestPropertyViews(t *testing.T) {
	f := newTestFormatter(t)
	got := f.PropertyViews([]any{
		map[string]any{
			"propertyId": "p1",
			"timestamp":  "2025-02-01T10:00:00Z",
			"eventData": map[string]any{
				"propertyTitle":   "Lot 7",
				"propertyAddress": "1 Main St",
				"propertyCity":    "Austin",
				"duration":        120.0,
			},
		},
		map[string]any{"propertyTitle": "Flat", "duration": 0.0},
		"not a record",
	})
	require.Len(t, got, 2)

	assert.Equal(t, "p1", *got[0].PropertyID)
	assert.Equal(t, "Lot 7", got[0].PropertyTitle)
	assert.Equal(t, "Austin", *got[0].PropertyCity)
	assert.Equal(t, 120.0, got[0].Duration)
	assert.Equal(t, "Viewed property details", got[0].Details)

	assert.Nil(t, got[1].PropertyID)
	assert.Equal(t, "Flat", got[1].PropertyTitle)
	assert.Equal(t, "Address not available", got[1].PropertyAddress)
	assert.Equal(t, 60.0, got[1].Duration)
	assert.Equal(t, fixedNow.Format(time.RFC3339Nano), got[1].Timestamp)
}

func TestClickEventsAndPageVisits(t *testing.T) {
	f := newTestFormatter(t)
	clicks := f.ClickEvents([]any{
		map[string]any{"page": "/home", "eventData": map[string]any{"elementType": "button"}},
		map[string]any{},
	})
	require.Len(t, clicks, 2)
	assert.Equal(t, ClickEvent{Element: "button", Page: "/home"}, clicks[0])
	assert.Equal(t, ClickEvent{Element: UnknownElement, Page: UnknownPage}, clicks[1])

	visits := f.PageVisits([]any{
		map[string]any{"page": "/properties", "timestamp": "t1"},
		map[string]any{"eventData": map[string]any{"path": "/about", "duration": 5.0}},
	})
	require.Len(t, visits, 2)
	assert.Equal(t, PageVisit{URL: "/properties", Timestamp: "t1", Duration: 60}, visits[0])
	assert.Equal(t, PageVisit{URL: "/about", Duration: 5}, visits[1])
}

func TestSearchHistory(t *testing.T) {
	f := newTestFormatter(t)
	got := f.SearchHistory([]any{
		map[string]any{"eventData": map[string]any{"query": "lots in austin", "resultsCount": 4.0, "area": "Austin"}},
		map[string]any{},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "lots in austin", got[0].Query)
	assert.Equal(t, 4.0, got[0].Results)
	assert.Equal(t, "Austin", got[0].Area)
	assert.Equal(t, "Unknown search", got[1].Query)
	assert.Equal(t, "standard", got[1].SearchType)
	assert.Nil(t, got[1].Area)
	assert.Equal(t, map[string]any{}, got[1].Filters)
}

func TestOfferHistorySummary(t *testing.T) {
	f := newTestFormatter(t)
	got := f.OfferHistory([]any{
		map[string]any{
			"id":           "o1",
			"offeredPrice": 1000.0,
			"offerStatus":  "ACCEPTED",
			"property":     map[string]any{"title": "Lot 7", "streetAddress": "1 Main St", "city": "Austin", "state": "TX"},
		},
		map[string]any{"id": "o2"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "Lot 7", got[0].PropertyTitle)
	assert.Equal(t, "1 Main St, Austin, TX", got[0].PropertyAddress)
	assert.Equal(t, "ACCEPTED", got[0].Status)
	assert.Equal(t, 1000.0, got[0].Amount)

	assert.Equal(t, "Unknown Property", got[1].PropertyTitle)
	assert.Equal(t, "Address not available", got[1].PropertyAddress)
	assert.Equal(t, "PENDING", got[1].Status)
	assert.Equal(t, []any{}, got[1].OfferHistory)
}

func TestEmailInteractions(t *testing.T) {
	f := newTestFormatter(t)
	got := f.EmailInteractions([]any{
		map[string]any{
			"id":        "e1",
			"timestamp": "t1",
			"eventData": map[string]any{
				"subject": "New lots",
				"opened":  false,
				"clicks":  []any{map[string]any{"url": "https://landivo.com/p/1", "timestamp": "t2"}},
			},
		},
		map[string]any{},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].EmailID)
	assert.False(t, got[0].Opened)
	require.Len(t, got[0].Clicks, 1)
	assert.Equal(t, "https://landivo.com/p/1", got[0].Clicks[0].URL)

	assert.Equal(t, DefaultEmailTitle, got[1].Subject)
	assert.True(t, got[1].Opened)
	assert.Equal(t, "email-1740830400000", got[1].EmailID)
	assert.Empty(t, got[1].Clicks)
}

func TestSessionHistory(t *testing.T) {
	f := newTestFormatter(t)
	got := f.SessionHistory([]any{
		map[string]any{"loginTime": "2025-02-01T10:00:00Z", "logoutTime": "garbage", "userAgent": "Firefox", "ipAddress": "10.0.0.1"},
		map[string]any{"loginTime": "yesterday", "eventData": map[string]any{"device": "iPhone"}},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "2025-02-01T10:00:00Z", got[0].LoginTime)
	assert.Nil(t, got[0].LogoutTime)
	assert.Equal(t, "Firefox", got[0].Device)
	assert.Equal(t, "10.0.0.1", got[0].IPAddress)

	assert.Equal(t, fixedNow.Format(time.RFC3339Nano), got[1].LoginTime)
	assert.Equal(t, "iPhone", got[1].Device)
	assert.Equal(t, "Unknown", got[1].IPAddress)
}

func TestEnhancedOffers(t *testing.T) {
	f := newTestFormatter(t)
	older := fixedNow.Add(-time.Hour)
	counter := 900.0
	offers := []model.Offer{
		{ID: "o1", PropertyID: "missing", OfferedPrice: 1000, OfferStatus: "PENDING", Timestamp: older},
		{
			ID: "o2", PropertyID: "p2", OfferedPrice: 2000, OfferStatus: "COUNTERED", Timestamp: fixedNow,
			OfferHistory: datatypes.JSONSlice[model.OfferHistoryEntry]{
				{PreviousStatus: "PENDING", NewStatus: "COUNTERED", CounteredPrice: &counter, UpdatedByName: "Agent Smith"},
			},
		},
	}
	lookup := func(_ context.Context, id string) (*model.Property, error) {
		if id == "p2" {
			return &model.Property{ID: "p2", Title: "Lot 7", StreetAddress: "1 Main St", City: "Austin", State: "TX"}, nil
		}
		return nil, errors.New("not found")
	}

	got := f.EnhancedOffers(context.Background(), offers, lookup)
	require.Len(t, got, 2)

	assert.Equal(t, "o2", got[0].ID)
	assert.Equal(t, "Lot 7", got[0].PropertyTitle)
	assert.Equal(t, "1 Main St, Austin, TX", got[0].PropertyAddress)
	require.Len(t, got[0].History, 1)
	h := got[0].History[0]
	assert.Equal(t, "PENDING", *h.PreviousStatus)
	assert.Equal(t, "COUNTERED", h.NewStatus)
	assert.Equal(t, 2000.0, *h.NewPrice)
	assert.Equal(t, 900.0, *h.CounteredPrice)
	assert.Equal(t, "Agent Smith", h.UpdatedByName)
	assert.Equal(t, fixedNow, h.Timestamp)

	assert.Equal(t, "o1", got[1].ID)
	assert.Equal(t, "Unknown Property", got[1].PropertyTitle)
	assert.Equal(t, "Address not available", got[1].PropertyAddress)
	require.Len(t, got[1].History, 1)
	assert.Equal(t, "PENDING", got[1].History[0].NewStatus)
	assert.Equal(t, 1000.0, *got[1].History[0].NewPrice)
	assert.Equal(t, "System", got[1].History[0].UpdatedByName)
	assert.Nil(t, got[1].History[0].PreviousStatus)
}

func TestEnhancedOffersEmpty(t *testing.T) {
	f := newTestFormatter(t)
	got := f.EnhancedOffers(context.Background(), nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEventType(t *testing.T) {
	assert.Equal(t, "property_view", EventType(TypePropertyViews))
	assert.Equal(t, "session_start", EventType(TypeSessionHistory))
	assert.Equal(t, "custom", EventType("custom"))
}

func TestEngagementScore(t *testing.T) {
	s := &Summary{PropertyViews: make([]PropertyView, 3), OfferHistory: make([]OfferSummary, 1)}
	assert.Equal(t, 16, EngagementScore(s))
	s.OfferHistory = make([]OfferSummary, 20)
	assert.Equal(t, 100, EngagementScore(s))
}

func TestDecode(t *testing.T) {
	got, err := Decode([]model.BuyerActivity{{ID: "a1", EventType: model.EventClick}})
	require.NoError(t, err)
	items, ok := got.([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "click", items[0].(map[string]any)["eventType"])
}
