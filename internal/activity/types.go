package activity

import "landivo/internal/model"

// Activity categories as requested by clients.
const (
	TypePropertyViews     = "propertyViews"
	TypeClickEvents       = "clickEvents"
	TypePageVisits        = "pageVisits"
	TypeSearchHistory     = "searchHistory"
	TypeSearchQuery       = "searchQuery"
	TypeOfferHistory      = "offerHistory"
	TypeEmailInteractions = "emailInteractions"
	TypeSessionHistory    = "sessionHistory"
)

var eventTypes = map[string]string{
	TypePropertyViews:     model.EventPropertyView,
	TypeClickEvents:       model.EventClick,
	TypePageVisits:        model.EventPageView,
	TypeSearchHistory:     model.EventSearch,
	TypeSearchQuery:       model.EventSearchQuery,
	TypeOfferHistory:      model.EventOfferSubmission,
	TypeEmailInteractions: model.EventEmailInteraction,
	TypeSessionHistory:    model.EventSessionStart,
}

// EventType maps a client category to the stored event type. Unknown
// categories are passed through unchanged.
func EventType(category string) string {
	if t, ok := eventTypes[category]; ok {
		return t
	}
	return category
}

// Summary is the full activity picture of one buyer.
type Summary struct {
	BuyerID           string             `json:"buyerId"`
	BuyerName         string             `json:"buyerName"`
	PropertyViews     []PropertyView     `json:"propertyViews"`
	ClickEvents       []ClickEvent       `json:"clickEvents"`
	PageVisits        []PageVisit        `json:"pageVisits"`
	SearchHistory     []Search           `json:"searchHistory"`
	OfferHistory      []OfferSummary     `json:"offerHistory"`
	EmailInteractions []EmailInteraction `json:"emailInteractions"`
	SessionHistory    []Session          `json:"sessionHistory"`
	EngagementScore   int                `json:"engagementScore"`
	LastActive        string             `json:"lastActive"`
}

// EngagementScore weights a summary's activity on a 0 to 100 scale.
func EngagementScore(s *Summary) int {
	score := 2*len(s.PropertyViews) +
		len(s.ClickEvents) +
		len(s.PageVisits) +
		2*len(s.SearchHistory) +
		10*len(s.OfferHistory) +
		3*len(s.EmailInteractions) +
		len(s.SessionHistory)
	if score > 100 {
		return 100
	}
	return score
}
