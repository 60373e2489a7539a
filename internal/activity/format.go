// Package activity shapes raw buyer activity and offer records for display.
// Formatters never fail: malformed input is logged and yields an empty or
// defaulted result.
package activity

import (
	"fmt"
	"time"

	"landivo/internal/logging"
)

// Display defaults.
const (
	UnknownProperty   = "Unknown Property"
	AddressNotAvail   = "Address not available"
	UnknownElement    = "Unknown element"
	UnknownPage       = "Unknown page"
	UnknownSearch     = "Unknown search"
	UnknownDevice     = "Unknown device"
	DefaultDuration   = 60
	DefaultEmailTitle = "Email from Landivo"
	DefaultUpdater    = "System"
)

type PropertyView struct {
	PropertyID      *string `json:"propertyId"`
	PropertyTitle   string  `json:"propertyTitle"`
	PropertyAddress string  `json:"propertyAddress"`
	PropertyCity    *string `json:"propertyCity,omitempty"`
	PropertyState   *string `json:"propertyState,omitempty"`
	PropertyZip     *string `json:"propertyZip,omitempty"`
	Timestamp       string  `json:"timestamp"`
	Duration        float64 `json:"duration"`
	Details         string  `json:"details"`
}

type ClickEvent struct {
	Element   string `json:"element"`
	Page      string `json:"page"`
	Timestamp string `json:"timestamp,omitempty"`
}

type PageVisit struct {
	URL       string  `json:"url"`
	Timestamp string  `json:"timestamp,omitempty"`
	Duration  float64 `json:"duration"`
}

type Search struct {
	Query      string  `json:"query"`
	Timestamp  string  `json:"timestamp,omitempty"`
	Results    float64 `json:"results"`
	SearchType string  `json:"searchType"`
	Context    string  `json:"context"`
	Area       any     `json:"area"`
	Filters    any     `json:"filters"`
}

type OfferSummary struct {
	ID              any    `json:"id"`
	PropertyID      any    `json:"propertyId"`
	PropertyTitle   string `json:"propertyTitle"`
	PropertyAddress string `json:"propertyAddress"`
	Amount          any    `json:"amount"`
	CounteredPrice  any    `json:"counteredPrice"`
	Status          string `json:"status"`
	Timestamp       any    `json:"timestamp"`
	BuyerMessage    any    `json:"buyerMessage"`
	SysMessage      any    `json:"sysMessage"`
	OfferHistory    any    `json:"offerHistory"`
}

type EmailClick struct {
	URL       any `json:"url"`
	Timestamp any `json:"timestamp"`
}

type EmailInteraction struct {
	EmailID       string       `json:"emailId"`
	Subject       string       `json:"subject"`
	Opened        bool         `json:"opened"`
	OpenTimestamp string       `json:"openTimestamp,omitempty"`
	Clicks        []EmailClick `json:"clicks"`
}

type Session struct {
	LoginTime  string  `json:"loginTime"`
	LogoutTime *string `json:"logoutTime"`
	Device     string  `json:"device"`
	IPAddress  string  `json:"ipAddress"`
}

// Formatter turns decoded JSON records into display structures.
type Formatter struct {
	log logging.Logger
	now func() time.Time
}

func NewFormatter(log logging.Logger) *Formatter {
	return &Formatter{log: log, now: time.Now}
}

func (f *Formatter) nowISO() string {
	return f.now().UTC().Format(time.RFC3339Nano)
}

// records returns the usable elements of raw, which should be an array.
func (f *Formatter) records(kind string, raw any) []record {
	items, ok := raw.([]any)
	if !ok {
		f.log.Warning("invalid activity data", "kind", kind, "type", fmt.Sprintf("%T", raw))
		return nil
	}
	out := make([]record, 0, len(items))
	for i, item := range items {
		r, ok := newRecord(item)
		if !ok {
			f.log.Warning("skipping malformed activity record", "kind", kind, "index", i)
			continue
		}
		out = append(out, r)
	}
	return out
}

func (f *Formatter) PropertyViews(raw any) []PropertyView {
	recs := f.records("propertyViews", raw)
	out := make([]PropertyView, 0, len(recs))
	for _, r := range recs {
		out = append(out, PropertyView{
			PropertyID:      optStr(r.get("propertyId")),
			PropertyTitle:   str(r.get("propertyTitle"), UnknownProperty),
			PropertyAddress: str(r.get("propertyAddress"), AddressNotAvail),
			PropertyCity:    optStr(r.get("propertyCity")),
			PropertyState:   optStr(r.get("propertyState")),
			PropertyZip:     optStr(r.get("propertyZip")),
			Timestamp:       str(r.top["timestamp"], f.nowISO()),
			Duration:        num(r.get("duration"), DefaultDuration),
			Details:         str(r.get("details"), "Viewed property details"),
		})
	}
	return out
}

func (f *Formatter) ClickEvents(raw any) []ClickEvent {
	recs := f.records("clickEvents", raw)
	out := make([]ClickEvent, 0, len(recs))
	for _, r := range recs {
		out = append(out, ClickEvent{
			Element:   str(r.first("elementType", "element"), UnknownElement),
			Page:      str(r.first("path", "page"), UnknownPage),
			Timestamp: str(r.top["timestamp"], ""),
		})
	}
	return out
}

func (f *Formatter) PageVisits(raw any) []PageVisit {
	recs := f.records("pageVisits", raw)
	out := make([]PageVisit, 0, len(recs))
	for _, r := range recs {
		out = append(out, PageVisit{
			URL:       str(r.first("path", "url", "page"), UnknownPage),
			Timestamp: str(r.top["timestamp"], ""),
			Duration:  num(r.get("duration"), DefaultDuration),
		})
	}
	return out
}

func (f *Formatter) SearchHistory(raw any) []Search {
	recs := f.records("searchHistory", raw)
	out := make([]Search, 0, len(recs))
	for _, r := range recs {
		filters := r.get("filters")
		if filters == nil {
			filters = map[string]any{}
		}
		out = append(out, Search{
			Query:      str(r.get("query"), UnknownSearch),
			Timestamp:  str(r.top["timestamp"], ""),
			Results:    num(r.get("resultsCount"), 0),
			SearchType: str(r.get("searchType"), "standard"),
			Context:    str(r.get("context"), ""),
			Area:       r.get("area"),
			Filters:    filters,
		})
	}
	return out
}

// OfferHistory flattens offers, each optionally carrying its property.
func (f *Formatter) OfferHistory(raw any) []OfferSummary {
	recs := f.records("offerHistory", raw)
	out := make([]OfferSummary, 0, len(recs))
	for _, r := range recs {
		property, _ := r.top["property"].(map[string]any)
		history := r.top["offerHistory"]
		if history == nil {
			history = []any{}
		}
		out = append(out, OfferSummary{
			ID:              r.top["id"],
			PropertyID:      r.top["propertyId"],
			PropertyTitle:   str(property["title"], UnknownProperty),
			PropertyAddress: formatAddress(str(property["streetAddress"], ""), str(property["city"], ""), str(property["state"], "")),
			Amount:          r.top["offeredPrice"],
			CounteredPrice:  r.top["counteredPrice"],
			Status:          str(r.first("offerStatus", "status"), "PENDING"),
			Timestamp:       r.top["timestamp"],
			BuyerMessage:    r.top["buyerMessage"],
			SysMessage:      r.top["sysMessage"],
			OfferHistory:    history,
		})
	}
	return out
}

func (f *Formatter) EmailInteractions(raw any) []EmailInteraction {
	recs := f.records("emailInteractions", raw)
	out := make([]EmailInteraction, 0, len(recs))
	for _, r := range recs {
		opened := true
		if v, ok := r.data["opened"].(bool); ok {
			opened = v
		}
		clicks := []EmailClick{}
		if list, ok := r.data["clicks"].([]any); ok {
			for _, c := range list {
				m, _ := c.(map[string]any)
				clicks = append(clicks, EmailClick{URL: m["url"], Timestamp: m["timestamp"]})
			}
		}
		out = append(out, EmailInteraction{
			EmailID:       str(r.top["id"], fmt.Sprintf("email-%d", f.now().UnixMilli())),
			Subject:       str(r.get("subject"), DefaultEmailTitle),
			Opened:        opened,
			OpenTimestamp: str(r.top["timestamp"], ""),
			Clicks:        clicks,
		})
	}
	return out
}

func (f *Formatter) SessionHistory(raw any) []Session {
	recs := f.records("sessionHistory", raw)
	out := make([]Session, 0, len(recs))
	for _, r := range recs {
		login := str(r.first("loginTime", "timestamp"), "")
		if login != "" && !validTime(login) {
			f.log.Warning("invalid login time", "value", login)
			login = ""
		}
		if login == "" {
			login = f.nowISO()
		}

		var logout *string
		if s := str(r.get("logoutTime"), ""); s != "" {
			if validTime(s) {
				logout = &s
			} else {
				f.log.Warning("invalid logout time", "value", s)
			}
		}

		out = append(out, Session{
			LoginTime:  login,
			LogoutTime: logout,
			Device:     str(r.first("device", "userAgent"), UnknownDevice),
			IPAddress:  str(r.get("ipAddress"), "Unknown"),
		})
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func validTime(s string) bool {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func formatAddress(street, city, state string) string {
	if street == "" {
		return AddressNotAvail
	}
	return fmt.Sprintf("%s, %s, %s", street, city, state)
}
