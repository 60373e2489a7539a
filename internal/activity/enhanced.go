package activity

import (
	"context"
	"sort"
	"time"

	"landivo/internal/batch"
	"landivo/internal/model"
)

// lookupLimit bounds concurrent property lookups for one buyer.
const lookupLimit = 8

// PropertyLookup fetches the property an offer refers to.
type PropertyLookup func(ctx context.Context, id string) (*model.Property, error)

type HistoryEntry struct {
	Timestamp      time.Time `json:"timestamp"`
	PreviousStatus *string   `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	PreviousPrice  *float64  `json:"previousPrice"`
	NewPrice       *float64  `json:"newPrice"`
	CounteredPrice *float64  `json:"counteredPrice"`
	BuyerMessage   *string   `json:"buyerMessage"`
	SysMessage     *string   `json:"sysMessage"`
	UpdatedByName  string    `json:"updatedByName"`
}

type EnhancedOffer struct {
	ID              string         `json:"id"`
	PropertyID      string         `json:"propertyId"`
	PropertyTitle   string         `json:"propertyTitle"`
	PropertyAddress string         `json:"propertyAddress"`
	Amount          float64        `json:"amount"`
	CounteredPrice  *float64       `json:"counteredPrice"`
	Status          string         `json:"status"`
	Timestamp       time.Time      `json:"timestamp"`
	BuyerMessage    *string        `json:"buyerMessage"`
	SysMessage      *string        `json:"sysMessage"`
	History         []HistoryEntry `json:"history"`
}

// EnhancedOffers resolves each offer's property concurrently, normalizes
// its status history and returns the offers newest first. A failed lookup
// only affects its own offer, which gets placeholder property details.
func (f *Formatter) EnhancedOffers(ctx context.Context, offers []model.Offer, lookup PropertyLookup) []EnhancedOffer {
	outcomes, err := batch.Concurrent(ctx, offers, lookupLimit, func(ctx context.Context, o model.Offer) (*model.Property, error) {
		return lookup(ctx, o.PropertyID)
	})
	if err != nil {
		f.log.Warning("property lookups interrupted", "error", err.Error())
	}

	out := make([]EnhancedOffer, 0, len(offers))
	for i, o := range offers {
		property := &model.Property{Title: UnknownProperty, StreetAddress: AddressNotAvail}
		if outcomes != nil && outcomes[i].OK() && outcomes[i].Value != nil {
			property = outcomes[i].Value
		} else {
			var reason string
			if outcomes != nil && outcomes[i].Err != nil {
				reason = outcomes[i].Err.Error()
			}
			f.log.Warning("could not fetch property for offer", "offer", o.ID, "property", o.PropertyID, "error", reason)
		}
		out = append(out, f.enhance(o, property))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func (f *Formatter) enhance(o model.Offer, p *model.Property) EnhancedOffer {
	status := o.OfferStatus
	if status == "" {
		status = model.OfferStatusPending
	}
	price := o.OfferedPrice

	entries := []model.OfferHistoryEntry(o.OfferHistory)
	if len(entries) == 0 {
		ts := o.Timestamp
		entries = []model.OfferHistoryEntry{{
			Timestamp:      &ts,
			NewStatus:      status,
			NewPrice:       &price,
			CounteredPrice: o.CounteredPrice,
			BuyerMessage:   model.Deref(o.BuyerMessage),
			SysMessage:     model.Deref(o.SysMessage),
		}}
	}

	history := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		h := HistoryEntry{
			Timestamp:      o.Timestamp,
			PreviousStatus: model.StringPtr(e.PreviousStatus),
			NewStatus:      e.NewStatus,
			PreviousPrice:  e.PreviousPrice,
			NewPrice:       e.NewPrice,
			CounteredPrice: e.CounteredPrice,
			BuyerMessage:   model.StringPtr(e.BuyerMessage),
			SysMessage:     model.StringPtr(e.SysMessage),
			UpdatedByName:  e.UpdatedByName,
		}
		if e.Timestamp != nil && !e.Timestamp.IsZero() {
			h.Timestamp = *e.Timestamp
		}
		if h.NewStatus == "" {
			h.NewStatus = status
		}
		if h.NewPrice == nil || *h.NewPrice == 0 {
			h.NewPrice = &price
		}
		if h.CounteredPrice == nil || *h.CounteredPrice == 0 {
			h.CounteredPrice = o.CounteredPrice
		}
		if h.BuyerMessage == nil {
			h.BuyerMessage = o.BuyerMessage
		}
		if h.SysMessage == nil {
			h.SysMessage = o.SysMessage
		}
		if h.UpdatedByName == "" {
			h.UpdatedByName = DefaultUpdater
		}
		history = append(history, h)
	}

	title := p.Title
	if title == "" {
		title = UnknownProperty
	}
	address := AddressNotAvail
	if p.StreetAddress != "" && p.StreetAddress != AddressNotAvail {
		address = formatAddress(p.StreetAddress, p.City, p.State)
	}

	return EnhancedOffer{
		ID:              o.ID,
		PropertyID:      o.PropertyID,
		PropertyTitle:   title,
		PropertyAddress: address,
		Amount:          o.OfferedPrice,
		CounteredPrice:  o.CounteredPrice,
		Status:          status,
		Timestamp:       o.Timestamp,
		BuyerMessage:    o.BuyerMessage,
		SysMessage:      o.SysMessage,
		History:         history,
	}
}
