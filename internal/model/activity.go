package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity event types as stored.
const (
	EventPropertyView     = "property_view"
	EventClick            = "click"
	EventPageView         = "page_view"
	EventSearch           = "search"
	EventSearchQuery      = "search_query"
	EventOfferSubmission  = "offer_submission"
	EventEmailInteraction = "email_interaction"
	EventSessionStart     = "session_start"
)

// BuyerActivity is one tracked event of a buyer on the public site.
type BuyerActivity struct {
	ID         string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	BuyerID    string         `gorm:"type:varchar(36);index;not null" json:"buyerId"`
	EventType  string         `gorm:"index;not null" json:"eventType"`
	Page       *string        `json:"page,omitempty"`
	PropertyID *string        `json:"propertyId,omitempty"`
	EventData  datatypes.JSON `json:"eventData,omitempty"`
	IPAddress  *string        `json:"ipAddress,omitempty"`
	UserAgent  *string        `json:"userAgent,omitempty"`
	Timestamp  time.Time      `gorm:"index" json:"timestamp"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// BeforeCreate assigns an id and timestamp when none are set.
func (a *BuyerActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	return nil
}

// All lists every entity in creation order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Property{},
		&Buyer{},
		&Offer{},
		&EmailList{},
		&EmailListMembership{},
		&BuyerActivity{},
	}
}
