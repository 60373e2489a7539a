package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OfferHistoryEntry records one status or price change of an offer.
type OfferHistoryEntry struct {
	Timestamp      *time.Time `json:"timestamp,omitempty"`
	PreviousStatus string     `json:"previousStatus,omitempty"`
	NewStatus      string     `json:"newStatus,omitempty"`
	PreviousPrice  *float64   `json:"previousPrice,omitempty"`
	NewPrice       *float64   `json:"newPrice,omitempty"`
	CounteredPrice *float64   `json:"counteredPrice,omitempty"`
	BuyerMessage   string     `json:"buyerMessage,omitempty"`
	SysMessage     string     `json:"sysMessage,omitempty"`
	UpdatedByName  string     `json:"updatedByName,omitempty"`
}

// Offer is a buyer's offer on a property. Offers are owned by their buyer.
type Offer struct {
	ID             string                                 `gorm:"primaryKey;type:varchar(36)" json:"id"`
	BuyerID        string                                 `gorm:"type:varchar(36);index;not null" json:"buyerId"`
	PropertyID     string                                 `gorm:"type:varchar(36);index;not null" json:"propertyId"`
	OfferedPrice   float64                                `gorm:"not null" json:"offeredPrice"`
	CounteredPrice *float64                               `json:"counteredPrice,omitempty"`
	OfferStatus    string                                 `gorm:"not null;default:'PENDING'" json:"offerStatus"`
	BuyerMessage   *string                                `json:"buyerMessage,omitempty"`
	SysMessage     *string                                `json:"sysMessage,omitempty"`
	OfferHistory   datatypes.JSONSlice[OfferHistoryEntry] `json:"offerHistory,omitempty"`
	Timestamp      time.Time                              `gorm:"index" json:"timestamp"`
	CreatedAt      time.Time                              `json:"createdAt"`
	UpdatedAt      time.Time                              `json:"updatedAt"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

// BeforeCreate assigns an id and a timestamp when none are set.
func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}
	if o.OfferStatus == "" {
		o.OfferStatus = OfferStatusPending
	}
	return nil
}
