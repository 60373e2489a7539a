package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Buyer is a prospective property buyer.
type Buyer struct {
	ID                    string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email                 string                      `gorm:"uniqueIndex;not null" json:"email"`
	Phone                 *string                     `gorm:"uniqueIndex" json:"phone"`
	FirstName             *string                     `json:"firstName"`
	LastName              *string                     `json:"lastName"`
	BuyerType             *string                     `gorm:"index" json:"buyerType"`
	Source                *string                     `gorm:"index" json:"source"`
	PreferredAreas        datatypes.JSONSlice[string] `json:"preferredAreas"`
	EmailStatus           *string                     `json:"emailStatus"`
	EmailPermissionStatus *string                     `json:"emailPermissionStatus"`
	Unsubscribed          bool                        `gorm:"not null;default:false" json:"unsubscribed"`
	Auth0ID               *string                     `gorm:"index" json:"auth0Id"`
	CreatedAt             time.Time                   `json:"createdAt"`
	UpdatedAt             time.Time                   `json:"updatedAt"`

	Offers               []Offer               `gorm:"foreignKey:BuyerID" json:"offers,omitempty"`
	EmailListMemberships []EmailListMembership `gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE" json:"emailListMemberships,omitempty"`
}

// BeforeCreate assigns an id when none is set.
func (b *Buyer) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps the stored email lower-cased.
func (b *Buyer) BeforeSave(tx *gorm.DB) error {
	b.Email = NormalizeEmail(b.Email)
	return nil
}

// FullName returns the buyer's first and last name joined by a space.
func (b *Buyer) FullName() string {
	return strings.TrimSpace(Deref(b.FirstName) + " " + Deref(b.LastName))
}

// HasArea reports whether area is among the buyer's preferred areas.
func (b *Buyer) HasArea(area string) bool {
	for _, a := range b.PreferredAreas {
		if a == area {
			return true
		}
	}
	return false
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Deref returns the value s points to, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
