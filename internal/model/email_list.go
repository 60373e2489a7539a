package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListCriteria describes which buyers a list is meant for. It is a hint for
// building lists by hand and is not re-evaluated when buyers change.
type ListCriteria struct {
	Areas      []string `json:"areas"`
	BuyerTypes []string `json:"buyerTypes"`
	IsVIP      bool     `json:"isVIP"`
}

// EmailList is a named marketing list.
type EmailList struct {
	ID          string                           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string                           `gorm:"uniqueIndex;not null" json:"name"`
	Description *string                          `json:"description"`
	Criteria    datatypes.JSONType[ListCriteria] `json:"criteria"`
	IsSystem    bool                             `gorm:"not null;default:false" json:"isSystem"`
	CreatedAt   time.Time                        `json:"createdAt"`
	UpdatedAt   time.Time                        `json:"updatedAt"`

	Memberships []EmailListMembership `gorm:"foreignKey:EmailListID;constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
}

// BeforeCreate assigns an id when none is set.
func (l *EmailList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// EmailListMembership joins a buyer to an email list.
type EmailListMembership struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	BuyerID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_membership_buyer_list" json:"buyerId"`
	EmailListID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_membership_buyer_list" json:"emailListId"`
	CreatedAt   time.Time `json:"createdAt"`

	EmailList *EmailList `gorm:"foreignKey:EmailListID" json:"emailList,omitempty"`
	Buyer     *Buyer     `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
}

// BeforeCreate assigns an id when none is set.
func (m *EmailListMembership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
