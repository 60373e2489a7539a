package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property is a listed property. Properties are owned by the user who created them.
type Property struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID       *string   `gorm:"type:varchar(36);index" json:"ownerId"`
	Title         string    `gorm:"not null" json:"title"`
	StreetAddress string    `json:"streetAddress"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Zip           string    `json:"zip"`
	Area          string    `gorm:"index" json:"area"`
	AskingPrice   float64   `json:"askingPrice"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

// BeforeCreate assigns an id when none is set.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
