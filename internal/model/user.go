package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an administrative account. Users are disabled, never deleted.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Auth0ID   *string   `gorm:"uniqueIndex" json:"auth0Id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	Role      string    `gorm:"not null;default:'USER'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an id and default role when none are set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}
