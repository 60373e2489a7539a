package database

import (
	"time"

	"gorm.io/gorm"

	"landivo/internal/model"
	"landivo/migration"
)

// Schema migrations, in version order.
var schema = []*migration.Migration{
	{
		Version: "20250301000001",
		Name:    "create_users_and_properties",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.User{}, &model.Property{})
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&model.Property{}, &model.User{})
		},
	},
	{
		Version: "20250301000002",
		Name:    "create_buyers_and_offers",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.Buyer{}, &model.Offer{})
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&model.Offer{}, &model.Buyer{})
		},
	},
	{
		Version: "20250301000003",
		Name:    "create_email_lists",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.EmailList{}, &model.EmailListMembership{})
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&model.EmailListMembership{}, &model.EmailList{})
		},
	},
	{
		Version: "20250301000004",
		Name:    "create_buyer_activities",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.BuyerActivity{})
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&model.BuyerActivity{})
		},
	},
}

func init() {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, m := range schema {
		m.CreatedAt = created
		migration.RegisterMigration(m)
	}
}

// Migrate applies every pending schema migration.
func Migrate(db *gorm.DB) ([]*migration.Migration, error) {
	return migration.NewMigrator(db).Up()
}
