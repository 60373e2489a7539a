// Package service holds the business rules of the buyer back office.
package service

import (
	"gorm.io/gorm"

	"landivo/internal/logging"
	"landivo/internal/mail"
	"landivo/internal/repository"
)

// Services bundles every service over one database.
type Services struct {
	Buyers   *BuyerService
	VIP      *VipListService
	Lists    *EmailListService
	Users    *UserService
	Activity *ActivityService
}

func New(db *gorm.DB, m mail.Mailer, log logging.Logger) *Services {
	buyers := repository.NewBuyerRepository(db)
	offers := repository.NewOfferRepository(db)
	lists := repository.NewEmailListRepository(db)
	users := repository.NewUserRepository(db)
	properties := repository.NewPropertyRepository(db)
	events := repository.NewActivityRepository(db)

	vip := NewVipListService(lists, log)
	return &Services{
		Buyers:   NewBuyerService(buyers, offers, lists, vip, m, log),
		VIP:      vip,
		Lists:    NewEmailListService(lists, buyers, log),
		Users:    NewUserService(users, properties, log),
		Activity: NewActivityService(buyers, offers, properties, events, log),
	}
}
