package repository

import (
	"context"

	"gorm.io/gorm"

	"landivo/internal/model"
)

type OfferRepository struct {
	DB *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{DB: db}
}

func (r *OfferRepository) Create(ctx context.Context, o *model.Offer) error {
	return wrap(r.DB.WithContext(ctx).Omit("Property").Create(o).Error, "create offer")
}

// ListByBuyer returns a buyer's offers, newest first.
func (r *OfferRepository) ListByBuyer(ctx context.Context, buyerID string) ([]model.Offer, error) {
	var out []model.Offer
	err := r.DB.WithContext(ctx).Where("buyer_id = ?", buyerID).Order("timestamp DESC").Find(&out).Error
	if err != nil {
		return nil, wrap(err, "list offers")
	}
	return out, nil
}

// DeleteByBuyer removes every offer of a buyer and returns how many went.
func (r *OfferRepository) DeleteByBuyer(ctx context.Context, buyerID string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("buyer_id = ?", buyerID).Delete(&model.Offer{})
	if res.Error != nil {
		return 0, wrap(res.Error, "delete offers")
	}
	return res.RowsAffected, nil
}

func (r *OfferRepository) CountByBuyer(ctx context.Context, buyerID string) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.Offer{}).Where("buyer_id = ?", buyerID).Count(&n).Error; err != nil {
		return 0, wrap(err, "count offers")
	}
	return n, nil
}

// ListByBuyerWithProperty is ListByBuyer with each offer's property loaded.
func (r *OfferRepository) ListByBuyerWithProperty(ctx context.Context, buyerID string) ([]model.Offer, error) {
	var out []model.Offer
	err := r.DB.WithContext(ctx).Preload("Property").Where("buyer_id = ?", buyerID).Order("timestamp DESC").Find(&out).Error
	if err != nil {
		return nil, wrap(err, "list offers")
	}
	return out, nil
}
