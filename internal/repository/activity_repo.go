package repository

import (
	"context"

	"gorm.io/gorm"

	"landivo/internal/model"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// Record stores a batch of events.
func (r *ActivityRepository) Record(ctx context.Context, events []model.BuyerActivity) error {
	if len(events) == 0 {
		return nil
	}
	return wrap(r.DB.WithContext(ctx).Create(&events).Error, "record activity")
}

// ListByBuyer returns a buyer's events, newest first. An empty eventType
// matches every type; a non-positive limit means no limit.
func (r *ActivityRepository) ListByBuyer(ctx context.Context, buyerID, eventType string, limit, offset int) ([]model.BuyerActivity, error) {
	q := r.DB.WithContext(ctx).Where("buyer_id = ?", buyerID)
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var out []model.BuyerActivity
	if err := q.Order("timestamp DESC").Find(&out).Error; err != nil {
		return nil, wrap(err, "list activity")
	}
	return out, nil
}
