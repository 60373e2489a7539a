package repository

import (
	"context"

	"gorm.io/gorm"

	"landivo/internal/model"
)

type PropertyRepository struct {
	DB *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{DB: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *model.Property) error {
	return wrap(r.DB.WithContext(ctx).Omit("Owner").Create(p).Error, "create property")
}

func (r *PropertyRepository) Get(ctx context.Context, id string) (*model.Property, error) {
	var p model.Property
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "get property")
	}
	return &p, nil
}

// CountByOwner returns how many properties a user owns.
func (r *PropertyRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.Property{}).Where("owner_id = ?", ownerID).Count(&n).Error; err != nil {
		return 0, wrap(err, "count properties")
	}
	return n, nil
}

// Reassign moves every property owned by from to to.
func (r *PropertyRepository) Reassign(ctx context.Context, from, to string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Property{}).Where("owner_id = ?", from).Update("owner_id", to)
	if res.Error != nil {
		return 0, wrap(res.Error, "reassign properties")
	}
	return res.RowsAffected, nil
}
