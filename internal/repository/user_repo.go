package repository

import (
	"context"

	"gorm.io/gorm"

	"landivo/internal/model"
)

// UserFilter narrows a user listing. Nil fields match everything.
type UserFilter struct {
	Role     *string
	IsActive *bool
}

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return wrap(r.DB.WithContext(ctx).Create(u).Error, "create user")
}

func (r *UserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "get user")
	}
	return &u, nil
}

// List returns users matching f, newest first.
func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]model.User, error) {
	q := r.DB.WithContext(ctx)
	if f.Role != nil {
		q = q.Where("role = ?", *f.Role)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	var out []model.User
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, wrap(err, "list users")
	}
	return out, nil
}

// SetActive enables or disables a user.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return wrap(res.Error, "set user status")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
