package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"landivo/internal/model"
)

// Columns written by a full replace of a buyer.
var replaceColumns = []string{
	"first_name", "last_name", "email", "phone", "buyer_type", "source", "preferred_areas", "updated_at",
}

type BuyerRepository struct {
	DB *gorm.DB
}

func NewBuyerRepository(db *gorm.DB) *BuyerRepository {
	return &BuyerRepository{DB: db}
}

// withRelations preloads offers (newest first) and list memberships.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Offers", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "buyer_id", "property_id", "offered_price", "timestamp").Order("timestamp DESC")
		}).
		Preload("EmailListMemberships.EmailList", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "description")
		})
}

// Create inserts b together with any memberships it carries.
func (r *BuyerRepository) Create(ctx context.Context, b *model.Buyer) error {
	return wrap(r.DB.WithContext(ctx).Create(b).Error, "create buyer")
}

// Get returns the buyer with id.
func (r *BuyerRepository) Get(ctx context.Context, id string) (*model.Buyer, error) {
	var b model.Buyer
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "get buyer")
	}
	return &b, nil
}

// GetWithRelations returns the buyer with id, its offers and memberships.
func (r *BuyerRepository) GetWithRelations(ctx context.Context, id string) (*model.Buyer, error) {
	var b model.Buyer
	if err := withRelations(r.DB.WithContext(ctx)).First(&b, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "get buyer")
	}
	return &b, nil
}

// GetByAuth0ID returns the buyer linked to an external identity.
func (r *BuyerRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*model.Buyer, error) {
	var b model.Buyer
	if err := r.DB.WithContext(ctx).Where("auth0_id = ?", auth0ID).First(&b).Error; err != nil {
		return nil, wrap(err, "get buyer by auth0 id")
	}
	return &b, nil
}

// FindByEmailOrPhone returns the first buyer matching the normalized email
// or, when phone is non-empty, the phone.
func (r *BuyerRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*model.Buyer, error) {
	q := r.DB.WithContext(ctx).Where("email = ?", model.NormalizeEmail(email))
	if phone != "" {
		q = q.Or("phone = ?", phone)
	}
	var b model.Buyer
	if err := q.Order("created_at ASC").First(&b).Error; err != nil {
		return nil, wrap(err, "find buyer by email or phone")
	}
	return &b, nil
}

// EmailTaken reports whether another buyer than exceptID uses email.
func (r *BuyerRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	return r.taken(ctx, "email", model.NormalizeEmail(email), exceptID)
}

// PhoneTaken reports whether another buyer than exceptID uses phone.
func (r *BuyerRepository) PhoneTaken(ctx context.Context, phone, exceptID string) (bool, error) {
	return r.taken(ctx, "phone", phone, exceptID)
}

func (r *BuyerRepository) taken(ctx context.Context, column, value, exceptID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Buyer{}).
		Where(column+" = ? AND id <> ?", value, exceptID).
		Count(&n).Error
	if err != nil {
		return false, wrap(err, "check buyer "+column)
	}
	return n > 0, nil
}

// List returns every buyer newest first with offers and memberships.
func (r *BuyerRepository) List(ctx context.Context) ([]model.Buyer, error) {
	var out []model.Buyer
	if err := withRelations(r.DB.WithContext(ctx)).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, wrap(err, "list buyers")
	}
	return out, nil
}

// ListPlain returns every buyer newest first without relations.
func (r *BuyerRepository) ListPlain(ctx context.Context) ([]model.Buyer, error) {
	var out []model.Buyer
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, wrap(err, "list buyers")
	}
	return out, nil
}

// ListByIDs returns the buyers among ids, skipping unsubscribed ones unless
// includeUnsubscribed is set.
func (r *BuyerRepository) ListByIDs(ctx context.Context, ids []string, includeUnsubscribed bool) ([]model.Buyer, error) {
	q := r.DB.WithContext(ctx).Where("id IN ?", ids)
	if !includeUnsubscribed {
		q = q.Where("unsubscribed = ?", false)
	}
	var out []model.Buyer
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, wrap(err, "list buyers by id")
	}
	return out, nil
}

// ExistingIDs returns the subset of ids that belong to a buyer.
func (r *BuyerRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	var out []string
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.DB.WithContext(ctx).Model(&model.Buyer{}).Where("id IN ?", ids).Pluck("id", &out).Error; err != nil {
		return nil, wrap(err, "list buyer ids")
	}
	return out, nil
}

// Replace overwrites every replaceable column of b, nulls included.
func (r *BuyerRepository) Replace(ctx context.Context, b *model.Buyer) error {
	res := r.DB.WithContext(ctx).Model(b).Omit(clause.Associations).Select(replaceColumns).Updates(b)
	if res.Error != nil {
		return wrap(res.Error, "replace buyer")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateFields sets only the given columns of buyer id.
func (r *BuyerRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.DB.WithContext(ctx).Model(&model.Buyer{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return wrap(res.Error, "update buyer")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the buyer and its list memberships in one transaction.
// Offers must already be gone.
func (r *BuyerRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("buyer_id = ?", id).Delete(&model.EmailListMembership{}).Error; err != nil {
			return wrap(err, "delete buyer memberships")
		}
		res := tx.Where("id = ?", id).Delete(&model.Buyer{})
		if res.Error != nil {
			return wrap(res.Error, "delete buyer")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
