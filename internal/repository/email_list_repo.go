package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"landivo/internal/model"
)

// ListWithCount is an email list and its number of members.
type ListWithCount struct {
	model.EmailList
	MemberCount int64 `json:"memberCount"`
}

type EmailListRepository struct {
	DB *gorm.DB
}

func NewEmailListRepository(db *gorm.DB) *EmailListRepository {
	return &EmailListRepository{DB: db}
}

// Create inserts l together with any memberships it carries.
func (r *EmailListRepository) Create(ctx context.Context, l *model.EmailList) error {
	return wrap(r.DB.WithContext(ctx).Create(l).Error, "create email list")
}

func (r *EmailListRepository) Get(ctx context.Context, id string) (*model.EmailList, error) {
	var l model.EmailList
	if err := r.DB.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "get email list")
	}
	return &l, nil
}

// GetWithMembers returns the list with id and its member buyers.
func (r *EmailListRepository) GetWithMembers(ctx context.Context, id string) (*model.EmailList, error) {
	var l model.EmailList
	err := r.DB.WithContext(ctx).
		Preload("Memberships", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Memberships.Buyer").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, wrap(err, "get email list")
	}
	return &l, nil
}

// GetByName returns the list called name.
func (r *EmailListRepository) GetByName(ctx context.Context, name string) (*model.EmailList, error) {
	var l model.EmailList
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&l).Error; err != nil {
		return nil, wrap(err, "get email list by name")
	}
	return &l, nil
}

// FindByNames returns the lists whose name is among names.
func (r *EmailListRepository) FindByNames(ctx context.Context, names []string) ([]model.EmailList, error) {
	var out []model.EmailList
	if len(names) == 0 {
		return out, nil
	}
	if err := r.DB.WithContext(ctx).Where("name IN ?", names).Find(&out).Error; err != nil {
		return nil, wrap(err, "find email lists")
	}
	return out, nil
}

// NameTaken reports whether a list other than exceptID is called name.
func (r *EmailListRepository) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.EmailList{}).Where("name = ? AND id <> ?", name, exceptID).Count(&n).Error
	if err != nil {
		return false, wrap(err, "check email list name")
	}
	return n > 0, nil
}

// List returns every list by name with its member count.
func (r *EmailListRepository) List(ctx context.Context) ([]ListWithCount, error) {
	var lists []model.EmailList
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&lists).Error; err != nil {
		return nil, wrap(err, "list email lists")
	}

	var counts []struct {
		EmailListID string
		N           int64
	}
	err := r.DB.WithContext(ctx).Model(&model.EmailListMembership{}).
		Select("email_list_id, count(*) AS n").
		Group("email_list_id").
		Scan(&counts).Error
	if err != nil {
		return nil, wrap(err, "count email list members")
	}
	byList := make(map[string]int64, len(counts))
	for _, c := range counts {
		byList[c.EmailListID] = c.N
	}

	out := make([]ListWithCount, 0, len(lists))
	for _, l := range lists {
		out = append(out, ListWithCount{EmailList: l, MemberCount: byList[l.ID]})
	}
	return out, nil
}

// Update writes the name, description and criteria of l.
func (r *EmailListRepository) Update(ctx context.Context, l *model.EmailList) error {
	res := r.DB.WithContext(ctx).Model(l).Omit(clause.Associations).
		Select("name", "description", "criteria", "updated_at").Updates(l)
	if res.Error != nil {
		return wrap(res.Error, "update email list")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the list and its memberships in one transaction.
func (r *EmailListRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email_list_id = ?", id).Delete(&model.EmailListMembership{}).Error; err != nil {
			return wrap(err, "delete email list memberships")
		}
		res := tx.Where("id = ?", id).Delete(&model.EmailList{})
		if res.Error != nil {
			return wrap(res.Error, "delete email list")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddMembers links buyerIDs to the list, skipping existing links, and
// returns how many were added.
func (r *EmailListRepository) AddMembers(ctx context.Context, listID string, buyerIDs []string) (int64, error) {
	if len(buyerIDs) == 0 {
		return 0, nil
	}
	rows := make([]model.EmailListMembership, 0, len(buyerIDs))
	for _, id := range buyerIDs {
		rows = append(rows, model.EmailListMembership{BuyerID: id, EmailListID: listID})
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "buyer_id"}, {Name: "email_list_id"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(&rows)
	if res.Error != nil {
		return 0, wrap(res.Error, "add email list members")
	}
	return res.RowsAffected, nil
}

// RemoveMembers unlinks buyerIDs from the list and returns how many went.
func (r *EmailListRepository) RemoveMembers(ctx context.Context, listID string, buyerIDs []string) (int64, error) {
	if len(buyerIDs) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).
		Where("email_list_id = ? AND buyer_id IN ?", listID, buyerIDs).
		Delete(&model.EmailListMembership{})
	if res.Error != nil {
		return 0, wrap(res.Error, "remove email list members")
	}
	return res.RowsAffected, nil
}

// IsMember reports whether the buyer belongs to the list.
func (r *EmailListRepository) IsMember(ctx context.Context, listID, buyerID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.EmailListMembership{}).
		Where("email_list_id = ? AND buyer_id = ?", listID, buyerID).
		Count(&n).Error
	if err != nil {
		return false, wrap(err, "check email list membership")
	}
	return n > 0, nil
}

// SystemMemberships returns the buyer's memberships in system lists, with
// the list loaded.
func (r *EmailListRepository) SystemMemberships(ctx context.Context, buyerID string) ([]model.EmailListMembership, error) {
	var out []model.EmailListMembership
	systemLists := r.DB.Model(&model.EmailList{}).Select("id").Where("is_system = ?", true)
	err := r.DB.WithContext(ctx).
		Preload("EmailList").
		Where("buyer_id = ? AND email_list_id IN (?)", buyerID, systemLists).
		Find(&out).Error
	if err != nil {
		return nil, wrap(err, "list system memberships")
	}
	return out, nil
}

// DeleteMembership removes one membership row.
func (r *EmailListRepository) DeleteMembership(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.EmailListMembership{})
	if res.Error != nil {
		return wrap(res.Error, "delete membership")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
