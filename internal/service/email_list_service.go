package service

import (
	"context"
	"strings"

	"gorm.io/datatypes"

	"landivo/internal/apperr"
	"landivo/internal/logging"
	"landivo/internal/model"
	"landivo/internal/repository"
)

// EmailListInput is a list create or update request.
type EmailListInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Criteria    *model.ListCriteria `json:"criteria"`
	BuyerIDs    []string            `json:"buyerIds"`
}

// MembershipChange reports the effect of adding or removing members.
type MembershipChange struct {
	ListID  string   `json:"listId"`
	Changed int64    `json:"changed"`
	Ignored []string `json:"ignored"`
}

type EmailListService struct {
	Lists  *repository.EmailListRepository
	Buyers *repository.BuyerRepository
	log    logging.Logger
}

func NewEmailListService(lr *repository.EmailListRepository, br *repository.BuyerRepository, log logging.Logger) *EmailListService {
	return &EmailListService{Lists: lr, Buyers: br, log: log}
}

func (s *EmailListService) Create(ctx context.Context, in EmailListInput) (*model.EmailList, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("List name is required")
	}
	if err := s.checkName(ctx, name, ""); err != nil {
		return nil, err
	}

	known, ignored, err := s.splitBuyers(ctx, in.BuyerIDs)
	if err != nil {
		return nil, apperr.Internal("An error occurred while creating the email list", err)
	}
	l := &model.EmailList{Name: name, Description: model.StringPtr(in.Description)}
	if in.Criteria != nil {
		l.Criteria = datatypes.NewJSONType(*in.Criteria)
	}
	for _, id := range known {
		l.Memberships = append(l.Memberships, model.EmailListMembership{BuyerID: id})
	}
	if err := s.Lists.Create(ctx, l); err != nil {
		if repository.IsDuplicate(err) {
			return nil, s.nameConflict(ctx, name)
		}
		return nil, apperr.Internal("An error occurred while creating the email list", err)
	}
	if len(ignored) > 0 {
		s.log.Warning("unknown buyers ignored", "list", l.ID, "count", len(ignored))
	}
	s.log.Info("email list created", "list", l.ID, "members", len(known))
	return s.Get(ctx, l.ID)
}

func (s *EmailListService) List(ctx context.Context) ([]repository.ListWithCount, error) {
	lists, err := s.Lists.List(ctx)
	if err != nil {
		return nil, apperr.Internal("An error occurred while fetching email lists", err)
	}
	return lists, nil
}

// Get returns the list with its member buyers.
func (s *EmailListService) Get(ctx context.Context, id string) (*model.EmailList, error) {
	l, err := s.Lists.GetWithMembers(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Email list not found", "An error occurred while fetching the email list")
	}
	return l, nil
}

// Update rewrites name and description, and criteria when given.
func (s *EmailListService) Update(ctx context.Context, id string, in EmailListInput) (*model.EmailList, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("List name is required")
	}
	l, err := s.Lists.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Email list not found", "An error occurred while updating the email list")
	}
	if name != l.Name {
		if err := s.checkName(ctx, name, id); err != nil {
			return nil, err
		}
	}

	l.Name = name
	l.Description = model.StringPtr(in.Description)
	if in.Criteria != nil {
		l.Criteria = datatypes.NewJSONType(*in.Criteria)
	}
	if err := s.Lists.Update(ctx, l); err != nil {
		if repository.IsDuplicate(err) {
			return nil, s.nameConflict(ctx, name)
		}
		return nil, notFoundOr(err, "Email list not found", "An error occurred while updating the email list")
	}
	return s.Get(ctx, id)
}

// Delete removes the list and its memberships. Buyers are kept.
func (s *EmailListService) Delete(ctx context.Context, id string) error {
	if err := s.Lists.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Email list not found", "An error occurred while deleting the email list")
	}
	s.log.Info("email list deleted", "list", id)
	return nil
}

// AddMembers links buyers to the list. Existing members and unknown buyers
// are left alone; unknown ids are reported as ignored.
func (s *EmailListService) AddMembers(ctx context.Context, id string, buyerIDs []string) (*MembershipChange, error) {
	if len(buyerIDs) == 0 {
		return nil, apperr.Validation("At least one buyer ID is required")
	}
	if _, err := s.Lists.Get(ctx, id); err != nil {
		return nil, notFoundOr(err, "Email list not found", "An error occurred while adding members")
	}
	known, ignored, err := s.splitBuyers(ctx, buyerIDs)
	if err != nil {
		return nil, apperr.Internal("An error occurred while adding members", err)
	}
	n, err := s.Lists.AddMembers(ctx, id, known)
	if err != nil {
		return nil, apperr.Internal("An error occurred while adding members", err)
	}
	return &MembershipChange{ListID: id, Changed: n, Ignored: ignored}, nil
}

// RemoveMembers unlinks buyers from the list.
func (s *EmailListService) RemoveMembers(ctx context.Context, id string, buyerIDs []string) (*MembershipChange, error) {
	if len(buyerIDs) == 0 {
		return nil, apperr.Validation("At least one buyer ID is required")
	}
	if _, err := s.Lists.Get(ctx, id); err != nil {
		return nil, notFoundOr(err, "Email list not found", "An error occurred while removing members")
	}
	known, ignored, err := s.splitBuyers(ctx, buyerIDs)
	if err != nil {
		return nil, apperr.Internal("An error occurred while removing members", err)
	}
	n, err := s.Lists.RemoveMembers(ctx, id, known)
	if err != nil {
		return nil, apperr.Internal("An error occurred while removing members", err)
	}
	return &MembershipChange{ListID: id, Changed: n, Ignored: ignored}, nil
}

func (s *EmailListService) checkName(ctx context.Context, name, exceptID string) error {
	taken, err := s.Lists.NameTaken(ctx, name, exceptID)
	if err != nil {
		return apperr.Internal("An error occurred while checking the list name", err)
	}
	if !taken {
		return nil
	}
	return s.nameConflict(ctx, name)
}

func (s *EmailListService) nameConflict(ctx context.Context, name string) error {
	const msg = "An email list with this name already exists"
	existing, err := s.Lists.GetByName(ctx, name)
	if err != nil {
		return apperr.Conflict(msg, nil)
	}
	return apperr.Conflict(msg, existing)
}

// splitBuyers separates ids of existing buyers from unknown ones, dropping
// duplicates.
func (s *EmailListService) splitBuyers(ctx context.Context, ids []string) (known, ignored []string, err error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	existing, err := s.Buyers.ExistingIDs(ctx, unique)
	if err != nil {
		return nil, nil, err
	}
	found := make(map[string]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}
	ignored = []string{}
	for _, id := range unique {
		if found[id] {
			known = append(known, id)
		} else {
			ignored = append(ignored, id)
		}
	}
	return known, ignored, nil
}
