package service

import (
	"context"
	"strings"

	"gorm.io/datatypes"

	"landivo/internal/apperr"
	"landivo/internal/logging"
	"landivo/internal/mail"
	"landivo/internal/model"
	"landivo/internal/repository"
)

// BuyerInput is the writable part of a buyer.
type BuyerInput struct {
	Email                 string   `json:"email"`
	Phone                 string   `json:"phone"`
	FirstName             string   `json:"firstName"`
	LastName              string   `json:"lastName"`
	BuyerType             string   `json:"buyerType"`
	Source                string   `json:"source"`
	PreferredAreas        []string `json:"preferredAreas"`
	EmailStatus           string   `json:"emailStatus"`
	EmailPermissionStatus string   `json:"emailPermissionStatus"`
	EmailLists            []string `json:"emailLists"`
	Auth0ID               string   `json:"auth0Id"`
}

// AreaBuyers is the result of a by-area query.
type AreaBuyers struct {
	AreaID string        `json:"areaId"`
	Count  int           `json:"count"`
	Buyers []model.Buyer `json:"buyers"`
}

type BuyerService struct {
	Buyers *repository.BuyerRepository
	Offers *repository.OfferRepository
	Lists  *repository.EmailListRepository
	VIP    *VipListService
	Mailer mail.Mailer
	log    logging.Logger
}

func NewBuyerService(br *repository.BuyerRepository, or *repository.OfferRepository, lr *repository.EmailListRepository, vip *VipListService, m mail.Mailer, log logging.Logger) *BuyerService {
	return &BuyerService{Buyers: br, Offers: or, Lists: lr, VIP: vip, Mailer: m, log: log}
}

// Create adds a buyer. A buyer already holding the email or phone is
// returned inside the conflict error rather than duplicated.
func (s *BuyerService) Create(ctx context.Context, in BuyerInput) (*model.Buyer, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Email == "" || in.Phone == "" || strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, apperr.Validation("Email, phone, firstName, and lastName are required.")
	}
	buyerType, areas, err := canonicalize(in.BuyerType, in.PreferredAreas, nil)
	if err != nil {
		return nil, err
	}

	existing, err := s.Buyers.FindByEmailOrPhone(ctx, in.Email, in.Phone)
	switch {
	case err == nil:
		return nil, apperr.Conflict("A buyer with this email or phone number already exists.", existing)
	case !repository.IsNotFound(err):
		return nil, apperr.Internal("An error occurred while processing the request.", err)
	}

	lists, err := s.Lists.FindByNames(ctx, in.EmailLists)
	if err != nil {
		return nil, apperr.Internal("An error occurred while processing the request.", err)
	}
	memberships := make([]model.EmailListMembership, 0, len(lists))
	for _, l := range lists {
		memberships = append(memberships, model.EmailListMembership{EmailListID: l.ID})
	}

	source := in.Source
	if strings.TrimSpace(source) == "" {
		source = model.SourceManualEntry
	}
	emailStatus := in.EmailStatus
	if emailStatus == "" {
		emailStatus = model.EmailStatusAvailable
	}

	b := &model.Buyer{
		Email:                 in.Email,
		Phone:                 &in.Phone,
		FirstName:             model.StringPtr(in.FirstName),
		LastName:              model.StringPtr(in.LastName),
		BuyerType:             buyerType,
		Source:                &source,
		PreferredAreas:        areas,
		EmailStatus:           &emailStatus,
		EmailPermissionStatus: model.StringPtr(in.EmailPermissionStatus),
		Auth0ID:               model.StringPtr(in.Auth0ID),
		EmailListMemberships:  memberships,
	}
	if err := s.Buyers.Create(ctx, b); err != nil {
		if repository.IsDuplicate(err) {
			return nil, s.duplicateConflict(ctx, in.Email, in.Phone)
		}
		return nil, apperr.Internal("An error occurred while processing the request.", err)
	}
	s.log.Info("buyer created", "buyer", b.ID, "lists", len(memberships))

	created, err := s.Buyers.GetWithRelations(ctx, b.ID)
	if err != nil {
		return nil, apperr.Internal("An error occurred while processing the request.", err)
	}
	return created, nil
}

// Update replaces every writable field of buyer id. Fields missing from in
// are cleared.
func (s *BuyerService) Update(ctx context.Context, id string, in BuyerInput) (*model.Buyer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("Buyer ID is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, apperr.Validation("Email is required")
	}

	current, err := s.Buyers.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Buyer not found", "An error occurred while updating the buyer")
	}
	buyerType, areas, err := canonicalize(in.BuyerType, in.PreferredAreas, current)
	if err != nil {
		return nil, err
	}

	email := model.NormalizeEmail(in.Email)
	if email != current.Email {
		taken, err := s.Buyers.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, apperr.Internal("An error occurred while updating the buyer", err)
		}
		if taken {
			return nil, apperr.Conflict("Email already in use by another buyer", nil)
		}
	}

	phone := strings.TrimSpace(in.Phone)
	if phone != "" && phone != model.Deref(current.Phone) {
		taken, err := s.Buyers.PhoneTaken(ctx, phone, id)
		if err != nil {
			return nil, apperr.Internal("An error occurred while updating the buyer", err)
		}
		if taken {
			return nil, apperr.Conflict("Phone number already in use by another buyer", nil)
		}
	}

	replacement := &model.Buyer{
		ID:             id,
		Email:          email,
		Phone:          model.StringPtr(phone),
		FirstName:      model.StringPtr(in.FirstName),
		LastName:       model.StringPtr(in.LastName),
		BuyerType:      buyerType,
		Source:         model.StringPtr(in.Source),
		PreferredAreas: areas,
	}
	if err := s.Buyers.Replace(ctx, replacement); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("Email or phone number already in use by another buyer", nil)
		}
		return nil, notFoundOr(err, "Buyer not found", "An error occurred while updating the buyer")
	}

	updated, err := s.Buyers.GetWithRelations(ctx, id)
	if err != nil {
		return nil, apperr.Internal("An error occurred while updating the buyer", err)
	}
	return updated, nil
}

// Delete removes a buyer's offers and then the buyer, as two steps.
// It returns the deleted buyer.
func (s *BuyerService) Delete(ctx context.Context, id string) (*model.Buyer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("Buyer ID is required")
	}
	b, err := s.Buyers.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Buyer not found", "An error occurred while deleting the buyer")
	}

	n, err := s.Offers.DeleteByBuyer(ctx, id)
	if err != nil {
		return nil, apperr.Internal("An error occurred while deleting the buyer", err)
	}
	if err := s.Buyers.Delete(ctx, id); err != nil {
		s.log.Error("buyer delete failed after removing offers", "buyer", id, "offers", n, "error", err.Error())
		return nil, notFoundOr(err, "Buyer not found", "An error occurred while deleting the buyer")
	}
	s.log.Info("buyer deleted", "buyer", id, "offers", n)
	return b, nil
}

// List returns every buyer newest first with offers and memberships.
func (s *BuyerService) List(ctx context.Context) ([]model.Buyer, error) {
	buyers, err := s.Buyers.List(ctx)
	if err != nil {
		return nil, apperr.Internal("An error occurred while fetching buyers", err)
	}
	return buyers, nil
}

func (s *BuyerService) Get(ctx context.Context, id string) (*model.Buyer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("Buyer ID is required")
	}
	b, err := s.Buyers.GetWithRelations(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Buyer not found", "An error occurred while fetching the buyer")
	}
	return b, nil
}

func (s *BuyerService) GetByAuth0ID(ctx context.Context, auth0ID string) (*model.Buyer, error) {
	if strings.TrimSpace(auth0ID) == "" {
		return nil, apperr.Validation("Auth0 ID is required")
	}
	b, err := s.Buyers.GetByAuth0ID(ctx, auth0ID)
	if err != nil {
		return nil, notFoundOr(err, "Buyer not found", "An error occurred while fetching buyer information")
	}
	return b, nil
}

// ByArea returns the buyers preferring areaID, newest first.
func (s *BuyerService) ByArea(ctx context.Context, areaID string) (*AreaBuyers, error) {
	if strings.TrimSpace(areaID) == "" {
		return nil, apperr.Validation("Area ID is required")
	}
	all, err := s.Buyers.ListPlain(ctx)
	if err != nil {
		return nil, apperr.Internal("An error occurred while fetching buyers by area", err)
	}
	out := &AreaBuyers{AreaID: areaID, Buyers: []model.Buyer{}}
	for _, b := range all {
		if b.HasArea(areaID) {
			out.Buyers = append(out.Buyers, b)
		}
	}
	out.Count = len(out.Buyers)
	return out, nil
}

// duplicateConflict builds the conflict for an insert that lost a race on
// the unique email or phone index.
func (s *BuyerService) duplicateConflict(ctx context.Context, email, phone string) error {
	const msg = "A buyer with this email or phone number already exists."
	existing, err := s.Buyers.FindByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return apperr.Conflict(msg, nil)
	}
	return apperr.Conflict(msg, existing)
}

// canonicalize checks a buyer type and areas against the fixed
// enumerations. A blank type is nil, missing areas are empty and repeated
// areas are dropped. Unknown values already stored on current, such as
// those kept by an import, are accepted unchanged.
func canonicalize(buyerType string, areas []string, current *model.Buyer) (*string, datatypes.JSONSlice[string], error) {
	var bt *string
	if strings.TrimSpace(buyerType) != "" {
		id, ok := model.CanonicalBuyerType(buyerType)
		if !ok {
			if current == nil || id != model.Deref(current.BuyerType) {
				return nil, nil, apperr.Validation("Unknown buyer type: " + buyerType)
			}
		}
		bt = &id
	}
	out := datatypes.JSONSlice[string]{}
	seen := make(map[string]bool, len(areas))
	for _, a := range areas {
		id, ok := model.CanonicalArea(a)
		if !ok && (current == nil || !current.HasArea(id)) {
			return nil, nil, apperr.Validation("Unknown area: " + a)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return bt, out, nil
}

// notFoundOr maps a missing row to NotFound(notFound) and anything else to
// Internal(internal).
func notFoundOr(err error, notFound, internal string) error {
	if repository.IsNotFound(err) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal(internal, err)
}
