package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"landivo/internal/apperr"
	"landivo/internal/batch"
	"landivo/internal/logging"
	"landivo/internal/model"
	"landivo/internal/repository"
)

const vipListPrefix = "VIP Buyers - "

// VipInput is a VIP registration.
type VipInput struct {
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	BuyerType      string   `json:"buyerType"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	PreferredAreas []string `json:"preferredAreas"`
	Auth0ID        string   `json:"auth0Id"`
}

// ListResult is the outcome of reconciling one area.
type ListResult struct {
	ListID   string `json:"listId"`
	ListName string `json:"listName"`
	Added    bool   `json:"added"`
}

// VipListService keeps a VIP buyer's system list memberships in line with
// the buyer's areas and type.
type VipListService struct {
	Lists *repository.EmailListRepository
	log   logging.Logger
}

func NewVipListService(lr *repository.EmailListRepository, log logging.Logger) *VipListService {
	return &VipListService{Lists: lr, log: log}
}

// VipListName is the name of the system list for an area and buyer type.
func VipListName(area, buyerType string) string {
	return vipListPrefix + area + " - " + buyerType
}

// Reconcile adds the buyer to the VIP list of each preferred area, one area
// at a time, then drops memberships of VIP lists that no longer apply.
// Failures are logged and never abort the remaining work.
func (s *VipListService) Reconcile(ctx context.Context, b *model.Buyer) []batch.Outcome[string, ListResult] {
	buyerType := model.Deref(b.BuyerType)
	outcomes := batch.Each([]string(b.PreferredAreas), func(area string) (ListResult, error) {
		return s.reconcileArea(ctx, b.ID, area, buyerType)
	})
	for _, o := range outcomes {
		if !o.OK() {
			s.log.Warning("vip list reconciliation failed", "buyer", b.ID, "area", o.Item, "error", o.Err.Error())
			continue
		}
		s.log.Debug("vip list reconciled", "buyer", b.ID, "area", o.Item, "list", o.Value.ListName, "added", o.Value.Added)
	}
	if failed := batch.Failed(outcomes); len(failed) > 0 {
		s.log.Warning("vip list reconciliation incomplete", "buyer", b.ID, "failed", len(failed), "areas", len(outcomes))
	}
	s.prune(ctx, b)
	return outcomes
}

func (s *VipListService) reconcileArea(ctx context.Context, buyerID, area, buyerType string) (ListResult, error) {
	list, err := s.ensureList(ctx, area, buyerType)
	if err != nil {
		return ListResult{}, err
	}
	res := ListResult{ListID: list.ID, ListName: list.Name}

	member, err := s.Lists.IsMember(ctx, list.ID, buyerID)
	if err != nil {
		return res, err
	}
	if member {
		return res, nil
	}
	n, err := s.Lists.AddMembers(ctx, list.ID, []string{buyerID})
	if err != nil {
		return res, err
	}
	res.Added = n > 0
	return res, nil
}

// ensureList returns the system list for area and buyerType, creating it
// when missing.
func (s *VipListService) ensureList(ctx context.Context, area, buyerType string) (*model.EmailList, error) {
	name := VipListName(area, buyerType)
	list, err := s.Lists.GetByName(ctx, name)
	if err == nil {
		return list, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	desc := fmt.Sprintf("VIP %s buyers interested in %s", buyerType, area)
	list = &model.EmailList{
		Name:        name,
		Description: &desc,
		IsSystem:    true,
		Criteria: datatypes.NewJSONType(model.ListCriteria{
			Areas:      []string{area},
			BuyerTypes: []string{buyerType},
			IsVIP:      true,
		}),
	}
	if err := s.Lists.Create(ctx, list); err != nil {
		// Another registration may have created it first.
		if existing, gerr := s.Lists.GetByName(ctx, name); gerr == nil {
			return existing, nil
		}
		return nil, err
	}
	s.log.Info("vip list created", "list", name)
	return list, nil
}

// prune removes the buyer from VIP system lists whose area or type no
// longer matches the buyer.
func (s *VipListService) prune(ctx context.Context, b *model.Buyer) {
	memberships, err := s.Lists.SystemMemberships(ctx, b.ID)
	if err != nil {
		s.log.Warning("could not load vip memberships", "buyer", b.ID, "error", err.Error())
		return
	}
	buyerType := model.Deref(b.BuyerType)
	for _, m := range memberships {
		if m.EmailList == nil || !stale(m.EmailList, b, buyerType) {
			continue
		}
		if err := s.Lists.DeleteMembership(ctx, m.ID); err != nil {
			s.log.Warning("could not remove vip membership", "buyer", b.ID, "list", m.EmailList.Name, "error", err.Error())
			continue
		}
		s.log.Info("vip membership removed", "buyer", b.ID, "list", m.EmailList.Name)
	}
}

func stale(l *model.EmailList, b *model.Buyer, buyerType string) bool {
	c := l.Criteria.Data()
	if !c.IsVIP || !strings.HasPrefix(l.Name, vipListPrefix) {
		return false
	}
	for _, area := range c.Areas {
		if !b.HasArea(area) {
			return true
		}
	}
	if len(c.BuyerTypes) > 0 && !contains(c.BuyerTypes, buyerType) {
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CreateVip registers a VIP buyer. A buyer matching the email or the phone
// is updated in place; otherwise a new buyer is created. List membership is
// then reconciled on a best-effort basis.
func (s *BuyerService) CreateVip(ctx context.Context, in VipInput) (*model.Buyer, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Email == "" || in.Phone == "" || strings.TrimSpace(in.BuyerType) == "" ||
		strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" || len(in.PreferredAreas) == 0 {
		return nil, apperr.Validation("All fields are required including preferred areas.")
	}
	buyerType, areas, err := canonicalize(in.BuyerType, in.PreferredAreas, nil)
	if err != nil {
		return nil, err
	}

	source := model.SourceVIP
	existing, err := s.Buyers.FindByEmailOrPhone(ctx, in.Email, in.Phone)
	var b *model.Buyer
	switch {
	case err == nil:
		fields := map[string]any{
			"first_name":      in.FirstName,
			"last_name":       in.LastName,
			"buyer_type":      *buyerType,
			"preferred_areas": areas,
			"source":          source,
		}
		if in.Auth0ID != "" {
			fields["auth0_id"] = in.Auth0ID
		}
		if err := s.Buyers.UpdateFields(ctx, existing.ID, fields); err != nil {
			return nil, apperr.Internal("An error occurred while processing the request.", err)
		}
		if b, err = s.Buyers.Get(ctx, existing.ID); err != nil {
			return nil, apperr.Internal("An error occurred while processing the request.", err)
		}
		s.log.Info("vip buyer updated", "buyer", b.ID)

	case repository.IsNotFound(err):
		b = &model.Buyer{
			Email:          in.Email,
			Phone:          &in.Phone,
			BuyerType:      buyerType,
			FirstName:      model.StringPtr(in.FirstName),
			LastName:       model.StringPtr(in.LastName),
			PreferredAreas: areas,
			Source:         &source,
			Auth0ID:        model.StringPtr(in.Auth0ID),
		}
		if err := s.Buyers.Create(ctx, b); err != nil {
			if repository.IsDuplicate(err) {
				return nil, s.duplicateConflict(ctx, in.Email, in.Phone)
			}
			return nil, apperr.Internal("An error occurred while processing the request.", err)
		}
		s.log.Info("vip buyer created", "buyer", b.ID)

	default:
		return nil, apperr.Internal("An error occurred while processing the request.", err)
	}

	if s.VIP != nil {
		s.VIP.Reconcile(ctx, b)
	}
	return b, nil
}
