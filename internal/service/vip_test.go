package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landivo/internal/apperr"
	"landivo/internal/batch"
	"landivo/internal/model"
)

func vipInput(phone string, areas ...string) VipInput {
	return VipInput{
		Email:          "vip@example.com",
		Phone:          phone,
		BuyerType:      "Investor",
		FirstName:      "Val",
		LastName:       "Ip",
		PreferredAreas: areas,
	}
}

func (e *testEnv) membershipNames(t *testing.T, buyerID string) []string {
	t.Helper()
	var names []string
	err := e.db.Model(&model.EmailListMembership{}).
		Joins("JOIN email_lists ON email_lists.id = email_list_memberships.email_list_id").
		Where("email_list_memberships.buyer_id = ?", buyerID).
		Order("email_lists.name ASC").
		Pluck("email_lists.name", &names).Error
	require.NoError(t, err)
	return names
}

func TestVipListName(t *testing.T) {
	assert.Equal(t, "VIP Buyers - Austin - CashBuyer", VipListName("Austin", "CashBuyer"))
}

func TestCreateVipCreatesListsAndMemberships(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	b, err := env.svc.Buyers.CreateVip(ctx, vipInput("555-0100", "Austin", "DFW"))
	require.NoError(t, err)
	assert.Equal(t, model.SourceVIP, model.Deref(b.Source))
	assert.Equal(t, "Investor", model.Deref(b.BuyerType))

	assert.Equal(t, []string{
		"VIP Buyers - Austin - Investor",
		"VIP Buyers - DFW - Investor",
	}, env.membershipNames(t, b.ID))

	l, err := env.svc.VIP.Lists.GetByName(ctx, "VIP Buyers - Austin - Investor")
	require.NoError(t, err)
	assert.True(t, l.IsSystem)
	assert.Equal(t, "VIP Investor buyers interested in Austin", model.Deref(l.Description))
	assert.Equal(t, model.ListCriteria{Areas: []string{"Austin"}, BuyerTypes: []string{"Investor"}, IsVIP: true}, l.Criteria.Data())
}

func TestCreateVipTwiceSameEmail(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	first, err := env.svc.Buyers.CreateVip(ctx, vipInput("555-0100", "Austin"))
	require.NoError(t, err)
	second, err := env.svc.Buyers.CreateVip(ctx, vipInput("555-0199", "Austin"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, env.db.Model(&model.Buyer{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
	require.NoError(t, env.db.Model(&model.EmailListMembership{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCreateVipUpdatesManualBuyer(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	manual := env.createBuyer(t, BuyerInput{Email: "other@example.com", Phone: "555-0100", BuyerType: "Builder"})

	in := vipInput("555-0100", "Houston")
	in.Auth0ID = "auth0|vip"
	b, err := env.svc.Buyers.CreateVip(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, manual.ID, b.ID)
	assert.Equal(t, "other@example.com", b.Email)
	assert.Equal(t, "Investor", model.Deref(b.BuyerType))
	assert.Equal(t, model.SourceVIP, model.Deref(b.Source))
	assert.Equal(t, "auth0|vip", model.Deref(b.Auth0ID))
	assert.Equal(t, []string{"Houston"}, []string(b.PreferredAreas))
}

func TestCreateVipValidation(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	_, err := env.svc.Buyers.CreateVip(ctx, vipInput("555-0100"))
	requireKind(t, err, apperr.KindValidation)

	in := vipInput("555-0100", "Austin")
	in.BuyerType = ""
	_, err = env.svc.Buyers.CreateVip(ctx, in)
	requireKind(t, err, apperr.KindValidation)

	_, err = env.svc.Buyers.CreateVip(ctx, vipInput("555-0100", "Atlantis"))
	requireKind(t, err, apperr.KindValidation)
}

func TestReconcileIsIdempotent(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	b, err := env.svc.Buyers.CreateVip(ctx, vipInput("555-0100", "Austin"))
	require.NoError(t, err)

	outcomes := env.svc.VIP.Reconcile(ctx, b)
	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].OK())
	assert.False(t, outcomes[0].Value.Added)
	assert.Equal(t, "VIP Buyers - Austin - Investor", outcomes[0].Value.ListName)
}

func TestReconcilePrunesStaleLists(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	_, err := env.svc.Buyers.CreateVip(ctx, vipInput("555-0100", "Austin", "DFW"))
	require.NoError(t, err)

	// A manual list keeps its members regardless of areas.
	manual, err := env.svc.Lists.Create(ctx, EmailListInput{Name: "Newsletter"})
	require.NoError(t, err)

	in := vipInput("555-0100", "DFW")
	in.BuyerType = "Builder"
	b, err := env.svc.Buyers.CreateVip(ctx, in)
	require.NoError(t, err)
	_, err = env.svc.Lists.AddMembers(ctx, manual.ID, []string{b.ID})
	require.NoError(t, err)
	env.svc.VIP.Reconcile(ctx, b)

	assert.Equal(t, []string{
		"Newsletter",
		"VIP Buyers - DFW - Builder",
	}, env.membershipNames(t, b.ID))
}

func TestReconcileAreaFailureIsContained(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	require.NoError(t, env.db.Exec(`CREATE TRIGGER email_lists_no_austin BEFORE INSERT ON email_lists
		WHEN NEW.name LIKE '%Austin%'
		BEGIN SELECT RAISE(ABORT, 'boom'); END`).Error)

	b, err := env.svc.Buyers.CreateVip(ctx, vipInput("555-0100", "Austin", "DFW", "Houston"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"VIP Buyers - DFW - Investor",
		"VIP Buyers - Houston - Investor",
	}, env.membershipNames(t, b.ID))

	outcomes := env.svc.VIP.Reconcile(ctx, b)
	require.Len(t, outcomes, 3)
	failed := batch.Failed(outcomes)
	require.Len(t, failed, 1)
	assert.Equal(t, "Austin", failed[0].Item)
	assert.ErrorContains(t, failed[0].Err, "boom")
	assert.True(t, outcomes[1].OK())
	assert.True(t, outcomes[2].OK())
	assert.False(t, outcomes[1].Value.Added, "already a member")
}
