package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"landivo/internal/apperr"
	"landivo/internal/database"
	"landivo/internal/mail"
	"landivo/internal/model"
)

type testEnv struct {
	db     *gorm.DB
	svc    *Services
	mailer *mail.Simulated
}

func setup(t *testing.T) *testEnv {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	log := (*logging.TestLogger)(t)
	m := mail.NewSimulated(log)
	return &testEnv{db: db, svc: New(db, m, log), mailer: m}
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), err.Error())
}

func (e *testEnv) createBuyer(t *testing.T, in BuyerInput) *model.Buyer {
	t.Helper()
	if in.FirstName == "" {
		in.FirstName = "Jane"
	}
	if in.LastName == "" {
		in.LastName = "Doe"
	}
	b, err := e.svc.Buyers.Create(context.Background(), in)
	require.NoError(t, err)
	return b
}

func (e *testEnv) createProperty(t *testing.T, p *model.Property) *model.Property {
	t.Helper()
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) createOffer(t *testing.T, o *model.Offer) *model.Offer {
	t.Helper()
	require.NoError(t, e.db.Omit("Property").Create(o).Error)
	return o
}

// failingMailer rejects one address and accepts the rest.
type failingMailer struct {
	fail string
}

func (f *failingMailer) Send(_ context.Context, msg mail.Message) error {
	if msg.To == f.fail {
		return errors.New("mailbox unavailable")
	}
	return nil
}
