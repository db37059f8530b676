package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarkampus/bazar-api/internal/domain"
)

type marketplaceFixture struct {
	svc      *MarketplaceService
	users    *fakeUserRepo
	events   *fakeEventRepo
	repo     *fakeBusinessRepo
	notifier *fakeNotifier
	now      time.Time
}

func newMarketplaceFixture() *marketplaceFixture {
	f := &marketplaceFixture{
		users:    newFakeUserRepo(),
		events:   newFakeEventRepo(),
		repo:     newFakeBusinessRepo(),
		notifier: &fakeNotifier{},
		now:      time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewMarketplaceService(f.repo, f.events, f.users, f.notifier)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *marketplaceFixture) addOpenEvent(quota int) domain.Event {
	return f.events.add(domain.Event{
		Name:              "Bazar Kampus",
		Status:            domain.EventOpen,
		RegistrationOpen:  f.now.AddDate(0, 0, -7),
		RegistrationClose: f.now.AddDate(0, 0, 7),
		Quota:             quota,
	})
}

func studentRegistration(eventID, ownerID uint, product string, mentorID *uint) domain.Business {
	return domain.Business{
		EventID:     eventID,
		OwnerID:     ownerID,
		Type:        domain.BusinessStudent,
		ProductName: product,
		Phone:       "081234567890",
		StudentDetail: &domain.StudentDetail{
			MentorID:   mentorID,
			TeamRoster: []string{"Andi", "Budi"},
		},
	}
}

func TestMarketplaceService_RegisterBusiness(t *testing.T) {
	t.Run("registers a pending student business", func(t *testing.T) {
		f := newMarketplaceFixture()
		mentor := f.users.add("Dosen", "dosen@kampus.ac.id", domain.RoleLecturer)
		event := f.addOpenEvent(0)

		created, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", &mentor.ID))

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, domain.BusinessPending, created.Status)
	})

	t.Run("rejects while the event is not open", func(t *testing.T) {
		f := newMarketplaceFixture()
		event := f.events.add(domain.Event{Name: "Draft", Status: domain.EventDraft})

		_, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", nil))
		assert.ErrorIs(t, err, ErrEventNotOpen)
	})

	t.Run("rejects a locked event", func(t *testing.T) {
		f := newMarketplaceFixture()
		event := f.addOpenEvent(0)
		event.Locked = true
		_, err := f.events.Update(context.Background(), event)
		require.NoError(t, err)

		_, err = f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", nil))
		assert.ErrorIs(t, err, ErrEventLocked)
	})

	t.Run("rejects outside the registration window", func(t *testing.T) {
		f := newMarketplaceFixture()
		event := f.addOpenEvent(0)
		f.now = f.now.AddDate(0, 0, 8)

		_, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", nil))
		assert.ErrorIs(t, err, ErrRegistrationClosed)
	})

	t.Run("rejects once the quota is full", func(t *testing.T) {
		f := newMarketplaceFixture()
		event := f.addOpenEvent(1)

		_, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", nil))
		require.NoError(t, err)

		_, err = f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 11, "Es Teh", nil))
		assert.ErrorIs(t, err, ErrEventFull)
	})

	t.Run("a rejected registration frees its quota slot", func(t *testing.T) {
		f := newMarketplaceFixture()
		event := f.addOpenEvent(1)

		first, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", nil))
		require.NoError(t, err)
		require.NoError(t, f.repo.Reject(context.Background(), first.ID, "produk tidak sesuai tema"))

		_, err = f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 11, "Es Teh", nil))
		assert.NoError(t, err)
	})

	t.Run("rejects a mentor who is not a lecturer", func(t *testing.T) {
		f := newMarketplaceFixture()
		student := f.users.add("Mahasiswa", "mhs@kampus.ac.id", domain.RoleUser)
		event := f.addOpenEvent(0)

		_, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", &student.ID))
		assert.ErrorIs(t, err, ErrMentorNotLecturer)
	})

	t.Run("rejects a second registration by the same owner", func(t *testing.T) {
		f := newMarketplaceFixture()
		event := f.addOpenEvent(0)

		_, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", nil))
		require.NoError(t, err)

		_, err = f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Es Teh", nil))
		assert.ErrorIs(t, err, ErrDuplicateRegistration)
	})

	t.Run("rejects a taken product name", func(t *testing.T) {
		f := newMarketplaceFixture()
		event := f.addOpenEvent(0)

		_, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", nil))
		require.NoError(t, err)

		_, err = f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 11, "Keripik Pedas", nil))
		assert.ErrorIs(t, err, ErrProductNameTaken)
	})
}

func TestMarketplaceService_Decisions(t *testing.T) {
	setup := func(t *testing.T) (*marketplaceFixture, domain.Business, domain.User, domain.User, domain.User) {
		t.Helper()

		f := newMarketplaceFixture()
		admin := f.users.add("Admin", "admin@kampus.ac.id", domain.RoleAdmin)
		mentor := f.users.add("Dosen", "dosen@kampus.ac.id", domain.RoleLecturer)
		other := f.users.add("Dosen Lain", "lain@kampus.ac.id", domain.RoleLecturer)
		event := f.addOpenEvent(0)

		business, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", &mentor.ID))
		require.NoError(t, err)
		return f, business, admin, mentor, other
	}

	t.Run("admin approves any business", func(t *testing.T) {
		f, business, admin, _, _ := setup(t)

		approved, err := f.svc.ApproveBusiness(context.Background(), business.ID, admin)
		require.NoError(t, err)
		assert.Equal(t, domain.BusinessApproved, approved.Status)
		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, []uint{business.OwnerID}, f.notifier.sent[0].userIDs)
	})

	t.Run("recorded mentor approves their mentee", func(t *testing.T) {
		f, business, _, mentor, _ := setup(t)

		approved, err := f.svc.ApproveBusiness(context.Background(), business.ID, mentor)
		require.NoError(t, err)
		assert.Equal(t, domain.BusinessApproved, approved.Status)
	})

	t.Run("another lecturer may not decide", func(t *testing.T) {
		f, business, _, _, other := setup(t)

		_, err := f.svc.ApproveBusiness(context.Background(), business.ID, other)
		assert.ErrorIs(t, err, ErrNotMentor)

		_, err = f.svc.RejectBusiness(context.Background(), business.ID, "kurang lengkap", other)
		assert.ErrorIs(t, err, ErrNotMentor)
	})

	t.Run("rejection records the reason", func(t *testing.T) {
		f, business, admin, _, _ := setup(t)

		rejected, err := f.svc.RejectBusiness(context.Background(), business.ID, "berkas tidak lengkap", admin)
		require.NoError(t, err)
		assert.Equal(t, domain.BusinessRejected, rejected.Status)
		assert.Equal(t, "berkas tidak lengkap", rejected.RejectReason)
	})

	t.Run("only pending businesses can be decided", func(t *testing.T) {
		f, business, admin, _, _ := setup(t)

		_, err := f.svc.ApproveBusiness(context.Background(), business.ID, admin)
		require.NoError(t, err)

		_, err = f.svc.ApproveBusiness(context.Background(), business.ID, admin)
		assert.ErrorIs(t, err, ErrBusinessNotPending)

		_, err = f.svc.RejectBusiness(context.Background(), business.ID, "terlambat", admin)
		assert.ErrorIs(t, err, ErrBusinessNotPending)
	})
}

func TestMarketplaceService_AssignBooth(t *testing.T) {
	setup := func(t *testing.T) (*marketplaceFixture, domain.Business, domain.User) {
		t.Helper()

		f := newMarketplaceFixture()
		admin := f.users.add("Admin", "admin@kampus.ac.id", domain.RoleAdmin)
		event := f.addOpenEvent(0)
		business, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", nil))
		require.NoError(t, err)
		return f, business, admin
	}

	t.Run("assigns a booth to an approved business", func(t *testing.T) {
		f, business, admin := setup(t)
		_, err := f.svc.ApproveBusiness(context.Background(), business.ID, admin)
		require.NoError(t, err)

		got, err := f.svc.AssignBooth(context.Background(), business.ID, "A-05")
		require.NoError(t, err)
		require.NotNil(t, got.BoothNumber)
		assert.Equal(t, "A-05", *got.BoothNumber)
	})

	t.Run("rejects before approval", func(t *testing.T) {
		f, business, _ := setup(t)

		_, err := f.svc.AssignBooth(context.Background(), business.ID, "A-05")
		assert.ErrorIs(t, err, ErrBusinessNotApproved)
	})

	t.Run("rejects a taken booth", func(t *testing.T) {
		f, business, admin := setup(t)
		other, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(business.EventID, 11, "Es Teh", nil))
		require.NoError(t, err)

		for _, id := range []uint{business.ID, other.ID} {
			_, err = f.svc.ApproveBusiness(context.Background(), id, admin)
			require.NoError(t, err)
		}

		_, err = f.svc.AssignBooth(context.Background(), business.ID, "A-05")
		require.NoError(t, err)

		_, err = f.svc.AssignBooth(context.Background(), other.ID, "A-05")
		assert.ErrorIs(t, err, ErrBoothTaken)
	})
}

func TestMarketplaceService_CancelRegistration(t *testing.T) {
	setup := func(t *testing.T) (*marketplaceFixture, domain.Business, domain.User) {
		t.Helper()

		f := newMarketplaceFixture()
		admin := f.users.add("Admin", "admin@kampus.ac.id", domain.RoleAdmin)
		event := f.addOpenEvent(0)
		business, err := f.svc.RegisterBusiness(context.Background(), studentRegistration(event.ID, 10, "Keripik Pedas", nil))
		require.NoError(t, err)
		return f, business, admin
	}

	t.Run("owner cancels a pending registration", func(t *testing.T) {
		f, business, _ := setup(t)

		err := f.svc.CancelRegistration(context.Background(), business.ID, business.OwnerID)
		require.NoError(t, err)

		_, err = f.svc.GetBusiness(context.Background(), business.ID)
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("non-owner may not cancel", func(t *testing.T) {
		f, business, _ := setup(t)

		err := f.svc.CancelRegistration(context.Background(), business.ID, 999)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("approved registrations stay", func(t *testing.T) {
		f, business, admin := setup(t)
		_, err := f.svc.ApproveBusiness(context.Background(), business.ID, admin)
		require.NoError(t, err)

		err = f.svc.CancelRegistration(context.Background(), business.ID, business.OwnerID)
		assert.ErrorIs(t, err, ErrBusinessNotPending)
	})
}
