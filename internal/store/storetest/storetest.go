// Package storetest holds the behaviour every store backend must share.
package storetest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laborpay/internal/domain/audit"
	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/notifications"
	"laborpay/internal/domain/payments"
	"laborpay/internal/domain/payroll"
	"laborpay/internal/domain/status"
)

type Store interface {
	auth.StoreAPI
	contracts.StoreAPI
	payments.StoreAPI
	notifications.StoreAPI
	audit.StoreAPI
	StartRun(ctx context.Context, jobType string) (string, error)
	FinishRun(ctx context.Context, id, status string, details []byte) error
}

// Run executes the suite; newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("Accounts", func(t *testing.T) { testAccounts(t, newStore(t)) })
	t.Run("Contracts", func(t *testing.T) { testContracts(t, newStore(t)) })
	t.Run("Payments", func(t *testing.T) { testPayments(t, newStore(t)) })
	t.Run("Notifications", func(t *testing.T) { testNotifications(t, newStore(t)) })
	t.Run("Audit", func(t *testing.T) { testAudit(t, newStore(t)) })
	t.Run("JobRuns", func(t *testing.T) { testJobRuns(t, newStore(t)) })
}

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func createProfile(t *testing.T, s Store, email string, role auth.Role) auth.Profile {
	t.Helper()
	userID := uuid.NewString()
	p, err := s.CreateAccount(context.Background(),
		auth.User{ID: userID, Email: email, PasswordHash: "hash", CreatedAt: base},
		auth.Profile{ID: uuid.NewString(), UserID: userID, FullName: email, Email: email, Role: role, CreatedAt: base})
	require.NoError(t, err)
	return p
}

func createContract(t *testing.T, s Store, employer, worker auth.Profile, st contracts.Status, created time.Time) contracts.Contract {
	t.Helper()
	c, err := s.CreateContract(context.Background(), contracts.Contract{
		ID:                    uuid.NewString(),
		EmployerID:            employer.ID,
		WorkerID:              worker.ID,
		Title:                 "Auxiliar",
		StartDate:             time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Salary:                1300000,
		PaymentFrequency:      payroll.FrequencyMonthly,
		Status:                st,
		HoursPerWeek:          40,
		OvertimeRateDiurnal:   1.25,
		OvertimeRateNocturnal: 1.75,
		RiskLevel:             1,
		CreatedAt:             created,
	})
	require.NoError(t, err)
	return c
}

func testAccounts(t *testing.T, s Store) {
	ctx := context.Background()
	p := createProfile(t, s, "ana@example.com", auth.RoleEmployer)
	assert.Equal(t, auth.RoleEmployer, p.Role)

	_, err := s.CreateAccount(ctx,
		auth.User{ID: uuid.NewString(), Email: "ana@example.com", PasswordHash: "x", CreatedAt: base},
		auth.Profile{ID: uuid.NewString(), FullName: "Ana", Email: "ana@example.com", Role: auth.RoleWorker, CreatedAt: base})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	u, err := s.FindUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, p.UserID, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)

	byUser, err := s.GetProfileByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, byUser.ID)

	byID, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)

	byEmail, err := s.FindProfileByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byEmail.ID)

	_, err = s.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
	_, err = s.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, auth.ErrProfileNotFound)
	_, err = s.GetProfileByUserID(ctx, "missing")
	assert.ErrorIs(t, err, auth.ErrProfileNotFound)
}

func testContracts(t *testing.T, s Store) {
	ctx := context.Background()
	employer := createProfile(t, s, "employer@example.com", auth.RoleEmployer)
	worker := createProfile(t, s, "worker@example.com", auth.RoleWorker)
	other := createProfile(t, s, "other@example.com", auth.RoleWorker)

	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	first := createContract(t, s, employer, worker, contracts.StatusPending, base)
	second := createContract(t, s, employer, other, contracts.StatusActive, base.Add(time.Hour))

	got, err := s.GetContract(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, contracts.StatusPending, got.Status)
	assert.Equal(t, payroll.FrequencyMonthly, got.PaymentFrequency)
	assert.InDelta(t, 1300000, got.Salary, 1e-9)
	assert.Nil(t, got.EndDate)
	assert.True(t, got.StartDate.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))

	_, err = s.GetContract(ctx, "missing")
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	all, err := s.ListContracts(ctx, contracts.ListFilter{EmployerID: employer.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	mine, err := s.ListContracts(ctx, contracts.ListFilter{WorkerID: worker.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	active, err := s.ListContracts(ctx, contracts.ListFilter{Status: contracts.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	paged, err := s.ListContracts(ctx, contracts.ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, first.ID, paged[0].ID)

	signed, err := s.SignContract(ctx, first.ID, auth.RoleWorker)
	require.NoError(t, err)
	assert.True(t, signed.SignedByWorker)
	assert.False(t, signed.SignedByEmployer)
	_, err = s.SignContract(ctx, "missing", auth.RoleEmployer)
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	updated, err := s.UpdateContractStatus(ctx, first.ID, contracts.StatusPending, contracts.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, contracts.StatusActive, updated.Status)

	_, err = s.UpdateContractStatus(ctx, first.ID, contracts.StatusPending, contracts.StatusCancelled)
	assert.ErrorIs(t, err, status.ErrStaleStatus)
	_, err = s.SignContract(ctx, first.ID, auth.RoleEmployer)
	assert.ErrorIs(t, err, contracts.ErrNotSignable)
	stored, err := s.GetContract(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, stored.SignedByEmployer)
	_, err = s.UpdateContractStatus(ctx, "missing", contracts.StatusPending, contracts.StatusActive)
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	fixed := first
	fixed.ID = uuid.NewString()
	fixed.Status = contracts.StatusDraft
	fixed.EndDate = &end
	_, err = s.CreateContract(ctx, fixed)
	require.NoError(t, err)
	stored, err = s.GetContract(ctx, fixed.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EndDate)
	assert.True(t, stored.EndDate.Equal(end))
}

func testPayments(t *testing.T, s Store) {
	ctx := context.Background()
	employer := createProfile(t, s, "employer@example.com", auth.RoleEmployer)
	worker := createProfile(t, s, "worker@example.com", auth.RoleWorker)
	c1 := createContract(t, s, employer, worker, contracts.StatusActive, base)
	c2 := createContract(t, s, employer, worker, contracts.StatusActive, base.Add(time.Minute))

	calc := payroll.Calculate(c1.Terms(), 160, 10, 0)
	newPayment := func(contractID string, date time.Time) payments.Payment {
		p, err := s.CreatePayment(ctx, payments.Payment{
			ID:                       uuid.NewString(),
			ContractID:               contractID,
			Amount:                   calc.GrossAmount,
			Status:                   payments.StatusPending,
			PaymentDate:              date,
			PaymentMethod:            payments.MethodBankTransfer,
			HoursWorked:              160,
			BaseSalary:               calc.BaseSalary,
			OvertimePay:              calc.OvertimePay,
			OvertimeHoursDiurnal:     10,
			TaxDeductions:            calc.TaxDeductions,
			SocialSecurityDeductions: calc.SocialSecurityDeductions,
			EmployerContributions:    calc.EmployerContributions,
			NetAmount:                calc.NetAmount,
			CreatedAt:                base,
		})
		require.NoError(t, err)
		return p
	}
	may := newPayment(c1.ID, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC))
	newPayment(c1.ID, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	other := newPayment(c2.ID, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	got, err := s.GetPayment(ctx, may.ID)
	require.NoError(t, err)
	assert.Equal(t, 1401562.5, got.Amount)
	assert.Equal(t, 101562.5, got.OvertimePay)
	assert.Equal(t, payments.MethodBankTransfer, got.PaymentMethod)
	assert.Equal(t, calc, got.Calculation())

	_, err = s.GetPayment(ctx, "missing")
	assert.ErrorIs(t, err, payments.ErrNotFound)

	all, err := s.ListPayments(ctx, payments.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID, "latest payment date first")

	scoped, err := s.ListPayments(ctx, payments.ListFilter{ContractIDs: []string{c1.ID}})
	require.NoError(t, err)
	assert.Len(t, scoped, 2)

	limited, err := s.ListPayments(ctx, payments.ListFilter{ContractIDs: []string{c1.ID, c2.ID}, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	updated, err := s.UpdatePaymentStatus(ctx, may.ID, payments.StatusPending, payments.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusProcessing, updated.Status)

	pending, err := s.ListPayments(ctx, payments.ListFilter{Status: payments.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = s.UpdatePaymentStatus(ctx, may.ID, payments.StatusPending, payments.StatusFailed)
	assert.ErrorIs(t, err, status.ErrStaleStatus)
	_, err = s.UpdatePaymentStatus(ctx, "missing", payments.StatusPending, payments.StatusFailed)
	assert.ErrorIs(t, err, payments.ErrNotFound)
}

func testNotifications(t *testing.T, s Store) {
	ctx := context.Background()
	owner := createProfile(t, s, "owner@example.com", auth.RoleWorker)
	stranger := createProfile(t, s, "stranger@example.com", auth.RoleWorker)

	ids := make([]string, 3)
	for i := range ids {
		ids[i] = uuid.NewString()
		require.NoError(t, s.CreateNotification(ctx, notifications.Notification{
			ID:        ids[i],
			ProfileID: owner.ID,
			Type:      notifications.TypeContractCreated,
			Title:     "Nuevo contrato",
			Body:      "cuerpo",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := s.ListNotifications(ctx, owner.ID, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.False(t, list[0].Read())

	count, err := s.CountUnread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.ErrorIs(t, s.MarkRead(ctx, stranger.ID, ids[0]), notifications.ErrNotFound)
	require.NoError(t, s.MarkRead(ctx, owner.ID, ids[0]))
	require.NoError(t, s.MarkRead(ctx, owner.ID, ids[0]))

	unread, err := s.ListNotifications(ctx, owner.ID, true, 10, 0)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	page, err := s.ListNotifications(ctx, owner.ID, false, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)
	assert.True(t, page[0].Read())

	count, err = s.CountUnread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	reminder := func(profileID, body string) notifications.Notification {
		return notifications.Notification{
			ID:        uuid.NewString(),
			ProfileID: profileID,
			Type:      notifications.TypePaymentDue,
			Title:     "Recordatorio de pago",
			Body:      body,
			CreatedAt: base.Add(time.Hour),
			DedupeKey: "payment_due:pay-1",
		}
	}
	inserted, err := s.CreateNotificationOnce(ctx, reminder(owner.ID, "en 3 días"))
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = s.CreateNotificationOnce(ctx, reminder(owner.ID, "en 2 días"))
	require.NoError(t, err)
	assert.False(t, inserted)
	inserted, err = s.CreateNotificationOnce(ctx, reminder(stranger.ID, "en 2 días"))
	require.NoError(t, err)
	assert.True(t, inserted)

	all, err := s.ListNotifications(ctx, owner.ID, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "en 3 días", all[0].Body)
}

func testAudit(t *testing.T, s Store) {
	ctx := context.Background()
	after, _ := json.Marshal(map[string]string{"status": "active"})
	require.NoError(t, s.InsertAuditEvent(ctx, audit.Event{
		ID: uuid.NewString(), ActorID: "p1", Action: "contract.create", EntityType: "contract", EntityID: "c1",
		CreatedAt: base, After: after,
	}))
	require.NoError(t, s.InsertAuditEvent(ctx, audit.Event{
		ID: uuid.NewString(), ActorID: "p1", Action: "contract.status", EntityType: "contract", EntityID: "c1",
		RequestID: "req-1", CreatedAt: base.Add(time.Minute), Before: after, After: after,
	}))
	require.NoError(t, s.InsertAuditEvent(ctx, audit.Event{
		ID: uuid.NewString(), ActorID: "p1", Action: "payment.create", EntityType: "payment", EntityID: "c1", CreatedAt: base,
	}))

	events, err := s.ListAuditEvents(ctx, "contract", "c1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "contract.create", events[0].Action)
	assert.Empty(t, events[0].Before)
	assert.JSONEq(t, `{"status":"active"}`, string(events[0].After))
	assert.Equal(t, "req-1", events[1].RequestID)

	none, err := s.ListAuditEvents(ctx, "contract", "c2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testJobRuns(t *testing.T, s Store) {
	ctx := context.Background()
	id, err := s.StartRun(ctx, "reminders")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NoError(t, s.FinishRun(ctx, id, "completed", []byte(`{"sent":2}`)))
	require.NoError(t, s.FinishRun(ctx, id, "failed", nil))
}
