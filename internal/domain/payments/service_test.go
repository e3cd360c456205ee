package payments

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/status"
)

type memPayments struct {
	mu     sync.Mutex
	items  map[string]Payment
	writes int
}

func newMemPayments(ps ...Payment) *memPayments {
	m := &memPayments{items: map[string]Payment{}}
	for _, p := range ps {
		m.items[p.ID] = p
	}
	return m
}

func (m *memPayments) CreatePayment(_ context.Context, p Payment) (Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[p.ID] = p
	return p, nil
}

func (m *memPayments) GetPayment(_ context.Context, id string) (Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return p, nil
}

func (m *memPayments) ListPayments(_ context.Context, f ListFilter) ([]Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Payment
	for _, p := range m.items {
		if slices.Contains(f.ContractIDs, p.ContractID) && (f.Status == "" || p.Status == f.Status) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) UpdatePaymentStatus(_ context.Context, id string, from, to Status) (Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	if p.Status != from {
		return Payment{}, status.ErrStaleStatus
	}
	p.Status = to
	m.items[id] = p
	m.writes++
	return p, nil
}

type contractMap map[string]contracts.Contract

func (c contractMap) GetContract(_ context.Context, id string) (contracts.Contract, error) {
	ct, ok := c[id]
	if !ok {
		return contracts.Contract{}, contracts.ErrNotFound
	}
	return ct, nil
}

func (c contractMap) ListContracts(_ context.Context, f contracts.ListFilter) ([]contracts.Contract, error) {
	var out []contracts.Contract
	for _, ct := range c {
		if (f.EmployerID == "" || ct.EmployerID == f.EmployerID) && (f.WorkerID == "" || ct.WorkerID == f.WorkerID) {
			out = append(out, ct)
		}
	}
	return out, nil
}

type profiles []auth.Profile

func (d profiles) GetProfileByUserID(_ context.Context, userID string) (auth.Profile, error) {
	for _, p := range d {
		if p.UserID == userID {
			return p, nil
		}
	}
	return auth.Profile{}, auth.ErrProfileNotFound
}

func (d profiles) GetProfile(_ context.Context, id string) (auth.Profile, error) {
	for _, p := range d {
		if p.ID == id {
			return p, nil
		}
	}
	return auth.Profile{}, auth.ErrProfileNotFound
}

type blobRecorder struct {
	keys []string
	err  error
}

func (b *blobRecorder) Put(_ context.Context, key string, _ []byte, contentType string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.keys = append(b.keys, key+"|"+contentType)
	return "file:///tmp/" + key, nil
}

var directory = profiles{
	{ID: "p-emp", UserID: "u-emp", FullName: "Café del Valle", Role: auth.RoleEmployer},
	{ID: "p-wrk", UserID: "u-wrk", FullName: "Luisa Pérez", Role: auth.RoleWorker},
	{ID: "p-emp2", UserID: "u-emp2", Role: auth.RoleEmployer},
	{ID: "p-wrk2", UserID: "u-wrk2", Role: auth.RoleWorker},
}

var fixtureContracts = contractMap{
	"c1": {
		ID: "c1", EmployerID: "p-emp", WorkerID: "p-wrk", Title: "Barista",
		Salary: 1300000, PaymentFrequency: "monthly", Status: contracts.StatusActive,
		OvertimeRateDiurnal: 1.25, OvertimeRateNocturnal: 1.75, RiskLevel: 1,
	},
	"c2": {ID: "c2", EmployerID: "p-emp2", WorkerID: "p-wrk2", Title: "Otro", Salary: 2000000, PaymentFrequency: "weekly"},
}

func as(userID string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: userID})
}

func payment(id, contractID string, st Status) Payment {
	return Payment{ID: id, ContractID: contractID, Status: st, PaymentDate: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)}
}

func newService(store *memPayments, opts ...Option) *Service {
	return NewService(store, fixtureContracts, directory, auth.ContextIdentity{}, opts...)
}

func TestPaymentTransitionTable(t *testing.T) {
	all := []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusProcessing}:   true,
		{StatusPending, StatusCompleted}:    true,
		{StatusProcessing, StatusCompleted}: true,
		{StatusFailed, StatusPending}:       true,
	}
	for _, from := range all {
		for _, to := range all {
			if got := Machine.CanTransition(from, to); got != allowed[[2]Status{from, to}] {
				t.Fatalf("%s -> %s: expected %v", from, to, allowed[[2]Status{from, to}])
			}
		}
	}
}

func TestUpdateStatusScenarios(t *testing.T) {
	orphan := payment("pay-orphan", "c-missing", StatusPending)
	cases := []struct {
		name   string
		userID string
		p      Payment
		to     Status
		want   []error
	}{
		{"owner starts processing", "u-emp", payment("pay1", "c1", StatusPending), StatusProcessing, nil},
		{"owner completes", "u-emp", payment("pay1", "c1", StatusProcessing), StatusCompleted, nil},
		{"owner retries failed", "u-emp", payment("pay1", "c1", StatusFailed), StatusPending, nil},
		{"failed cannot complete", "u-emp", payment("pay1", "c1", StatusFailed), StatusCompleted, []error{status.ErrInvalidTransition}},
		{"completed is terminal", "u-emp", payment("pay1", "c1", StatusCompleted), StatusPending, []error{status.ErrInvalidTransition}},
		{"worker rejected", "u-wrk", payment("pay1", "c1", StatusPending), StatusCompleted, []error{status.ErrPreconditionFailed, status.ErrRoleNotAllowed}},
		{"other employer rejected", "u-emp2", payment("pay1", "c1", StatusPending), StatusCompleted, []error{status.ErrPreconditionFailed, status.ErrNotOwner}},
		{"contract missing", "u-emp", orphan, StatusCompleted, []error{status.ErrPreconditionFailed, ErrContractUnverified}},
		{"no profile", "u-ghost", payment("pay1", "c1", StatusPending), StatusCompleted, []error{status.ErrProfileUnresolved}},
		{"missing id", "u-emp", payment("", "c1", StatusPending), StatusCompleted, []error{status.ErrMissingIdentifier}},
	}
	for _, tc := range cases {
		store := newMemPayments(tc.p)
		svc := newService(store)
		updated, err := svc.UpdateStatus(as(tc.userID), tc.p, tc.to)
		if tc.want == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			if updated.Status != tc.to {
				t.Fatalf("%s: expected %s, got %s", tc.name, tc.to, updated.Status)
			}
			continue
		}
		for _, want := range tc.want {
			if !errors.Is(err, want) {
				t.Fatalf("%s: expected %v in %v", tc.name, want, err)
			}
		}
		if store.writes != 0 {
			t.Fatalf("%s: store written despite failure", tc.name)
		}
	}
}

func TestWrongRoleAndNonOwnerAreDistinct(t *testing.T) {
	p := payment("pay1", "c1", StatusPending)
	svc := newService(newMemPayments(p))
	_, roleErr := svc.UpdateStatus(as("u-wrk"), p, StatusCompleted)
	_, ownerErr := svc.UpdateStatus(as("u-emp2"), p, StatusCompleted)
	if errors.Is(roleErr, status.ErrNotOwner) || errors.Is(ownerErr, status.ErrRoleNotAllowed) {
		t.Fatalf("expected distinct causes: %v / %v", roleErr, ownerErr)
	}
}

func TestUpdateStatusStale(t *testing.T) {
	stored := payment("pay1", "c1", StatusCompleted)
	svc := newService(newMemPayments(stored))
	stale := stored
	stale.Status = StatusPending
	if _, err := svc.UpdateStatus(as("u-emp"), stale, StatusProcessing); !errors.Is(err, status.ErrStaleStatus) {
		t.Fatalf("expected ErrStaleStatus, got %v", err)
	}
}

func TestCreateComputesBreakdown(t *testing.T) {
	store := newMemPayments()
	svc := newService(store)

	created, err := svc.Create(as("u-emp"), CreateInput{
		ContractID:    "c1",
		PaymentDate:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		PaymentMethod: MethodBankTransfer,
		Hours:         Hours{Worked: 160, OvertimeDiurnal: 10},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != StatusPending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if created.BaseSalary != 1300000 || created.OvertimePay != 101562.5 || created.Amount != 1401562.5 {
		t.Fatalf("unexpected amounts %+v", created)
	}
	if created.Amount != created.BaseSalary+created.OvertimePay {
		t.Fatal("amount must equal base + overtime")
	}
	if created.NetAmount != created.Amount-created.TaxDeductions-created.SocialSecurityDeductions {
		t.Fatal("net must equal amount minus deductions")
	}
	if created.OvertimeHoursDiurnal != 10 || created.HoursWorked != 160 {
		t.Fatalf("hours not recorded: %+v", created)
	}
}

func TestCreateRejections(t *testing.T) {
	svc := newService(newMemPayments())
	base := CreateInput{ContractID: "c1", PaymentDate: time.Now(), PaymentMethod: MethodDigitalWallet, Hours: Hours{Worked: 40}}

	if _, err := svc.Create(as("u-wrk"), base); !errors.Is(err, ErrEmployerOnly) {
		t.Fatalf("expected ErrEmployerOnly for worker, got %v", err)
	}
	other := base
	other.ContractID = "c2"
	if _, err := svc.Create(as("u-emp"), other); !errors.Is(err, ErrEmployerOnly) {
		t.Fatalf("expected ErrEmployerOnly for another employer's contract, got %v", err)
	}
	missing := base
	missing.ContractID = "nope"
	if _, err := svc.Create(as("u-emp"), missing); !errors.Is(err, contracts.ErrNotFound) {
		t.Fatalf("expected contracts.ErrNotFound, got %v", err)
	}
	negative := base
	negative.Hours.OvertimeNocturnal = -1
	if _, err := svc.Create(as("u-emp"), negative); !errors.Is(err, ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
	badMethod := base
	badMethod.PaymentMethod = "cash"
	if _, err := svc.Create(as("u-emp"), badMethod); !errors.Is(err, ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
	if _, err := svc.Create(context.Background(), base); !errors.Is(err, status.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	svc := newService(newMemPayments())
	calc, err := svc.Preview(as("u-wrk"), "c1", Hours{Worked: 160, OvertimeDiurnal: 10})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if calc.GrossAmount != 1401562.5 {
		t.Fatalf("expected gross 1401562.5, got %v", calc.GrossAmount)
	}
	if _, err := svc.Preview(as("u-wrk2"), "c1", Hours{Worked: 1}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListScopesToActorContracts(t *testing.T) {
	store := newMemPayments(payment("a", "c1", StatusPending), payment("b", "c1", StatusCompleted), payment("c", "c2", StatusPending))
	svc := newService(store)

	list, err := svc.List(as("u-wrk"), ListFilter{})
	if err != nil || len(list) != 2 {
		t.Fatalf("expected two payments for worker, got %v (%v)", list, err)
	}
	list, err = svc.List(as("u-emp"), ListFilter{Status: StatusCompleted})
	if err != nil || len(list) != 1 || list[0].ID != "b" {
		t.Fatalf("expected completed payment b, got %v (%v)", list, err)
	}
	list, err = svc.List(as("u-emp"), ListFilter{ContractIDs: []string{"c2"}})
	if err != nil || len(list) != 0 {
		t.Fatalf("expected no access to c2 payments, got %v (%v)", list, err)
	}
}

func TestReceipt(t *testing.T) {
	p := payment("pay1", "c1", StatusCompleted)
	p.Amount, p.BaseSalary, p.NetAmount = 1401562.5, 1300000, 1289437.5
	blobs := &blobRecorder{}
	svc := newService(newMemPayments(p), WithBlobStore(blobs))

	receipt, err := svc.Receipt(as("u-wrk"), "pay1")
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if !bytes.HasPrefix(receipt.Data, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
	if receipt.Filename != "recibo-pay1.pdf" {
		t.Fatalf("unexpected filename %s", receipt.Filename)
	}
	if len(blobs.keys) != 1 || blobs.keys[0] != "receipts/c1/pay1.pdf|application/pdf" {
		t.Fatalf("unexpected uploads %v", blobs.keys)
	}
	if !strings.HasSuffix(receipt.Location, "receipts/c1/pay1.pdf") {
		t.Fatalf("unexpected location %s", receipt.Location)
	}

	failing := newService(newMemPayments(p), WithBlobStore(&blobRecorder{err: errors.New("bucket gone")}))
	receipt, err = failing.Receipt(as("u-emp"), "pay1")
	if err != nil || len(receipt.Data) == 0 || receipt.Location != "" {
		t.Fatalf("expected receipt without location on upload failure, got %+v (%v)", receipt.Location, err)
	}

	if _, err := svc.Receipt(as("u-wrk2"), "pay1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestFormatCOP(t *testing.T) {
	got := FormatCOP(1401562.5)
	if !strings.HasPrefix(got, "$ ") || !strings.HasSuffix(got, "562,50") {
		t.Fatalf("unexpected format %q", got)
	}
}

// slowPayments blocks every load until the caller's context ends.
type slowPayments struct {
	*memPayments
}

func (s slowPayments) GetPayment(ctx context.Context, _ string) (Payment, error) {
	if _, ok := ctx.Deadline(); !ok {
		return Payment{}, errors.New("payment load has no deadline")
	}
	<-ctx.Done()
	return Payment{}, ctx.Err()
}

func TestTransitionLoadUsesTimeout(t *testing.T) {
	store := newMemPayments(payment("pay1", "c1", StatusPending))
	svc := NewService(slowPayments{memPayments: store}, fixtureContracts, directory, auth.ContextIdentity{},
		WithTimeout(20*time.Millisecond))

	_, err := svc.Transition(as("u-emp"), "pay1", StatusCompleted)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded while loading, got %v", err)
	}
	if store.writes != 0 || store.items["pay1"].Status != StatusPending {
		t.Fatalf("expected no write, got %d writes", store.writes)
	}
}
