package payments

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/notifications"
	"laborpay/internal/domain/payroll"
	"laborpay/internal/domain/status"
)

const (
	DefaultTransitionTimeout = 10 * time.Second
	DefaultListLimit         = 50
)

type Service struct {
	store     StoreAPI
	contracts ContractReader
	profiles  ProfileReader
	calc      *payroll.Calculator
	engine    *status.Engine[Payment, Status]
	blobs     BlobStore
	auditor   Auditor
	notifier  Notifier
	now       func() time.Time
}

type Option func(*Service)

func WithCalculator(calc *payroll.Calculator) Option {
	return func(s *Service) { s.calc = calc }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.engine.Timeout = d }
}

func WithBlobStore(b BlobStore) Option {
	return func(s *Service) { s.blobs = b }
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func NewService(store StoreAPI, contractReader ContractReader, profiles ProfileReader, identity auth.IdentityResolver, opts ...Option) *Service {
	s := &Service{
		store:     store,
		contracts: contractReader,
		profiles:  profiles,
		calc:      payroll.NewCalculator(payroll.DefaultRates()),
		now:       time.Now,
	}
	s.engine = &status.Engine[Payment, Status]{
		Machine:  Machine,
		Policy:   RolePolicy,
		Identity: identity,
		Profiles: profiles,
		Guard:    s.ownerGuard,
		Timeout:  DefaultTransitionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Calculator() *payroll.Calculator {
	return s.calc
}

// Preview runs the calculator on a stored contract without saving anything.
func (s *Service) Preview(ctx context.Context, contractID string, hours Hours) (payroll.Calculation, error) {
	actor, err := s.engine.Actor(ctx)
	if err != nil {
		return payroll.Calculation{}, err
	}
	c, err := s.contracts.GetContract(ctx, contractID)
	if err != nil {
		return payroll.Calculation{}, err
	}
	if _, ok := c.PartyRole(actor.ID); !ok {
		return payroll.Calculation{}, ErrForbidden
	}
	if err := validateHours(hours); err != nil {
		return payroll.Calculation{}, err
	}
	return s.calculate(c, hours), nil
}

// Create computes the breakdown server-side and stores a pending payment.
func (s *Service) Create(ctx context.Context, in CreateInput) (Payment, error) {
	actor, err := s.engine.Actor(ctx)
	if err != nil {
		return Payment{}, err
	}
	if actor.Role != auth.RoleEmployer {
		return Payment{}, ErrEmployerOnly
	}
	if in.PaymentDate.IsZero() {
		return Payment{}, fmt.Errorf("%w: paymentDate is required", ErrInvalidPayment)
	}
	if !in.PaymentMethod.Valid() {
		return Payment{}, fmt.Errorf("%w: paymentMethod must be bank_transfer or digital_wallet", ErrInvalidPayment)
	}
	if err := validateHours(in.Hours); err != nil {
		return Payment{}, err
	}

	c, err := s.contracts.GetContract(ctx, in.ContractID)
	if err != nil {
		return Payment{}, err
	}
	if c.EmployerID != actor.ID {
		return Payment{}, ErrEmployerOnly
	}

	calc := s.calculate(c, in.Hours)
	created, err := s.store.CreatePayment(ctx, Payment{
		ID:                       uuid.NewString(),
		ContractID:               c.ID,
		Amount:                   calc.GrossAmount,
		Status:                   StatusPending,
		PaymentDate:              in.PaymentDate,
		PaymentMethod:            in.PaymentMethod,
		HoursWorked:              in.Hours.Worked,
		BaseSalary:               calc.BaseSalary,
		OvertimePay:              calc.OvertimePay,
		OvertimeHoursDiurnal:     in.Hours.OvertimeDiurnal,
		OvertimeHoursNocturnal:   in.Hours.OvertimeNocturnal,
		TaxDeductions:            calc.TaxDeductions,
		SocialSecurityDeductions: calc.SocialSecurityDeductions,
		EmployerContributions:    calc.EmployerContributions,
		NetAmount:                calc.NetAmount,
		CreatedAt:                s.now().UTC(),
	})
	if err != nil {
		return Payment{}, err
	}

	s.record(ctx, actor.ID, "payment.create", created.ID, nil, created)
	s.notify(ctx, c.WorkerID, notifications.TypePaymentCreated,
		"Nuevo pago registrado",
		fmt.Sprintf("Pago de %s para el contrato %q programado el %s",
			FormatCOP(created.NetAmount), c.Title, created.PaymentDate.Format("2006-01-02")))
	return created, nil
}

// Get returns the payment when the caller is a party to its contract.
func (s *Service) Get(ctx context.Context, id string) (Payment, contracts.Contract, auth.Profile, error) {
	actor, err := s.engine.Actor(ctx)
	if err != nil {
		return Payment{}, contracts.Contract{}, auth.Profile{}, err
	}
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return Payment{}, contracts.Contract{}, auth.Profile{}, err
	}
	c, err := s.contracts.GetContract(ctx, p.ContractID)
	if err != nil {
		return Payment{}, contracts.Contract{}, auth.Profile{}, err
	}
	if _, ok := c.PartyRole(actor.ID); !ok {
		return Payment{}, contracts.Contract{}, auth.Profile{}, ErrForbidden
	}
	return p, c, actor, nil
}

func (s *Service) View(ctx context.Context, id string) (View, error) {
	p, _, actor, err := s.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return View{
		Payment:      p,
		Presentation: Catalog.Lookup(p.Status),
		Transitions:  Catalog.Options(s.engine.AvailableFor(actor.Role, p.Status)),
	}, nil
}

// List returns payments on the caller's contracts, optionally narrowed to
// filter.ContractIDs.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Payment, error) {
	actor, err := s.engine.Actor(ctx)
	if err != nil {
		return nil, err
	}
	return s.ListFor(ctx, actor, filter)
}

func (s *Service) ListFor(ctx context.Context, actor auth.Profile, filter ListFilter) ([]Payment, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q is not a payment status", ErrInvalidPayment, filter.Status)
	}
	owned, err := s.contractIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	if len(filter.ContractIDs) > 0 {
		owned = slices.DeleteFunc(owned, func(id string) bool {
			return !slices.Contains(filter.ContractIDs, id)
		})
	}
	if len(owned) == 0 {
		return []Payment{}, nil
	}
	filter.ContractIDs = owned
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	return s.store.ListPayments(ctx, filter)
}

// UpdateStatus moves p to next. Only the employer that owns p's contract may
// do so.
func (s *Service) UpdateStatus(ctx context.Context, p Payment, next Status) (Payment, error) {
	res, err := s.engine.Apply(ctx, status.Request[Payment, Status]{
		ID:     p.ID,
		Entity: p,
		From:   p.Status,
		To:     next,
	}, s.persistStatus)
	if err != nil {
		return Payment{}, err
	}

	updated := res.Entity
	s.record(ctx, res.Actor.ID, "payment.status", updated.ID,
		map[string]Status{"status": p.Status}, map[string]Status{"status": updated.Status})
	if c, err := s.contracts.GetContract(ctx, updated.ContractID); err == nil {
		s.notify(ctx, c.WorkerID, notifications.TypePaymentStatus,
			"Estado de pago actualizado",
			fmt.Sprintf("El pago de %s del contrato %q está ahora %s", FormatCOP(updated.NetAmount), c.Title, Catalog.Lookup(updated.Status).Label))
	}
	return updated, nil
}

func (s *Service) Transition(ctx context.Context, id string, next Status) (Payment, error) {
	if id == "" {
		return s.UpdateStatus(ctx, Payment{}, next)
	}
	ctx, cancel := s.engine.Bound(ctx)
	defer cancel()
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	return s.UpdateStatus(ctx, p, next)
}

func (s *Service) Available(role auth.Role, from Status) []Status {
	return s.engine.AvailableFor(role, from)
}

func (s *Service) ownerGuard(ctx context.Context, actor auth.Profile, req status.Request[Payment, Status]) error {
	c, err := s.contracts.GetContract(ctx, req.Entity.ContractID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrContractUnverified, err)
	}
	if c.EmployerID != actor.ID {
		return fmt.Errorf("%w: payment %s belongs to another employer's contract", status.ErrNotOwner, req.ID)
	}
	return nil
}

func (s *Service) persistStatus(ctx context.Context, req status.Request[Payment, Status]) (Payment, error) {
	return s.store.UpdatePaymentStatus(ctx, req.ID, req.From, req.To)
}

func (s *Service) calculate(c contracts.Contract, hours Hours) payroll.Calculation {
	return s.calc.Calculate(c.Terms(), hours.Worked, hours.OvertimeDiurnal, hours.OvertimeNocturnal)
}

func (s *Service) contractIDs(ctx context.Context, actor auth.Profile) ([]string, error) {
	filter := contracts.ListFilter{}
	switch actor.Role {
	case auth.RoleEmployer:
		filter.EmployerID = actor.ID
	case auth.RoleWorker:
		filter.WorkerID = actor.ID
	default:
		return nil, fmt.Errorf("%w: %s", auth.ErrInvalidRole, actor.Role)
	}
	list, err := s.contracts.ListContracts(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func validateHours(h Hours) error {
	switch {
	case h.Worked < 0:
		return fmt.Errorf("%w: hoursWorked must not be negative", ErrInvalidPayment)
	case h.OvertimeDiurnal < 0:
		return fmt.Errorf("%w: overtimeHoursDiurnal must not be negative", ErrInvalidPayment)
	case h.OvertimeNocturnal < 0:
		return fmt.Errorf("%w: overtimeHoursNocturnal must not be negative", ErrInvalidPayment)
	}
	return nil
}

func (s *Service) record(ctx context.Context, actorID, action, entityID string, before, after any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, actorID, action, EntityName, entityID, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "entity", entityID, "err", err)
	}
}

func (s *Service) notify(ctx context.Context, profileID, ntype, title, body string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Create(ctx, profileID, ntype, title, body); err != nil {
		slog.Warn("notification create failed", "type", ntype, "err", err)
	}
}
