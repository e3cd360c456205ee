package contracts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/notifications"
	"laborpay/internal/domain/payroll"
	"laborpay/internal/domain/status"
)

const (
	DefaultTransitionTimeout = 10 * time.Second
	DefaultListLimit         = 50
)

type Service struct {
	store    StoreAPI
	profiles ProfileDirectory
	rates    payroll.Rates
	engine   *status.Engine[Contract, Status]
	auditor  Auditor
	notifier Notifier
	now      func() time.Time
}

type Option func(*Service)

func WithRates(rates payroll.Rates) Option {
	return func(s *Service) { s.rates = rates }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.engine.Timeout = d }
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func NewService(store StoreAPI, profiles ProfileDirectory, identity auth.IdentityResolver, opts ...Option) *Service {
	s := &Service{
		store:    store,
		profiles: profiles,
		rates:    payroll.DefaultRates(),
		now:      time.Now,
	}
	s.engine = &status.Engine[Contract, Status]{
		Machine:  Machine,
		Policy:   RolePolicy,
		Identity: identity,
		Profiles: profiles,
		Guard:    partyGuard,
		Timeout:  DefaultTransitionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Actor resolves the calling profile.
func (s *Service) Actor(ctx context.Context) (auth.Profile, error) {
	return s.engine.Actor(ctx)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Contract, error) {
	actor, err := s.engine.Actor(ctx)
	if err != nil {
		return Contract{}, err
	}
	if actor.Role != auth.RoleEmployer {
		return Contract{}, ErrEmployerOnly
	}

	in = in.Normalize()
	if err := in.Validate(s.rates.MinimumWage); err != nil {
		return Contract{}, err
	}

	worker, err := s.profiles.FindProfileByEmail(ctx, in.WorkerEmail)
	if err != nil {
		if errors.Is(err, auth.ErrProfileNotFound) {
			return Contract{}, ErrWorkerNotFound
		}
		return Contract{}, err
	}
	if worker.Role != auth.RoleWorker {
		return Contract{}, ErrNotAWorker
	}

	created, err := s.store.CreateContract(ctx, Contract{
		ID:                    uuid.NewString(),
		EmployerID:            actor.ID,
		WorkerID:              worker.ID,
		Title:                 in.Title,
		Description:           in.Description,
		StartDate:             in.StartDate,
		EndDate:               in.EndDate,
		Salary:                in.Salary,
		PaymentFrequency:      in.PaymentFrequency,
		Status:                StatusPending,
		HoursPerWeek:          in.HoursPerWeek,
		OvertimeRateDiurnal:   in.OvertimeRateDiurnal,
		OvertimeRateNocturnal: in.OvertimeRateNocturnal,
		RiskLevel:             in.RiskLevel,
		CreatedAt:             s.now().UTC(),
	})
	if err != nil {
		return Contract{}, err
	}

	s.record(ctx, actor.ID, "contract.create", created.ID, nil, created)
	s.notify(ctx, created.WorkerID, notifications.TypeContractCreated,
		"Nuevo contrato",
		fmt.Sprintf("%s te ha enviado el contrato %q para firmar", actor.FullName, created.Title))
	return created, nil
}

// Get returns the contract when the caller is one of its parties.
func (s *Service) Get(ctx context.Context, id string) (Contract, auth.Profile, error) {
	actor, err := s.engine.Actor(ctx)
	if err != nil {
		return Contract{}, auth.Profile{}, err
	}
	c, err := s.store.GetContract(ctx, id)
	if err != nil {
		return Contract{}, auth.Profile{}, err
	}
	if _, ok := c.PartyRole(actor.ID); !ok {
		return Contract{}, auth.Profile{}, ErrForbidden
	}
	return c, actor, nil
}

func (s *Service) View(ctx context.Context, id string) (View, error) {
	c, actor, err := s.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(c, actor), nil
}

// List scopes the filter to the caller's side of its contracts.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Contract, error) {
	actor, err := s.engine.Actor(ctx)
	if err != nil {
		return nil, err
	}
	return s.ListFor(ctx, actor, filter)
}

func (s *Service) ListFor(ctx context.Context, actor auth.Profile, filter ListFilter) ([]Contract, error) {
	filter.EmployerID, filter.WorkerID = "", ""
	switch actor.Role {
	case auth.RoleEmployer:
		filter.EmployerID = actor.ID
	case auth.RoleWorker:
		filter.WorkerID = actor.ID
	default:
		return nil, fmt.Errorf("%w: %s", auth.ErrInvalidRole, actor.Role)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &ValidationError{Issues: []Issue{{Field: "status", Reason: "is not a contract status"}}}
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	return s.store.ListContracts(ctx, filter)
}

// Sign records the caller's signature on a draft or pending contract.
func (s *Service) Sign(ctx context.Context, id string) (Contract, error) {
	c, actor, err := s.Get(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	party, _ := c.PartyRole(actor.ID)
	if !c.Status.Signable() {
		return Contract{}, fmt.Errorf("%w: contract is %s", ErrNotSignable, c.Status)
	}

	signed, err := s.store.SignContract(ctx, c.ID, party)
	if err != nil {
		return Contract{}, err
	}

	s.record(ctx, actor.ID, "contract.sign", signed.ID, c, signed)
	s.notify(ctx, signed.Counterparty(actor.ID), notifications.TypeContractSigned,
		"Contrato firmado",
		fmt.Sprintf("%s firmó el contrato %q", actor.FullName, signed.Title))
	return signed, nil
}

// UpdateStatus moves c to next after the table, identity, profile and role
// checks pass, and returns the contract as stored.
func (s *Service) UpdateStatus(ctx context.Context, c Contract, next Status) (Contract, error) {
	res, err := s.engine.Apply(ctx, status.Request[Contract, Status]{
		ID:     c.ID,
		Entity: c,
		From:   c.Status,
		To:     next,
	}, s.persistStatus)
	if err != nil {
		return Contract{}, err
	}

	updated := res.Entity
	s.record(ctx, res.Actor.ID, "contract.status", updated.ID,
		map[string]Status{"status": c.Status}, map[string]Status{"status": updated.Status})
	s.notify(ctx, updated.Counterparty(res.Actor.ID), notifications.TypeContractStatus,
		"Estado de contrato actualizado",
		fmt.Sprintf("El contrato %q pasó de %s a %s", updated.Title, c.Status, updated.Status))
	return updated, nil
}

// Transition loads the contract and applies UpdateStatus.
func (s *Service) Transition(ctx context.Context, id string, next Status) (Contract, error) {
	if id == "" {
		return s.UpdateStatus(ctx, Contract{}, next)
	}
	ctx, cancel := s.engine.Bound(ctx)
	defer cancel()
	c, err := s.store.GetContract(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	return s.UpdateStatus(ctx, c, next)
}

func (s *Service) Available(role auth.Role, from Status) []Status {
	return s.engine.AvailableFor(role, from)
}

func (s *Service) view(c Contract, actor auth.Profile) View {
	return View{
		Contract:     c,
		Presentation: Catalog.Lookup(c.Status),
		Transitions:  Catalog.Options(s.engine.AvailableFor(actor.Role, c.Status)),
	}
}

func (s *Service) persistStatus(ctx context.Context, req status.Request[Contract, Status]) (Contract, error) {
	return s.store.UpdateContractStatus(ctx, req.ID, req.From, req.To)
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
