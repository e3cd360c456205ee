package reports

import (
	"context"
	"io"
	"log/slog"
	"time"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/notifications"
	"laborpay/internal/domain/payments"
)

const sourceLimit = 10000

type ActorResolver interface {
	Actor(ctx context.Context) (auth.Profile, error)
}

type ContractSource interface {
	ListFor(ctx context.Context, actor auth.Profile, filter contracts.ListFilter) ([]contracts.Contract, error)
}

type PaymentSource interface {
	ListFor(ctx context.Context, actor auth.Profile, filter payments.ListFilter) ([]payments.Payment, error)
}

// Service reads through the contract and payment services so every figure is
// scoped to the caller's own contracts.
type Service struct {
	actors    ActorResolver
	contracts ContractSource
	payments  PaymentSource
	now       func() time.Time
}

func NewService(actors ActorResolver, cs ContractSource, ps PaymentSource) *Service {
	return &Service{actors: actors, contracts: cs, payments: ps, now: time.Now}
}

// Monthly aggregates the caller's payments. A non-empty contractID narrows the
// report to that contract.
func (s *Service) Monthly(ctx context.Context, contractID string) ([]MonthlyRow, error) {
	actor, err := s.actors.Actor(ctx)
	if err != nil {
		return nil, err
	}
	filter := payments.ListFilter{Limit: sourceLimit}
	if contractID != "" {
		filter.ContractIDs = []string{contractID}
	}
	list, err := s.payments.ListFor(ctx, actor, filter)
	if err != nil {
		return nil, err
	}
	return Monthly(list), nil
}

func (s *Service) ExportCSV(ctx context.Context, w io.Writer, contractID string) error {
	rows, err := s.Monthly(ctx, contractID)
	if err != nil {
		return err
	}
	return WriteCSV(w, rows)
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	actor, cs, ps, err := s.load(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(actor.Role, cs, ps, s.now()), nil
}

// Reminders returns the caller's upcoming deadlines without storing them.
func (s *Service) Reminders(ctx context.Context) ([]Reminder, error) {
	_, cs, ps, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := DueReminders(cs, ps, s.now())
	if out == nil {
		out = []Reminder{}
	}
	return out, nil
}

func (s *Service) load(ctx context.Context) (auth.Profile, []contracts.Contract, []payments.Payment, error) {
	actor, err := s.actors.Actor(ctx)
	if err != nil {
		return auth.Profile{}, nil, nil, err
	}
	cs, err := s.contracts.ListFor(ctx, actor, contracts.ListFilter{Limit: sourceLimit})
	if err != nil {
		return auth.Profile{}, nil, nil, err
	}
	ps, err := s.payments.ListFor(ctx, actor, payments.ListFilter{Limit: sourceLimit})
	if err != nil {
		return auth.Profile{}, nil, nil, err
	}
	return actor, cs, ps, nil
}

type ContractStore interface {
	ListContracts(ctx context.Context, filter contracts.ListFilter) ([]contracts.Contract, error)
}

type PaymentStore interface {
	ListPayments(ctx context.Context, filter payments.ListFilter) ([]payments.Payment, error)
}

// Notifier stores a notification unless one with the same key was already
// stored for the profile.
type Notifier interface {
	CreateOnce(ctx context.Context, profileID, ntype, key, title, body string) (bool, error)
}

// Dispatcher turns due reminders into stored notifications for every contract.
// It runs from the background scheduler, not on behalf of a user.
type Dispatcher struct {
	contracts ContractStore
	payments  PaymentStore
	notifier  Notifier
}

func NewDispatcher(cs ContractStore, ps PaymentStore, n Notifier) *Dispatcher {
	return &Dispatcher{contracts: cs, payments: ps, notifier: n}
}

type DispatchSummary struct {
	Contracts int `json:"contracts"`
	Payments  int `json:"payments"`
	Sent      int `json:"sent"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

func (d *Dispatcher) Run(ctx context.Context, now time.Time) (DispatchSummary, error) {
	var summary DispatchSummary
	cs, err := d.contracts.ListContracts(ctx, contracts.ListFilter{})
	if err != nil {
		return summary, err
	}
	ps, err := d.payments.ListPayments(ctx, payments.ListFilter{Status: payments.StatusPending})
	if err != nil {
		return summary, err
	}
	summary.Contracts, summary.Payments = len(cs), len(ps)

	for _, r := range DueReminders(cs, ps, now) {
		if r.ProfileID == "" {
			continue
		}
		sent, err := d.notifier.CreateOnce(ctx, r.ProfileID, r.Type, r.Key(), reminderTitle(r.Type), r.Message)
		if err != nil {
			slog.Warn("reminder notification failed", "entity", r.EntityID, "err", err)
			summary.Failed++
			continue
		}
		if !sent {
			summary.Skipped++
			continue
		}
		summary.Sent++
	}
	return summary, nil
}

func reminderTitle(ntype string) string {
	switch ntype {
	case notifications.TypePaymentDue:
		return "Recordatorio de pago"
	case notifications.TypePaymentOverdue:
		return "Pago vencido"
	default:
		return "Contrato por vencer"
	}
}
