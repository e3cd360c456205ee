package reports

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/notifications"
	"laborpay/internal/domain/payments"
)

const (
	MonthLayout          = "2006-01"
	RecentItems          = 5
	ContractReminderDays = 7
	PaymentReminderDays  = 3
)

// Monthly groups payments by the month of their payment date, oldest first.
func Monthly(list []payments.Payment) []MonthlyRow {
	byMonth := map[string]*MonthlyRow{}
	for _, p := range list {
		key := p.PaymentDate.UTC().Format(MonthLayout)
		row, ok := byMonth[key]
		if !ok {
			row = &MonthlyRow{Month: key}
			byMonth[key] = row
		}
		row.TotalBaseSalary = row.TotalBaseSalary.Add(decimal.NewFromFloat(p.BaseSalary))
		row.TotalOvertime = row.TotalOvertime.Add(decimal.NewFromFloat(p.OvertimePay))
		row.TotalNet = row.TotalNet.Add(decimal.NewFromFloat(p.NetAmount))
		row.PaymentCount++
	}

	out := make([]MonthlyRow, 0, len(byMonth))
	for _, row := range byMonth {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b MonthlyRow) int { return cmp.Compare(a.Month, b.Month) })
	return out
}

// BuildDashboard summarises the actor's contracts and payments. Employers see
// this month's payouts as a negative figure, workers their net earnings.
func BuildDashboard(role auth.Role, cs []contracts.Contract, ps []payments.Payment, now time.Time) Dashboard {
	d := Dashboard{MonthlyEarnings: decimal.Zero}
	counterparties := map[string]struct{}{}
	for _, c := range cs {
		if c.Status == contracts.StatusActive {
			d.ActiveContracts++
		}
		if role == auth.RoleEmployer {
			counterparties[c.WorkerID] = struct{}{}
		} else {
			counterparties[c.EmployerID] = struct{}{}
		}
	}
	d.Counterparties = len(counterparties)

	year, month, _ := now.Date()
	for _, p := range ps {
		if p.Status == payments.StatusPending {
			d.PendingPayments++
		}
		py, pm, _ := p.PaymentDate.Date()
		if py != year || pm != month {
			continue
		}
		if role == auth.RoleEmployer {
			d.MonthlyEarnings = d.MonthlyEarnings.Sub(decimal.NewFromFloat(p.Amount))
		} else {
			d.MonthlyEarnings = d.MonthlyEarnings.Add(decimal.NewFromFloat(p.NetAmount))
		}
	}

	recentContracts := slices.Clone(cs)
	slices.SortStableFunc(recentContracts, func(a, b contracts.Contract) int { return b.CreatedAt.Compare(a.CreatedAt) })
	d.RecentContracts = head(recentContracts, RecentItems)

	recentPayments := slices.Clone(ps)
	slices.SortStableFunc(recentPayments, func(a, b payments.Payment) int { return b.PaymentDate.Compare(a.PaymentDate) })
	d.RecentPayments = head(recentPayments, RecentItems)
	return d
}

// DueReminders lists contracts ending within a week and pending payments due
// within three days or already overdue. Reminders go to the worker.
func DueReminders(cs []contracts.Contract, ps []payments.Payment, now time.Time) []Reminder {
	today := midnight(now)
	titles := make(map[string]contracts.Contract, len(cs))
	var out []Reminder

	for _, c := range cs {
		titles[c.ID] = c
		if c.EndDate == nil || contracts.Machine.Terminal(c.Status) {
			continue
		}
		days := daysUntil(today, *c.EndDate)
		if days <= 0 || days > ContractReminderDays {
			continue
		}
		out = append(out, Reminder{
			Type:      notifications.TypeContractExpiring,
			EntityID:  c.ID,
			ProfileID: c.WorkerID,
			DueDate:   *c.EndDate,
			DaysLeft:  days,
			Message:   fmt.Sprintf("El contrato %s vence en %d días", c.Title, days),
		})
	}

	for _, p := range ps {
		if p.Status != payments.StatusPending {
			continue
		}
		days := daysUntil(today, p.PaymentDate)
		if days > PaymentReminderDays {
			continue
		}
		c, ok := titles[p.ContractID]
		title := c.Title
		if !ok {
			title = "Contrato desconocido"
		}
		ntype := notifications.TypePaymentDue
		msg := fmt.Sprintf("Pago pendiente para %s en %d días", title, days)
		if days < 0 {
			ntype = notifications.TypePaymentOverdue
			msg = fmt.Sprintf("Pago vencido para %s hace %d días", title, -days)
		}
		out = append(out, Reminder{
			Type:      ntype,
			EntityID:  p.ID,
			ProfileID: c.WorkerID,
			DueDate:   p.PaymentDate,
			DaysLeft:  days,
			Message:   msg,
		})
	}
	return out
}

func daysUntil(today, due time.Time) int {
	return int(math.Ceil(due.Sub(today).Hours() / 24))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func head[T any](list []T, n int) []T {
	if len(list) > n {
		return list[:n]
	}
	if list == nil {
		return []T{}
	}
	return list
}
