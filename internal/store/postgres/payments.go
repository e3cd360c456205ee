package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"laborpay/internal/domain/payments"
	"laborpay/internal/domain/status"
)

const paymentColumns = `id, contract_id, amount, status, payment_date, payment_method, hours_worked,
  base_salary, overtime_pay, overtime_hours_diurnal, overtime_hours_nocturnal, tax_deductions,
  social_security_deductions, employer_contributions, net_amount, created_at`

func (s *Store) CreatePayment(ctx context.Context, p payments.Payment) (payments.Payment, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO payments (id, contract_id, amount, status, payment_date, payment_method, hours_worked,
      base_salary, overtime_pay, overtime_hours_diurnal, overtime_hours_nocturnal, tax_deductions,
      social_security_deductions, employer_contributions, net_amount, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
    RETURNING `+paymentColumns,
		p.ID, p.ContractID, p.Amount, string(p.Status), p.PaymentDate, string(p.PaymentMethod), p.HoursWorked,
		p.BaseSalary, p.OvertimePay, p.OvertimeHoursDiurnal, p.OvertimeHoursNocturnal, p.TaxDeductions,
		p.SocialSecurityDeductions, p.EmployerContributions, p.NetAmount, p.CreatedAt)
	return scanPayment(row)
}

func (s *Store) GetPayment(ctx context.Context, id string) (payments.Payment, error) {
	p, err := scanPayment(s.DB.QueryRow(ctx, "SELECT "+paymentColumns+" FROM payments WHERE id = $1", id))
	return p, notFound(err, payments.ErrNotFound)
}

func (s *Store) ListPayments(ctx context.Context, filter payments.ListFilter) ([]payments.Payment, error) {
	var w where
	if len(filter.ContractIDs) > 0 {
		w.add("contract_id = ANY($%d)", filter.ContractIDs)
	}
	if filter.Status != "" {
		w.add("status = $%d", string(filter.Status))
	}
	query := "SELECT " + paymentColumns + " FROM payments" + w.String() + " ORDER BY payment_date DESC, created_at DESC, id"
	query += w.page(filter.Limit, filter.Offset)

	rows, err := s.DB.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []payments.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, from, to payments.Status) (payments.Payment, error) {
	p, err := scanPayment(s.DB.QueryRow(ctx, `
    UPDATE payments SET status = $3
    WHERE id = $1 AND status = $2
    RETURNING `+paymentColumns, id, string(from), string(to)))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payments.Payment{}, err
	}
	if _, getErr := s.GetPayment(ctx, id); getErr != nil {
		return payments.Payment{}, getErr
	}
	return payments.Payment{}, fmt.Errorf("%w: payment %s is no longer %s", status.ErrStaleStatus, id, from)
}

func scanPayment(row pgx.Row) (payments.Payment, error) {
	var p payments.Payment
	var st, method string
	if err := row.Scan(&p.ID, &p.ContractID, &p.Amount, &st, &p.PaymentDate, &method, &p.HoursWorked,
		&p.BaseSalary, &p.OvertimePay, &p.OvertimeHoursDiurnal, &p.OvertimeHoursNocturnal, &p.TaxDeductions,
		&p.SocialSecurityDeductions, &p.EmployerContributions, &p.NetAmount, &p.CreatedAt); err != nil {
		return payments.Payment{}, err
	}
	p.Status = payments.Status(st)
	p.PaymentMethod = payments.Method(method)
	return p, nil
}
