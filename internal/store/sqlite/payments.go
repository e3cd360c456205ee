package sqlite

import (
	"context"
	"fmt"

	"laborpay/internal/domain/payments"
	"laborpay/internal/domain/status"
)

const paymentColumns = `id, contract_id, amount, status, payment_date, payment_method, hours_worked,
  base_salary, overtime_pay, overtime_hours_diurnal, overtime_hours_nocturnal, tax_deductions,
  social_security_deductions, employer_contributions, net_amount, created_at`

func (s *Store) CreatePayment(ctx context.Context, p payments.Payment) (payments.Payment, error) {
	if _, err := s.db.ExecContext(ctx, `
    INSERT INTO payments (`+paymentColumns+`)
    VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
  `, p.ID, p.ContractID, p.Amount, string(p.Status), utc(p.PaymentDate), string(p.PaymentMethod), p.HoursWorked,
		p.BaseSalary, p.OvertimePay, p.OvertimeHoursDiurnal, p.OvertimeHoursNocturnal, p.TaxDeductions,
		p.SocialSecurityDeductions, p.EmployerContributions, p.NetAmount, utc(p.CreatedAt)); err != nil {
		return payments.Payment{}, err
	}
	return s.GetPayment(ctx, p.ID)
}

func (s *Store) GetPayment(ctx context.Context, id string) (payments.Payment, error) {
	return getPayment(ctx, s.db, id)
}

func getPayment(ctx context.Context, q queryer, id string) (payments.Payment, error) {
	p, err := scanPayment(q.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payments WHERE id = ?", id))
	return p, notFound(err, payments.ErrNotFound)
}

func (s *Store) ListPayments(ctx context.Context, filter payments.ListFilter) ([]payments.Payment, error) {
	var w where
	if len(filter.ContractIDs) > 0 {
		w.in("contract_id", filter.ContractIDs)
	}
	if filter.Status != "" {
		w.add("status = ?", string(filter.Status))
	}
	query := "SELECT " + paymentColumns + " FROM payments" + w.String() + " ORDER BY payment_date DESC, created_at DESC, id"
	query += w.page(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, w.args...)
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
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return payments.Payment{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "UPDATE payments SET status = ? WHERE id = ? AND status = ?", string(to), id, string(from))
	if err != nil {
		return payments.Payment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return payments.Payment{}, err
	}
	p, err := getPayment(ctx, tx, id)
	if err != nil {
		return payments.Payment{}, err
	}
	if affected == 0 {
		return payments.Payment{}, fmt.Errorf("%w: payment %s is no longer %s", status.ErrStaleStatus, id, from)
	}
	return p, tx.Commit()
}

func scanPayment(row scanner) (payments.Payment, error) {
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
