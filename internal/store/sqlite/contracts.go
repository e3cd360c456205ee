package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/payroll"
	"laborpay/internal/domain/status"
)

const contractColumns = `id, employer_id, worker_id, title, description, start_date, end_date,
  salary, payment_frequency, status, signed_by_employer, signed_by_worker, hours_per_week,
  overtime_rate_diurnal, overtime_rate_nocturnal, risk_level, created_at`

func (s *Store) CreateContract(ctx context.Context, c contracts.Contract) (contracts.Contract, error) {
	if _, err := s.db.ExecContext(ctx, `
    INSERT INTO contracts (`+contractColumns+`)
    VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
  `, c.ID, c.EmployerID, c.WorkerID, c.Title, c.Description, utc(c.StartDate), utcPtr(c.EndDate),
		c.Salary, string(c.PaymentFrequency), string(c.Status), c.SignedByEmployer, c.SignedByWorker, c.HoursPerWeek,
		c.OvertimeRateDiurnal, c.OvertimeRateNocturnal, c.RiskLevel, utc(c.CreatedAt)); err != nil {
		return contracts.Contract{}, err
	}
	return s.GetContract(ctx, c.ID)
}

func (s *Store) GetContract(ctx context.Context, id string) (contracts.Contract, error) {
	return getContract(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getContract(ctx context.Context, q queryer, id string) (contracts.Contract, error) {
	c, err := scanContract(q.QueryRowContext(ctx, "SELECT "+contractColumns+" FROM contracts WHERE id = ?", id))
	return c, notFound(err, contracts.ErrNotFound)
}

func (s *Store) ListContracts(ctx context.Context, filter contracts.ListFilter) ([]contracts.Contract, error) {
	var w where
	if filter.EmployerID != "" {
		w.add("employer_id = ?", filter.EmployerID)
	}
	if filter.WorkerID != "" {
		w.add("worker_id = ?", filter.WorkerID)
	}
	if filter.Status != "" {
		w.add("status = ?", string(filter.Status))
	}
	query := "SELECT " + contractColumns + " FROM contracts" + w.String() + " ORDER BY created_at DESC, id"
	query += w.page(filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []contracts.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateContractStatus(ctx context.Context, id string, from, to contracts.Status) (contracts.Contract, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return contracts.Contract{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "UPDATE contracts SET status = ? WHERE id = ? AND status = ?", string(to), id, string(from))
	if err != nil {
		return contracts.Contract{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return contracts.Contract{}, err
	}
	c, err := getContract(ctx, tx, id)
	if err != nil {
		return contracts.Contract{}, err
	}
	if affected == 0 {
		return contracts.Contract{}, fmt.Errorf("%w: contract %s is no longer %s", status.ErrStaleStatus, id, from)
	}
	return c, tx.Commit()
}

func (s *Store) SignContract(ctx context.Context, id string, party auth.Role) (contracts.Contract, error) {
	var column string
	switch party {
	case auth.RoleEmployer:
		column = "signed_by_employer"
	case auth.RoleWorker:
		column = "signed_by_worker"
	default:
		return contracts.Contract{}, fmt.Errorf("%w: no signature for %q", contracts.ErrForbidden, party)
	}
	res, err := s.db.ExecContext(ctx, "UPDATE contracts SET "+column+" = 1 WHERE id = ? AND status IN (?, ?)",
		id, string(contracts.StatusDraft), string(contracts.StatusPending))
	if err != nil {
		return contracts.Contract{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return contracts.Contract{}, err
	}
	c, err := s.GetContract(ctx, id)
	if err != nil {
		return contracts.Contract{}, err
	}
	if affected == 0 {
		return contracts.Contract{}, fmt.Errorf("%w: contract is %s", contracts.ErrNotSignable, c.Status)
	}
	return c, nil
}

func scanContract(row scanner) (contracts.Contract, error) {
	var c contracts.Contract
	var frequency, st string
	var end sql.NullTime
	if err := row.Scan(&c.ID, &c.EmployerID, &c.WorkerID, &c.Title, &c.Description, &c.StartDate, &end,
		&c.Salary, &frequency, &st, &c.SignedByEmployer, &c.SignedByWorker, &c.HoursPerWeek,
		&c.OvertimeRateDiurnal, &c.OvertimeRateNocturnal, &c.RiskLevel, &c.CreatedAt); err != nil {
		return contracts.Contract{}, err
	}
	c.EndDate = timePtr(end)
	c.PaymentFrequency = payroll.Frequency(frequency)
	c.Status = contracts.Status(st)
	return c, nil
}
