package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"laborpay/internal/domain/auth"
	"laborpay/internal/domain/contracts"
	"laborpay/internal/domain/payroll"
	"laborpay/internal/domain/status"
)

const contractColumns = `id, employer_id, worker_id, title, description, start_date, end_date,
  salary, payment_frequency, status, signed_by_employer, signed_by_worker, hours_per_week,
  overtime_rate_diurnal, overtime_rate_nocturnal, risk_level, created_at`

func (s *Store) CreateContract(ctx context.Context, c contracts.Contract) (contracts.Contract, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO contracts (id, employer_id, worker_id, title, description, start_date, end_date,
      salary, payment_frequency, status, signed_by_employer, signed_by_worker, hours_per_week,
      overtime_rate_diurnal, overtime_rate_nocturnal, risk_level, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING `+contractColumns,
		c.ID, c.EmployerID, c.WorkerID, c.Title, c.Description, c.StartDate, c.EndDate,
		c.Salary, string(c.PaymentFrequency), string(c.Status), c.SignedByEmployer, c.SignedByWorker, c.HoursPerWeek,
		c.OvertimeRateDiurnal, c.OvertimeRateNocturnal, c.RiskLevel, c.CreatedAt)
	return scanContract(row)
}

func (s *Store) GetContract(ctx context.Context, id string) (contracts.Contract, error) {
	c, err := scanContract(s.DB.QueryRow(ctx, "SELECT "+contractColumns+" FROM contracts WHERE id = $1", id))
	return c, notFound(err, contracts.ErrNotFound)
}

func (s *Store) ListContracts(ctx context.Context, filter contracts.ListFilter) ([]contracts.Contract, error) {
	var w where
	if filter.EmployerID != "" {
		w.add("employer_id = $%d", filter.EmployerID)
	}
	if filter.WorkerID != "" {
		w.add("worker_id = $%d", filter.WorkerID)
	}
	if filter.Status != "" {
		w.add("status = $%d", string(filter.Status))
	}
	query := "SELECT " + contractColumns + " FROM contracts" + w.String() + " ORDER BY created_at DESC, id"
	query += w.page(filter.Limit, filter.Offset)

	rows, err := s.DB.Query(ctx, query, w.args...)
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
	c, err := scanContract(s.DB.QueryRow(ctx, `
    UPDATE contracts SET status = $3
    WHERE id = $1 AND status = $2
    RETURNING `+contractColumns, id, string(from), string(to)))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return contracts.Contract{}, err
	}
	if _, getErr := s.GetContract(ctx, id); getErr != nil {
		return contracts.Contract{}, getErr
	}
	return contracts.Contract{}, fmt.Errorf("%w: contract %s is no longer %s", status.ErrStaleStatus, id, from)
}

func (s *Store) SignContract(ctx context.Context, id string, party auth.Role) (contracts.Contract, error) {
	column, err := signatureColumn(party)
	if err != nil {
		return contracts.Contract{}, err
	}
	c, err := scanContract(s.DB.QueryRow(ctx,
		"UPDATE contracts SET "+column+" = true WHERE id = $1 AND status IN ($2, $3) RETURNING "+contractColumns,
		id, string(contracts.StatusDraft), string(contracts.StatusPending)))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return contracts.Contract{}, err
	}
	current, getErr := s.GetContract(ctx, id)
	if getErr != nil {
		return contracts.Contract{}, getErr
	}
	return contracts.Contract{}, fmt.Errorf("%w: contract is %s", contracts.ErrNotSignable, current.Status)
}

func signatureColumn(party auth.Role) (string, error) {
	switch party {
	case auth.RoleEmployer:
		return "signed_by_employer", nil
	case auth.RoleWorker:
		return "signed_by_worker", nil
	}
	return "", fmt.Errorf("%w: no signature for %q", contracts.ErrForbidden, party)
}

func scanContract(row pgx.Row) (contracts.Contract, error) {
	var c contracts.Contract
	var frequency, st string
	if err := row.Scan(&c.ID, &c.EmployerID, &c.WorkerID, &c.Title, &c.Description, &c.StartDate, &c.EndDate,
		&c.Salary, &frequency, &st, &c.SignedByEmployer, &c.SignedByWorker, &c.HoursPerWeek,
		&c.OvertimeRateDiurnal, &c.OvertimeRateNocturnal, &c.RiskLevel, &c.CreatedAt); err != nil {
		return contracts.Contract{}, err
	}
	c.PaymentFrequency = payroll.Frequency(frequency)
	c.Status = contracts.Status(st)
	return c, nil
}
