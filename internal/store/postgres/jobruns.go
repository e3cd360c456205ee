package postgres

import (
	"context"

	"github.com/google/uuid"
)

func (s *Store) StartRun(ctx context.Context, jobType string) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.Exec(ctx, `
    INSERT INTO job_runs (id, job_type, status)
    VALUES ($1,$2,'running')
  `, id, jobType)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) FinishRun(ctx context.Context, id, runStatus string, details []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id = $3
  `, runStatus, rawOrNil(details), id)
	return err
}
