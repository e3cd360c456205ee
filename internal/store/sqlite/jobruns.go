package sqlite

import (
	"context"

	"github.com/google/uuid"
)

func (s *Store) StartRun(ctx context.Context, jobType string) (string, error) {
	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `
    INSERT INTO job_runs (id, job_type, status, started_at) VALUES (?,?,'running',?)
  `, id, jobType, s.now().UTC()); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) FinishRun(ctx context.Context, id, runStatus string, details []byte) error {
	_, err := s.db.ExecContext(ctx, `
    UPDATE job_runs SET status = ?, details_json = ?, completed_at = ? WHERE id = ?
  `, runStatus, nullString(details), s.now().UTC(), id)
	return err
}
