package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

const (
	JobReminders = "reminders"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunStore records each job execution in job_runs.
type RunStore interface {
	StartRun(ctx context.Context, jobType string) (string, error)
	FinishRun(ctx context.Context, id, status string, details []byte) error
}

type RunFunc func(ctx context.Context) (any, error)

type Service struct {
	runs  RunStore
	queue chan job
	wg    sync.WaitGroup
}

type job struct {
	Type string
	Run  RunFunc
}

func New(runs RunStore) *Service {
	return &Service{
		runs:  runs,
		queue: make(chan job, 128),
	}
}

// Start launches the worker and one ticker per scheduled job. Everything stops
// when ctx is cancelled; Wait blocks until then.
func (s *Service) Start(ctx context.Context, schedule map[string]Schedule) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker(ctx)
	}()
	for jobType, sched := range schedule {
		if sched.Interval <= 0 || sched.Run == nil {
			continue
		}
		jobType, sched := jobType, sched
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.every(ctx, jobType, sched)
		}()
	}
}

func (s *Service) Wait() {
	s.wg.Wait()
}

type Schedule struct {
	Interval time.Duration
	Run      RunFunc
}

func (s *Service) Enqueue(jobType string, run RunFunc) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.runs != nil {
		id, err := s.runs.StartRun(ctx, j.Type)
		if err != nil {
			slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
		}
		runID = id
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		details = map[string]any{"error": err.Error()}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.runs.FinishRun(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) every(ctx context.Context, jobType string, sched Schedule) {
	ticker := time.NewTicker(sched.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(jobType, sched.Run)
		}
	}
}
