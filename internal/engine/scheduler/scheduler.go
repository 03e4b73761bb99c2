// Package scheduler runs batches of stylesheet compilations.
package scheduler

import (
	"context"
	"errors"
	"maps"
	"sync"

	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/lesscache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scheduler runs a batch of compile requests with bounded parallelism and
// tracks the status of each stylesheet.
type Scheduler struct {
	logger ports.Logger

	mu     sync.RWMutex
	status map[string]domain.StylesheetStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(logger ports.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		status: make(map[string]domain.StylesheetStatus),
	}
}

func (s *Scheduler) updateStatus(name string, status domain.StylesheetStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name] = status
}

// Statuses returns a copy of every stylesheet status of the last run.
func (s *Scheduler) Statuses() map[string]domain.StylesheetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.status)
}

// Run compiles reqs through builder, at most parallelism at a time. A
// parallelism below 1 runs serially. Results are returned in request order,
// with nil entries for failed requests. A failing stylesheet does not stop
// the others; all failures are joined with domain.ErrBatchFailed.
func (s *Scheduler) Run(
	ctx context.Context,
	builder ports.Builder,
	reqs []domain.Request,
	parallelism int,
) ([]*domain.Result, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	s.mu.Lock()
	s.status = make(map[string]domain.StylesheetStatus, len(reqs))
	for _, req := range reqs {
		s.status[req.Key()] = domain.StatusPending
	}
	s.mu.Unlock()

	results := make([]*domain.Result, len(reqs))
	var (
		errMu sync.Mutex
		errs  []error
	)

	var g errgroup.Group
	g.SetLimit(parallelism)

	for i, req := range reqs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			name := req.Key()
			if ctx.Err() != nil {
				return nil
			}
			s.updateStatus(name, domain.StatusRunning)

			res, err := builder.Compile(ctx, req)
			if err != nil {
				s.updateStatus(name, domain.StatusFailed)

				errMu.Lock()
				errs = append(errs, zerr.With(zerr.Wrap(err, "stylesheet failed"), "stylesheet", name))
				errMu.Unlock()
				return nil
			}

			status := domain.StatusCached
			if res.Compiled {
				status = domain.StatusCompiled
			}
			s.updateStatus(name, status)
			s.logger.Debug("stylesheet done", "stylesheet", name, "status", string(status))
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		errs = append(errs, ctx.Err())
	}
	if len(errs) > 0 {
		return results, errors.Join(append([]error{domain.ErrBatchFailed}, errs...)...)
	}
	return results, nil
}
