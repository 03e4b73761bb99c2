package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lesscache/internal/core/domain"
	"go.trai.ch/lesscache/internal/core/ports/mocks"
	"go.trai.ch/lesscache/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func newScheduler(t *testing.T) (*scheduler.Scheduler, *mocks.MockBuilder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return scheduler.NewScheduler(mockLogger), mocks.NewMockBuilder(ctrl)
}

func requests(names ...string) []domain.Request {
	reqs := make([]domain.Request, len(names))
	for i, n := range names {
		reqs[i] = domain.Request{Name: n, Source: n + ".less"}
	}
	return reqs
}

func TestScheduler_Run_StatusesAndOrder(t *testing.T) {
	s, builder := newScheduler(t)

	builder.EXPECT().Compile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.Request) (*domain.Result, error) {
			switch req.Name {
			case "admin":
				return &domain.Result{Name: "admin", Compiled: true}, nil
			case "print":
				return nil, domain.ErrCompileFailed
			default:
				return &domain.Result{Name: req.Name}, nil
			}
		}).Times(3)

	results, err := s.Run(context.Background(), builder, requests("admin", "print", "theme"), 1)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrBatchFailed)
	require.ErrorIs(t, err, domain.ErrCompileFailed)

	require.Len(t, results, 3)
	assert.Equal(t, "admin", results[0].Name)
	assert.Nil(t, results[1])
	assert.Equal(t, "theme", results[2].Name)

	assert.Equal(t, map[string]domain.StylesheetStatus{
		"admin": domain.StatusCompiled,
		"print": domain.StatusFailed,
		"theme": domain.StatusCached,
	}, s.Statuses())
	assert.NotContains(t, s.Statuses(), "unknown")
}

func TestScheduler_Run_Empty(t *testing.T) {
	s, builder := newScheduler(t)

	results, err := s.Run(context.Background(), builder, nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, s.Statuses())
}

func TestScheduler_Run_SerialByDefault(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, builder := newScheduler(t)

		var mu sync.Mutex
		running, maxRunning := 0, 0
		builder.EXPECT().Compile(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req domain.Request) (*domain.Result, error) {
				mu.Lock()
				running++
				maxRunning = max(maxRunning, running)
				mu.Unlock()

				time.Sleep(10 * time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
				return &domain.Result{Name: req.Name}, nil
			}).Times(3)

		_, err := s.Run(context.Background(), builder, requests("a", "b", "c"), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, maxRunning)
	})
}

func TestScheduler_Run_Parallel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, builder := newScheduler(t)

		started := make(chan string, 3)
		release := make(chan struct{})
		builder.EXPECT().Compile(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req domain.Request) (*domain.Result, error) {
				started <- req.Name
				<-release
				return &domain.Result{Name: req.Name, Compiled: true}, nil
			}).Times(3)

		done := make(chan error)
		go func() {
			_, err := s.Run(context.Background(), builder, requests("a", "b", "c"), 2)
			done <- err
		}()

		// Two run at once, the third waits for a free slot.
		synctest.Wait()
		assert.Len(t, started, 2)
		statuses := s.Statuses()
		running := 0
		for _, st := range statuses {
			if st == domain.StatusRunning {
				running++
			}
		}
		assert.Equal(t, 2, running)

		close(release)
		require.NoError(t, <-done)
		assert.Len(t, started, 3)
		for _, st := range s.Statuses() {
			assert.Equal(t, domain.StatusCompiled, st)
		}
	})
}

func TestScheduler_Run_ContextCanceled(t *testing.T) {
	s, builder := newScheduler(t)

	ctx, cancel := context.WithCancel(context.Background())
	builder.EXPECT().Compile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.Request) (*domain.Result, error) {
			cancel()
			return &domain.Result{Name: req.Name}, nil
		}).Times(1)

	results, err := s.Run(ctx, builder, requests("a", "b"), 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
	assert.Equal(t, domain.StatusPending, s.Statuses()["b"])
}

func TestScheduler_Run_ResetsStatusesBetweenRuns(t *testing.T) {
	s, builder := newScheduler(t)
	builder.EXPECT().Compile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.Request) (*domain.Result, error) {
			return nil, errors.New("boom")
		})
	builder.EXPECT().Compile(gomock.Any(), gomock.Any()).
		Return(&domain.Result{Name: "b"}, nil)

	_, err := s.Run(context.Background(), builder, requests("a"), 1)
	require.Error(t, err)

	_, err = s.Run(context.Background(), builder, requests("b"), 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.StylesheetStatus{"b": domain.StatusCached}, s.Statuses())
}
