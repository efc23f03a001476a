package workers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"social-lab/errors"
	"social-lab/mocks"
	"social-lab/observability"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSupervisor_RestartOnPanic(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	workerMock := mocks.NewMockWorker(ctrl)

	var calls atomic.Int32
	workerMock.EXPECT().
		Run(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			calls.Add(1)
			panic("boom")
		}).
		AnyTimes()

	sup := NewSupervisor(log)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		sup.Add(workerMock).Run(ctx)
		close(done)
	}()

	// Waiting for panics and restarts
	<-done

	req.GreaterOrEqual(calls.Load(), int32(2))
}

func TestSupervisor_StopOnSuccess(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)

	workerMock := mocks.NewMockWorker(ctrl)

	// Given a worker running only once
	workerMock.EXPECT().
		Run(gomock.Any()).
		Return(nil).
		Times(1)

	sup := NewSupervisor(log)

	done := make(chan struct{})
	go func() {
		sup.Add(workerMock).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
		// Then supervisor detected a success and stopped
	case <-time.After(500 * time.Millisecond):
		req.Fail("Supervisor should have stopped after worker success")
	}
}

func TestSupervisor_Stop_Cancels_Workers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	workerMock := mocks.NewMockWorker(ctrl)
	started := make(chan struct{})

	// Given a worker blocking until cancellation
	workerMock.EXPECT().
		Run(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}).
		Times(1)

	sup := NewSupervisor(slog.Default())
	done := make(chan struct{})
	go func() {
		sup.Add(workerMock).Run(context.Background())
		close(done)
	}()
	<-started

	// When the supervisor is stopped
	sup.Stop()

	// Then Run returns without restarting the worker
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Supervisor should have stopped")
	}
}

type failingWorker struct{ calls atomic.Int32 }

func (w *failingWorker) Run(context.Context) error {
	w.calls.Add(1)
	return stderrors.New("connection reset")
}

func TestSupervisor_Backs_Off_Between_Restarts(t *testing.T) {
	req := require.New(t)
	worker := &failingWorker{}
	before := testutil.ToFloat64(observability.WorkerRestarts.WithLabelValues("failingWorker"))

	// Given a worker failing on every run
	ctx, cancel := context.WithTimeout(context.Background(), 700*time.Millisecond)
	defer cancel()

	// When it is supervised until the deadline
	NewSupervisor(slog.Default()).Add(worker).Run(ctx)

	// Then it was restarted after 200ms then 400ms, not in a tight loop
	req.Equal(int32(3), worker.calls.Load())
	restarts := testutil.ToFloat64(observability.WorkerRestarts.WithLabelValues("failingWorker")) - before
	req.GreaterOrEqual(restarts, float64(2))
}

func TestRunGuarded_Wraps_Panics(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	workerMock := mocks.NewMockWorker(ctrl)
	workerMock.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) error {
		panic("boom")
	})

	err := runGuarded(context.Background(), workerMock)

	req.True(stderrors.Is(err, errors.ErrWorkerPanic))
	req.Contains(err.Error(), "boom")
}
