package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeResult struct {
	err error
}

func (r *fakeResult) GetError() error {
	return r.err
}

type fakeJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *int32
}

func (j *fakeJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &fakeResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &fakeResult{err: errors.New("job error")}
	}
	return &fakeResult{}
}

func TestNewPool_WorkerFloor(t *testing.T) {
	if p := NewPool(5); p.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p.workers)
	}
	if p := NewPool(0); p.workers != 1 {
		t.Errorf("expected 1 worker for 0 input, got %d", p.workers)
	}
	if p := NewPool(-2); p.workers != 1 {
		t.Errorf("expected 1 worker for negative input, got %d", p.workers)
	}
}

func TestPool_ExecutesEveryJob(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var executed int32
	const count = 10
	for i := 0; i < count; i++ {
		pool.Submit(&fakeJob{executed: &executed})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}
	if got := atomic.LoadInt32(&executed); got != count {
		t.Errorf("expected %d executions, got %d", count, got)
	}
}

func TestPool_ErrorsAreResultsNotPanics(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	pool.Submit(&fakeJob{shouldErr: true})
	pool.Submit(&fakeJob{})
	pool.Submit(&fakeJob{shouldErr: true})

	results := pool.Wait()
	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 2 {
		t.Errorf("expected 2 failed results, got %d", failures)
	}
}

func TestPool_ShutdownCancelsInFlight(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	var executed int32
	pool.Submit(&fakeJob{duration: 5 * time.Second, executed: &executed})

	time.Sleep(50 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not cancel the in-flight job")
	}
}
