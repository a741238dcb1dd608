package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shoplivedeals/livedeals-backend/pkg/logger"
)

type fakeLock struct {
	acquired bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error { f.acquired = false; return nil }

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	registry := NewRegistry(&testJob{name: "success"}, &testJob{name: "fail", err: errors.New("boom")})
	service, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     &fakeLock{},
		Interval: 0,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	ctx := context.Background()
	err = service.runCycle(ctx)
	if err == nil {
		t.Fatal("expected the failing job's error to surface")
	}
	if !strings.Contains(err.Error(), "fail: boom") {
		t.Fatalf("unexpected error: %v", err)
	}
	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if success, ok := jobs[0].(*testJob); ok {
		if success.runs != 1 {
			t.Fatalf("expected success job to run once, ran %d", success.runs)
		}
	} else {
		t.Fatalf("first job type mismatch")
	}
	if failure, ok := jobs[1].(*testJob); ok {
		if failure.runs != 1 {
			t.Fatalf("expected failure job to run once, ran %d", failure.runs)
		}
	} else {
		t.Fatalf("second job type mismatch")
	}
}

func TestRunOncePropagatesJobFailure(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	broken := &testJob{name: "order-expiry", err: errors.New("db unreachable")}
	service, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: NewRegistry(broken),
		Lock:     &fakeLock{},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	err = service.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected RunOnce to return the job failure")
	}
	if !strings.Contains(err.Error(), "order-expiry: db unreachable") {
		t.Fatalf("unexpected error: %v", err)
	}
	if broken.runs != 1 {
		t.Fatalf("expected job to run once, ran %d", broken.runs)
	}
}

func TestRunOnceReturnsNilWhenJobsSucceed(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	service, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: NewRegistry(&testJob{name: "order-expiry"}),
		Lock:     &fakeLock{},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
}

type cancelingJob struct {
	cancel context.CancelFunc
	runs   int
}

func (j *cancelingJob) Name() string { return "canceling" }

func (j *cancelingJob) Run(context.Context) error {
	j.runs++
	j.cancel()
	return nil
}

func TestRunLoopStopsOnContextCancel(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	job := &cancelingJob{cancel: cancel}
	service, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: NewRegistry(job),
		Lock:     &fakeLock{},
		Interval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if job.runs < 1 {
		t.Fatalf("expected at least one cycle before shutdown, ran %d", job.runs)
	}
}
