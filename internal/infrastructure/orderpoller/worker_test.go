//go:build !integration

package orderpoller

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"paywatch/internal/application/dto"
	apperrors "paywatch/internal/shared_kernel/errors"
)

type fakePollUseCase struct {
	mu       sync.Mutex
	calls    int
	received dto.PollPendingOrdersCommand
	err      *apperrors.AppError
}

func (f *fakePollUseCase) Execute(_ context.Context, command dto.PollPendingOrdersCommand) (dto.PollPendingOrdersOutput, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.received = command
	return dto.PollPendingOrdersOutput{}, f.err
}

func (f *fakePollUseCase) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakePollUseCase) lastCommand() dto.PollPendingOrdersCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.received
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestWorkerDisabledDoesNotRun(t *testing.T) {
	useCase := &fakePollUseCase{}
	worker := NewWorker(false, time.Millisecond, 10, useCase, testLogger())

	if worker.Enabled() {
		t.Fatalf("expected worker to report disabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	worker.Start(ctx)

	if useCase.callCount() != 0 {
		t.Fatalf("expected no poll cycles when disabled, got %d", useCase.callCount())
	}
}

func TestWorkerRunsImmediateCycleWithBatchSize(t *testing.T) {
	useCase := &fakePollUseCase{}
	worker := NewWorker(true, time.Hour, 25, useCase, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for useCase.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected an immediate poll cycle")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done

	if got := useCase.lastCommand().BatchSize; got != 25 {
		t.Fatalf("expected batch size 25, got %d", got)
	}
	if useCase.lastCommand().Now.IsZero() {
		t.Fatalf("expected poll time to be set")
	}
}

func TestWorkerKeepsTickingAfterFailedCycle(t *testing.T) {
	useCase := &fakePollUseCase{err: apperrors.NewRetryable("db_unavailable", "database is unavailable", nil)}
	worker := NewWorker(true, 5*time.Millisecond, 10, useCase, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for useCase.callCount() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected repeated cycles despite failures, got %d", useCase.callCount())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestNilWorkerIsSafe(t *testing.T) {
	var worker *Worker

	if worker.Enabled() {
		t.Fatalf("expected nil worker to report disabled")
	}
	worker.Start(context.Background())
}
