package orderpoller

import (
	"context"
	"log"
	"time"

	"paywatch/internal/application/dto"
	portsin "paywatch/internal/application/ports/in"
)

// Worker sweeps pending orders on a fixed interval so payments settle even
// when nobody polls the status endpoint.
type Worker struct {
	enabled      bool
	pollInterval time.Duration
	batchSize    int
	useCase      portsin.PollPendingOrdersUseCase
	logger       *log.Logger
}

func NewWorker(
	enabled bool,
	pollInterval time.Duration,
	batchSize int,
	useCase portsin.PollPendingOrdersUseCase,
	logger *log.Logger,
) *Worker {
	return &Worker{
		enabled:      enabled,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		useCase:      useCase,
		logger:       logger,
	}
}

func (w *Worker) Enabled() bool {
	return w != nil && w.enabled
}

func (w *Worker) Start(ctx context.Context) {
	if w == nil || !w.enabled || w.useCase == nil {
		return
	}

	w.logf(
		"order poller started poll_interval=%s batch_size=%d",
		w.pollInterval,
		w.batchSize,
	)

	w.runCycle(ctx)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logf("order poller stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) {
	startedAt := time.Now().UTC()
	output, appErr := w.useCase.Execute(ctx, dto.PollPendingOrdersCommand{
		Now:       startedAt,
		BatchSize: w.batchSize,
	})
	if appErr != nil {
		w.logf(
			"order poll cycle failed code=%s message=%s details=%v",
			appErr.Code,
			appErr.Message,
			appErr.Details,
		)
		return
	}

	w.logf(
		"order poll cycle completed scanned=%d paid=%d expired=%d waiting=%d errors=%d latency_ms=%d",
		output.Scanned,
		output.Paid,
		output.Expired,
		output.Waiting,
		output.Errors,
		time.Since(startedAt).Milliseconds(),
	)
}

func (w *Worker) logf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Printf(format, args...)
}
