// Package pipeline answers call requests arriving as messages: it extracts a
// batch of requests, runs each through the binding layer, delivers the call
// results, and only then commits the batch.
//
// Every decodable request gets exactly one result on the sink, including
// requests the binding layer rejects. A batch whose results cannot be written
// is retried as-is until it loads or the pipeline stops; nothing is committed
// in between, so an unanswered request is never skipped by a later commit.
// Messages that are not call requests at all are committed with their batch
// and produce no result.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/tempconv-service/internal/domain"
	"github.com/couchcryptid/tempconv-service/internal/observability"
)

// BatchExtractor reads up to batchSize raw request messages from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer turns a raw request message into a serialized call result. An
// error means the message is not a call request and has nothing to answer.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes call results to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline answers batches of call requests.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	answered    atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once the pipeline has delivered at least one
// call result.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.answered.Load() {
		return errors.New("pipeline has not delivered any call results yet")
	}
	return nil
}

// Ready reports whether at least one call result has been delivered.
func (p *Pipeline) Ready() bool {
	return p.answered.Load()
}

// Run answers request batches until the context is cancelled. Extract
// failures back off before the next attempt. Run returns nil on cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	extractBackoff := initialBackoff
	for ctx.Err() == nil {
		requests, err := p.extractor.ExtractBatch(ctx, p.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("extract call requests failed", "error", err, "retry_in", extractBackoff)
			if !sleepWithContext(ctx, extractBackoff) {
				break
			}
			extractBackoff = nextBackoff(extractBackoff, maxBackoff)
			continue
		}
		extractBackoff = initialBackoff

		if len(requests) == 0 {
			continue
		}
		if !p.answer(ctx, requests) {
			break
		}
	}

	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// answer calls every request in the batch, delivers the results, and commits
// the batch. It returns false if the context ended before delivery, leaving
// the batch uncommitted for redelivery.
func (p *Pipeline) answer(ctx context.Context, requests []domain.RawEvent) bool {
	start := time.Now()
	p.metrics.MessagesConsumed.Add(float64(len(requests)))
	p.metrics.BatchSize.Observe(float64(len(requests)))

	results := p.call(ctx, requests)
	if len(results) > 0 {
		if !p.deliver(ctx, results) {
			return false
		}
		p.metrics.MessagesProduced.Add(float64(len(results)))
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.answered.Store(true)
	}

	p.commit(ctx, requests)
	return true
}

// call produces one result per decodable request. Undecodable messages are
// logged and counted but still committed with the batch.
func (p *Pipeline) call(ctx context.Context, requests []domain.RawEvent) []domain.OutputEvent {
	results := make([]domain.OutputEvent, 0, len(requests))
	for _, raw := range requests {
		res, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("undecodable call request, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			continue
		}
		results = append(results, res)
	}
	return results
}

// deliver writes results, retrying the same batch with exponential backoff
// until it succeeds. Returns false only when the context ends first.
func (p *Pipeline) deliver(ctx context.Context, results []domain.OutputEvent) bool {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		err := p.loader.LoadBatch(ctx, results)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		p.metrics.DeliveryRetries.Inc()
		p.logger.Error("deliver call results failed",
			"error", err,
			"results", len(results),
			"attempt", attempt,
			"retry_in", backoff,
		)
		if !sleepWithContext(ctx, backoff) {
			return false
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
}

// commit acknowledges every request in the batch, undecodable ones included.
func (p *Pipeline) commit(ctx context.Context, requests []domain.RawEvent) {
	for _, raw := range requests {
		if raw.Commit == nil {
			continue
		}
		if err := raw.Commit(ctx); err != nil {
			p.logger.Warn("commit call request failed", "error", err,
				"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
		}
	}
}

func nextBackoff(current, limit time.Duration) time.Duration {
	if next := current * 2; next < limit {
		return next
	}
	return limit
}

// sleepWithContext waits for d and reports false if ctx ended first.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
