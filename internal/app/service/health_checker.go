package service

import (
	"context"
	"time"

	"chainrpc/internal/app/port"
	"chainrpc/internal/domain/entity"
	"chainrpc/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HealthChecker probes candidate endpoints with a bounded-time liveness call
// and partitions them into working and failed.
//
// The scan is strictly sequential: one probe completes (or times out) before
// the next begins, so progress events arrive in input order and the whole
// scan finishes within len(candidates) × probeTimeout.
type HealthChecker struct {
	probeTimeout time.Duration
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// NewHealthChecker creates a health checker. probesPerSecond <= 0 disables
// probe pacing.
func NewHealthChecker(probeTimeout time.Duration, probesPerSecond float64, logger *zap.Logger) *HealthChecker {
	var limiter *rate.Limiter
	if probesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(probesPerSecond), 1)
	}
	return &HealthChecker{
		probeTimeout: probeTimeout,
		limiter:      limiter,
		logger:       logger.Named("HealthChecker"),
	}
}

// Validate probes each candidate in order and returns the working ones as an
// order-preserving subsequence, together with their URLs. Failed candidates
// are closed and their errors discarded: a dead public endpoint is expected,
// not escalated. If nothing survives, entity.ErrNoWorkingEndpoints is
// returned and every candidate has been closed.
func (h *HealthChecker) Validate(ctx context.Context, candidates []port.RPCClient, sink entity.ProgressSink) ([]port.RPCClient, []string, error) {
	total := len(candidates)
	working := make([]port.RPCClient, 0, total)
	workingURLs := make([]string, 0, total)

	for i, candidate := range candidates {
		if h.limiter != nil {
			if err := h.limiter.Wait(ctx); err != nil {
				closeAll(working)
				closeAll(candidates[i:])
				return nil, nil, err
			}
		}

		emit(sink, entity.ProgressEvent{
			Current: i + 1,
			Total:   total,
			URL:     candidate.URL(),
			Status:  entity.ProgressChecking,
		})

		probeCtx, cancel := context.WithTimeout(ctx, h.probeTimeout)
		height, err := candidate.BlockNumber(probeCtx)
		cancel()

		if err != nil || height == 0 {
			h.logger.Debug("Endpoint failed liveness probe",
				zap.String("url", candidate.URL()),
				zap.Uint64("height", height),
				zap.Error(err))
			metrics.ProbesTotal.WithLabelValues("failed").Inc()
			emit(sink, entity.ProgressEvent{
				Current: i + 1,
				Total:   total,
				URL:     candidate.URL(),
				Status:  entity.ProgressFailed,
			})
			candidate.Close()
			continue
		}

		metrics.ProbesTotal.WithLabelValues("success").Inc()
		emit(sink, entity.ProgressEvent{
			Current: i + 1,
			Total:   total,
			URL:     candidate.URL(),
			Status:  entity.ProgressSuccess,
		})
		working = append(working, candidate)
		workingURLs = append(workingURLs, candidate.URL())
	}

	if len(working) == 0 {
		return nil, nil, entity.ErrNoWorkingEndpoints
	}

	h.logger.Info("Endpoint validation finished",
		zap.Int("candidates", total),
		zap.Int("working", len(working)))
	return working, workingURLs, nil
}

func emit(sink entity.ProgressSink, event entity.ProgressEvent) {
	if sink != nil {
		sink(event)
	}
}

func closeAll(clients []port.RPCClient) {
	for _, c := range clients {
		c.Close()
	}
}
