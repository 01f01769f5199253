package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"chainrpc/internal/app/port"
	netclient "chainrpc/internal/infrastructure/network/client"
	"chainrpc/internal/pkg/metrics"

	"go.uber.org/zap"
)

// ErrEmptyPool is returned when a dispatch pool is constructed without
// endpoints.
var ErrEmptyPool = errors.New("dispatch pool needs at least one endpoint")

// DispatchPool executes logical RPC calls against a validated set of
// endpoints using randomized-start sequential fallback.
//
// The endpoint list is read-only after construction, so Perform may be called
// concurrently; each individual call still tries one endpoint at a time. A
// transport fault only affects the current call's fallback sequence — the
// pool never demotes an endpoint for future calls.
type DispatchPool struct {
	clients    []port.RPCClient
	retryDelay time.Duration
	logger     *zap.Logger
	intn       func(n int) int
}

// NewDispatchPool creates a pool over the given endpoints. retryDelay is the
// fixed wait inserted before every attempt after a failure.
func NewDispatchPool(clients []port.RPCClient, retryDelay time.Duration, logger *zap.Logger) (*DispatchPool, error) {
	if len(clients) == 0 {
		return nil, ErrEmptyPool
	}
	return &DispatchPool{
		clients:    clients,
		retryDelay: retryDelay,
		logger:     logger.Named("DispatchPool"),
		intn:       rand.Intn,
	}, nil
}

// Perform runs one JSON-RPC call against the pool. It starts at a uniformly
// random index and walks the pool with wraparound:
//
//   - success returns immediately;
//   - a protocol-level rejection (the node understood the call and rejected
//     it) propagates immediately, since another endpoint cannot change a
//     deterministic outcome;
//   - any other fault moves on to the next endpoint after the fixed delay.
//
// When every endpoint has failed, the FIRST transport fault is returned: the
// earliest diagnostic is the most useful one.
func (p *DispatchPool) Perform(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	size := len(p.clients)
	start := p.intn(size)

	var firstErr error
	for attempt := 0; attempt < size; attempt++ {
		if attempt > 0 {
			if err := p.wait(ctx); err != nil {
				return err
			}
		}

		candidate := p.clients[(start+attempt)%size]
		err := candidate.CallContext(ctx, result, method, args...)
		if err == nil {
			metrics.DispatchAttemptsTotal.WithLabelValues("success").Inc()
			return nil
		}

		if netclient.IsProtocolRejection(err) {
			metrics.DispatchAttemptsTotal.WithLabelValues("rejected").Inc()
			p.logger.Debug("Node rejected call, not falling back",
				zap.String("url", candidate.URL()),
				zap.String("method", method),
				zap.Error(err))
			return err
		}

		metrics.DispatchAttemptsTotal.WithLabelValues("transport_fault").Inc()
		p.logger.Warn("Endpoint failed, falling back",
			zap.String("url", candidate.URL()),
			zap.String("method", method),
			zap.Error(err))
		if firstErr == nil {
			firstErr = err
		}
	}

	metrics.PoolExhaustedTotal.Inc()
	p.logger.Error("All endpoints exhausted",
		zap.String("method", method),
		zap.Int("poolSize", size),
		zap.Error(firstErr))
	return firstErr
}

// Size returns the number of endpoints in the pool.
func (p *DispatchPool) Size() int {
	return len(p.clients)
}

// URLs returns the endpoint URLs in pool order.
func (p *DispatchPool) URLs() []string {
	urls := make([]string, len(p.clients))
	for i, c := range p.clients {
		urls[i] = c.URL()
	}
	return urls
}

// Close releases every endpoint connection.
func (p *DispatchPool) Close() {
	for _, c := range p.clients {
		c.Close()
	}
}

func (p *DispatchPool) wait(ctx context.Context) error {
	if p.retryDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
