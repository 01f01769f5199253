package service

import (
	"context"
	"time"

	"chainrpc/internal/app/port"
	"chainrpc/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service composes the catalog, the health checker and the dialer into the
// session entry point: CreateClient builds a fallback client for one chain.
type Service struct {
	catalog    *CatalogService
	health     *HealthChecker
	dialer     port.RPCDialer
	maxAge     time.Duration
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewService wires the fallback-client service. maxAge is the catalog
// staleness window; retryDelay the fixed backoff between pool attempts.
func NewService(
	catalog *CatalogService,
	health *HealthChecker,
	dialer port.RPCDialer,
	maxAge time.Duration,
	retryDelay time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		catalog:    catalog,
		health:     health,
		dialer:     dialer,
		maxAge:     maxAge,
		retryDelay: retryDelay,
		logger:     logger.Named("FallbackService"),
	}
}

// Client is a ready-to-use RPC client for one chain. Every call is routed
// through the underlying dispatch pool; fallback across endpoints is
// invisible to the caller.
type Client struct {
	chain entity.Chain
	pool  *DispatchPool
}

// Chain returns the catalog entry this client was built from.
func (c *Client) Chain() entity.Chain {
	return c.chain
}

// Call performs one JSON-RPC call with pool fallback.
func (c *Client) Call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return c.pool.Perform(ctx, result, method, args...)
}

// BlockNumber returns the chain head height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var height hexutil.Uint64
	if err := c.Call(ctx, &height, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(height), nil
}

// EndpointURLs returns the pool's endpoint URLs in dispatch order.
func (c *Client) EndpointURLs() []string {
	return c.pool.URLs()
}

// Close releases every endpoint connection held by the client.
func (c *Client) Close() {
	c.pool.Close()
}

// CreateClient builds a fallback client for chainID: refresh the catalog if
// stale, look the chain up, dial its candidate endpoints and, unless the
// entry was already validated by a previous session, run the liveness scan
// and persist the narrowed endpoint list.
//
// sink may be nil to opt out of progress reporting.
func (s *Service) CreateClient(ctx context.Context, chainID int64, sink entity.ProgressSink) (*Client, error) {
	if err := s.catalog.RefreshIfStale(ctx, s.maxAge); err != nil {
		return nil, err
	}

	chain, err := s.catalog.Get(chainID)
	if err != nil {
		return nil, err
	}
	if len(chain.RPC) == 0 {
		return nil, entity.ErrNoWorkingEndpoints
	}

	candidates := s.dial(ctx, chain.RPC)
	if len(candidates) == 0 {
		return nil, entity.ErrNoWorkingEndpoints
	}

	working := candidates
	if !chain.Validated {
		var workingURLs []string
		working, workingURLs, err = s.health.Validate(ctx, candidates, sink)
		if err != nil {
			return nil, err
		}
		if len(workingURLs) < len(chain.RPC) {
			if err := s.catalog.RecordValidated(chainID, workingURLs); err != nil {
				closeAll(working)
				return nil, err
			}
		}
	}

	pool, err := NewDispatchPool(working, s.retryDelay, s.logger)
	if err != nil {
		closeAll(working)
		return nil, err
	}

	s.logger.Info("Client ready",
		zap.Int64("chainID", chainID),
		zap.String("chain", chain.Name),
		zap.Int("poolSize", pool.Size()),
		zap.Bool("revalidated", !chain.Validated))
	return &Client{chain: chain, pool: pool}, nil
}

// RefreshCatalogIfStale applies the same staleness rule as CreateClient but
// without building a client. Idempotent while the catalog is fresh.
func (s *Service) RefreshCatalogIfStale(ctx context.Context) error {
	return s.catalog.RefreshIfStale(ctx, s.maxAge)
}

// ValidateChain re-runs the liveness scan for one chain regardless of its
// validated flag and persists the narrowed list when endpoints were dropped.
// All connections opened for the scan are closed before returning.
func (s *Service) ValidateChain(ctx context.Context, chainID int64, sink entity.ProgressSink) ([]string, error) {
	chain, err := s.catalog.Get(chainID)
	if err != nil {
		return nil, err
	}
	if len(chain.RPC) == 0 {
		return nil, entity.ErrNoWorkingEndpoints
	}

	candidates := s.dial(ctx, chain.RPC)
	if len(candidates) == 0 {
		return nil, entity.ErrNoWorkingEndpoints
	}

	working, workingURLs, err := s.health.Validate(ctx, candidates, sink)
	if err != nil {
		return nil, err
	}
	closeAll(working)

	if len(workingURLs) < len(chain.RPC) {
		if err := s.catalog.RecordValidated(chainID, workingURLs); err != nil {
			return nil, err
		}
	}
	return workingURLs, nil
}

// Chains returns a snapshot of all catalog entries.
func (s *Service) Chains() (map[int64]entity.Chain, error) {
	return s.catalog.Entries()
}

// Warm validates several chains ahead of traffic. Chains are processed with
// at most concurrency sessions in flight; inside each session the endpoint
// scan stays strictly sequential. A chain that fails to warm is logged and
// skipped.
func (s *Service) Warm(ctx context.Context, chainIDs []int64, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for _, chainID := range chainIDs {
		id := chainID
		eg.Go(func() error {
			client, err := s.CreateClient(egCtx, id, nil)
			if err != nil {
				s.logger.Warn("Failed to warm chain",
					zap.Int64("chainID", id),
					zap.Error(err))
				return nil
			}
			client.Close()
			return nil
		})
	}
	return eg.Wait()
}

func (s *Service) dial(ctx context.Context, urls []string) []port.RPCClient {
	clients := make([]port.RPCClient, 0, len(urls))
	for _, u := range urls {
		c, err := s.dialer.Dial(ctx, u)
		if err != nil {
			// Dial failures for http endpoints mean malformed URLs; the
			// probe handles unreachable nodes.
			s.logger.Warn("Skipping endpoint that could not be dialed",
				zap.String("url", u),
				zap.Error(err))
			continue
		}
		clients = append(clients, c)
	}
	return clients
}
