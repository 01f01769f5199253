package client

import (
	"context"
	"fmt"
	"time"

	"chainrpc/internal/app/port"

	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// EVMClient binds one RPC endpoint URL to a live go-ethereum connection.
// It is owned by the dispatch pool that dialed it and is not shared across
// sessions.
type EVMClient struct {
	url            string
	rpcClient      *gethrpc.Client
	ethClient      *ethclient.Client
	rpcCallTimeout time.Duration
}

// NewEVMClient dials the given endpoint URL. For http(s) endpoints the dial
// is lazy, so failures here mean a malformed URL rather than an unreachable
// node; reachability is established by the liveness probe.
func NewEVMClient(ctx context.Context, rawURL string, rpcCallTimeout time.Duration) (*EVMClient, error) {
	rpcClient, err := gethrpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC %s: %w", rawURL, err)
	}
	return &EVMClient{
		url:            rawURL,
		rpcClient:      rpcClient,
		ethClient:      ethclient.NewClient(rpcClient),
		rpcCallTimeout: rpcCallTimeout,
	}, nil
}

// URL returns the endpoint URL this client is bound to.
func (c *EVMClient) URL() string {
	return c.url
}

// BlockNumber fetches the latest block height. Used as the liveness probe.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()
	return c.ethClient.BlockNumber(callCtx)
}

// CallContext performs one JSON-RPC call against this endpoint.
func (c *EVMClient) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()
	return c.rpcClient.CallContext(callCtx, result, method, args...)
}

// Close releases the underlying connection.
func (c *EVMClient) Close() {
	c.rpcClient.Close()
}

// EVMDialer opens EVMClient connections with a shared call timeout.
type EVMDialer struct {
	rpcCallTimeout time.Duration
}

// NewEVMDialer creates a dialer whose clients apply rpcCallTimeout per call.
func NewEVMDialer(rpcCallTimeout time.Duration) *EVMDialer {
	return &EVMDialer{rpcCallTimeout: rpcCallTimeout}
}

// Dial implements port.RPCDialer.
func (d *EVMDialer) Dial(ctx context.Context, rawURL string) (port.RPCClient, error) {
	return NewEVMClient(ctx, rawURL, d.rpcCallTimeout)
}
