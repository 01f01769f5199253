package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chainrpc/internal/app/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// orderedRPC wraps fakeRPC to append its URL to a shared attempt log.
type orderedRPC struct {
	*fakeRPC
	log *[]string
}

func (o *orderedRPC) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	*o.log = append(*o.log, o.url)
	return o.fakeRPC.CallContext(ctx, result, method, args...)
}

func newPool(t *testing.T, clients []port.RPCClient, delay time.Duration, start int) *DispatchPool {
	t.Helper()
	pool, err := NewDispatchPool(clients, delay, zap.NewNop())
	require.NoError(t, err)
	pool.intn = func(int) int { return start }
	return pool
}

func TestNewDispatchPoolRejectsEmptyPool(t *testing.T) {
	_, err := NewDispatchPool(nil, 0, zap.NewNop())
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestPerformReturnsOnFirstSuccess(t *testing.T) {
	a := &fakeRPC{url: "https://a"}
	b := &fakeRPC{url: "https://b"}
	pool := newPool(t, []port.RPCClient{a, b}, 0, 0)

	require.NoError(t, pool.Perform(context.Background(), nil, "eth_blockNumber"))
	assert.Equal(t, 1, a.calls())
	assert.Equal(t, 0, b.calls(), "no further endpoints tried after a success")
}

func TestPerformWaterfallsFromRandomStartWithBackoff(t *testing.T) {
	var log []string
	a := &orderedRPC{fakeRPC: &fakeRPC{url: "https://a", callErr: errors.New("connection refused")}, log: &log}
	b := &orderedRPC{fakeRPC: &fakeRPC{url: "https://b"}, log: &log}
	c := &orderedRPC{fakeRPC: &fakeRPC{url: "https://c", callErr: errors.New("timeout")}, log: &log}

	delay := 20 * time.Millisecond
	pool := newPool(t, []port.RPCClient{a, b, c}, delay, 2)

	started := time.Now()
	require.NoError(t, pool.Perform(context.Background(), nil, "eth_chainId"))
	elapsed := time.Since(started)

	assert.Equal(t, []string{"https://c", "https://a", "https://b"}, log)
	assert.GreaterOrEqual(t, elapsed, 2*delay, "one backoff before each retry after the first failure")
}

func TestPerformExhaustionSurfacesFirstTransportFault(t *testing.T) {
	errA := errors.New("fault from a")
	errB := errors.New("fault from b")
	errC := errors.New("fault from c")
	a := &fakeRPC{url: "https://a", callErr: errA}
	b := &fakeRPC{url: "https://b", callErr: errB}
	c := &fakeRPC{url: "https://c", callErr: errC}

	pool := newPool(t, []port.RPCClient{a, b, c}, 0, 1)

	err := pool.Perform(context.Background(), nil, "eth_blockNumber")
	assert.ErrorIs(t, err, errB, "the first-attempted endpoint's fault wins, not the last")

	assert.Equal(t, 1, a.calls())
	assert.Equal(t, 1, b.calls())
	assert.Equal(t, 1, c.calls())
}

func TestPerformShortCircuitsOnProtocolRejection(t *testing.T) {
	rejection := &rejectionError{code: 3, msg: "execution reverted"}
	a := &fakeRPC{url: "https://a", callErr: rejection}
	b := &fakeRPC{url: "https://b"}

	pool := newPool(t, []port.RPCClient{a, b}, 0, 0)

	err := pool.Perform(context.Background(), nil, "eth_call")
	assert.ErrorIs(t, err, rejection)
	assert.Equal(t, 0, b.calls(), "rejection must not fall back to the next endpoint")
}

func TestPerformBackoffRespectsContextCancellation(t *testing.T) {
	a := &fakeRPC{url: "https://a", callErr: errors.New("down")}
	b := &fakeRPC{url: "https://b", callErr: errors.New("down")}
	pool := newPool(t, []port.RPCClient{a, b}, time.Hour, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := pool.Perform(ctx, nil, "eth_blockNumber")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, b.calls())
}

func TestPoolURLsAndClose(t *testing.T) {
	a := &fakeRPC{url: "https://a"}
	b := &fakeRPC{url: "https://b"}
	pool := newPool(t, []port.RPCClient{a, b}, 0, 0)

	assert.Equal(t, []string{"https://a", "https://b"}, pool.URLs())
	assert.Equal(t, 2, pool.Size())

	pool.Close()
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
