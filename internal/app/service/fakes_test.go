package service

import (
	"context"
	"sync"

	"chainrpc/internal/app/port"
	"chainrpc/internal/domain/entity"
)

// fakeRPC is a scripted endpoint: a probe height, an optional probe error and
// an optional call error. It records the methods dispatched to it.
type fakeRPC struct {
	url      string
	height   uint64
	probeErr error
	callErr  error

	mu        sync.Mutex
	callCount int
	closed    bool
}

func (f *fakeRPC) URL() string { return f.url }

func (f *fakeRPC) BlockNumber(ctx context.Context) (uint64, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return f.height, nil
}

func (f *fakeRPC) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	f.mu.Lock()
	f.callCount++
	f.mu.Unlock()
	return f.callErr
}

func (f *fakeRPC) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeRPC) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount
}

// rejectionError implements the go-ethereum rpc.Error interface, marking a
// node-side rejection of an understood call.
type rejectionError struct {
	code int
	msg  string
}

func (e *rejectionError) Error() string  { return e.msg }
func (e *rejectionError) ErrorCode() int { return e.code }

// fakeDialer hands out pre-built fakeRPC clients by URL.
type fakeDialer struct {
	clients map[string]*fakeRPC
}

func (d *fakeDialer) Dial(ctx context.Context, rawURL string) (port.RPCClient, error) {
	c, ok := d.clients[rawURL]
	if !ok {
		return nil, entity.ErrNoWorkingEndpoints
	}
	return c, nil
}

// fakeSource returns a scripted chain list and counts fetches.
type fakeSource struct {
	chains []entity.Chain
	err    error

	mu      sync.Mutex
	fetches int
}

func (s *fakeSource) FetchChains(ctx context.Context) ([]entity.Chain, error) {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]entity.Chain, len(s.chains))
	copy(out, s.chains)
	return out, nil
}

func (s *fakeSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}
