package port

import "context"

// RPCClient is one live connection to a single RPC endpoint. It is the opaque
// transport the dispatch layer drives: CallContext performs one JSON-RPC call,
// BlockNumber is the minimal read-only liveness probe.
//
// Implementations must distinguish a protocol-level rejection (the node
// understood the call and rejected it) from transport faults by returning an
// error that implements the go-ethereum rpc.Error interface for the former.
type RPCClient interface {
	URL() string
	BlockNumber(ctx context.Context) (uint64, error)
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Close()
}

// RPCDialer opens an RPCClient for an endpoint URL.
type RPCDialer interface {
	Dial(ctx context.Context, rawURL string) (RPCClient, error)
}
