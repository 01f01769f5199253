package client

import (
	"errors"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// IsProtocolRejection reports whether err is a JSON-RPC error the remote node
// returned after understanding the call, e.g. an execution revert. Such
// errors are deterministic for the request, so retrying them against another
// endpoint cannot change the outcome.
//
// The boundary is pinned to the go-ethereum rpc.Error interface: anything
// carrying a JSON-RPC error code is a rejection, everything else (timeouts,
// connection failures, malformed responses) is a transport fault.
func IsProtocolRejection(err error) bool {
	var rpcErr gethrpc.Error
	return errors.As(err, &rpcErr)
}
