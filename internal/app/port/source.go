package port

import (
	"context"

	"chainrpc/internal/domain/entity"
)

// ChainSource fetches the remote list of network descriptors. The fetch is
// wholesale: it either returns the full list or fails.
type ChainSource interface {
	FetchChains(ctx context.Context) ([]entity.Chain, error)
}
