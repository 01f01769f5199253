package entity

import "errors"

// Fatal session-setup errors surfaced by the catalog and health check layers.
var (
	// ErrSourceUnavailable means the remote chain list could not be fetched
	// or returned malformed data. No stale fallback is attempted.
	ErrSourceUnavailable = errors.New("chain list source unavailable")

	// ErrUnknownNetwork means the catalog has no entry for the requested
	// chain ID even after a refresh.
	ErrUnknownNetwork = errors.New("no configuration for requested chain id")

	// ErrNoWorkingEndpoints means every candidate endpoint failed its
	// liveness probe.
	ErrNoWorkingEndpoints = errors.New("no working rpc endpoints")

	// ErrCatalogNotFound is returned by a catalog store when no document has
	// been persisted yet. It triggers a full refresh.
	ErrCatalogNotFound = errors.New("catalog not found")
)
