// Package app assembles the service graph shared by the CLI and the server.
package app

import (
	"time"

	"chainrpc/internal/app/service"
	"chainrpc/internal/config"
	"chainrpc/internal/infrastructure/catalogstore"
	"chainrpc/internal/infrastructure/chainsource"
	netclient "chainrpc/internal/infrastructure/network/client"

	"go.uber.org/zap"
)

// BuildService wires store, source, health checker and dialer into the
// fallback service according to cfg.
func BuildService(cfg *config.Config, logger *zap.Logger) *service.Service {
	store := catalogstore.NewFileStore(cfg.Catalog.Path)
	source := chainsource.NewChainListClient(
		cfg.Catalog.SourceURL,
		time.Duration(cfg.Catalog.FetchTimeoutSeconds)*time.Second,
		logger,
	)
	catalog := service.NewCatalogService(
		store,
		source,
		time.Duration(cfg.Catalog.CacheTTLMinutes)*time.Minute,
		logger,
	)
	health := service.NewHealthChecker(
		time.Duration(cfg.RPC.ProbeTimeoutSeconds)*time.Second,
		cfg.RPC.ProbesPerSecond,
		logger,
	)
	dialer := netclient.NewEVMDialer(time.Duration(cfg.RPC.CallTimeoutSeconds) * time.Second)

	return service.NewService(
		catalog,
		health,
		dialer,
		cfg.Catalog.MaxAge(),
		time.Duration(cfg.RPC.RetryDelaySeconds)*time.Second,
		logger,
	)
}
