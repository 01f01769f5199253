package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"chainrpc/internal/app"
	"chainrpc/internal/config"
	"chainrpc/internal/pkg/progress"
	"chainrpc/internal/pkg/utils"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	var (
		cfgPath = flag.String("config", utils.GetEnv("CONFIG_PATH", "config/config.yaml"), "path to the YAML config file")
		chainID = flag.Int64("chain", 1, "chain id to connect to")
		refresh = flag.Bool("refresh", false, "only run the catalog staleness check and exit")
		quiet   = flag.Bool("quiet", false, "disable the endpoint check progress display")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	svc := app.BuildService(cfg, logger)
	ctx := context.Background()

	if *refresh {
		if err := svc.RefreshCatalogIfStale(ctx); err != nil {
			logger.Fatal("Catalog refresh failed", zap.Error(err))
		}
		fmt.Println("catalog is up to date")
		return
	}

	sink := progress.NewRenderer(os.Stderr).Sink()
	if *quiet {
		sink = nil
	}

	client, err := svc.CreateClient(ctx, *chainID, sink)
	if err != nil {
		logger.Fatal("Failed to create client",
			zap.Int64("chainID", *chainID),
			zap.Error(err))
	}
	defer client.Close()

	height, err := client.BlockNumber(ctx)
	if err != nil {
		logger.Fatal("Failed to fetch chain head",
			zap.Int64("chainID", *chainID),
			zap.Error(err))
	}

	chain := client.Chain()
	fmt.Printf("%s (chain %d, %s): block %d via %d endpoint(s)\n",
		chain.Name, chain.ChainID, chain.Currency.Symbol, height, len(client.EndpointURLs()))
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
