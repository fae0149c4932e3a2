package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vaultUsers/internal/chain"
	"vaultUsers/internal/config"
	"vaultUsers/internal/indexer"
	"vaultUsers/internal/solidity"
	"vaultUsers/internal/storage"
	"vaultUsers/internal/storage/postgres"
)

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required (set %s or --rpc)", config.RPCEnv)
	}

	vaults, err := indexer.ParseVaults(cfg.Vaults)
	if err != nil {
		return err
	}
	if len(vaults) == 0 {
		return fmt.Errorf("vault list is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	var sinks storage.Multi
	if cfg.JSONL != "" {
		sinks = append(sinks, storage.NewJsonlStorage(cfg.JSONL))
	}
	if cfg.CSVDir != "" {
		sinks = append(sinks, storage.NewCSVStorage(cfg.CSVDir))
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
	}

	var sink storage.Storage
	if len(sinks) > 0 {
		sink = sinks
	}

	runner := indexer.NewRunner(indexer.RunConfig{
		FromBlock: cfg.FromBlock,
		ToBlock:   cfg.ToBlock,
		Vaults:    vaults,
		BatchSize: cfg.BatchSize,
		OutDir:    cfg.OutDir,
		Render:    solidity.Options{Checksum: cfg.Checksum},
	}, chainClient, sink, logger)

	logger.Info("generate start",
		zap.String("rpc", redactURL(cfg.RPCURL)),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Int("vaults", len(vaults)),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("out_dir", cfg.OutDir),
		zap.Bool("checksum", cfg.Checksum),
		zap.Int("sinks", len(sinks)),
	)

	return runner.Run(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// redactURL hides credentials and API-key paths that providers embed in RPC URLs.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "***"
	}
	return parsed.Scheme + "://" + parsed.Host
}
