package main

import (
	"os"

	"github.com/spf13/cobra"

	"vaultUsers/internal/config"
	"vaultUsers/internal/indexer"
)

func main() {
	root := &cobra.Command{
		Use:          "usersgen",
		Short:        "Vault participant fixture generator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Scan vault Transfer/Approval logs and write Users_<vault>.sol fixtures",
		RunE:  runGenerate,
	}

	generateCmd.Flags().String("rpc", "", "Ethereum RPC URL (env "+config.RPCEnv+")")
	generateCmd.Flags().String("env-file", config.DefaultEnvFile, "dotenv file to read "+config.RPCEnv+" from")
	generateCmd.Flags().Uint64("from", config.DefaultFromBlock, "start block (inclusive)")
	generateCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	generateCmd.Flags().StringSlice("vault", nil, "vault addresses (comma-separated), defaults to the known vaults")
	generateCmd.Flags().Uint64("batch-size", indexer.MaxWindowSize, "blocks per eth_getLogs window (max 10000)")
	generateCmd.Flags().String("out-dir", config.DefaultOutDir, "directory for Users_<vault>.sol files")
	generateCmd.Flags().Bool("checksum", false, "render addresses in EIP-55 checksum case")
	generateCmd.Flags().String("jsonl", "", "optional JSONL file to append vault snapshots to")
	generateCmd.Flags().String("csv-dir", "", "optional directory for per-vault CSV exports")
	generateCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for snapshot export")
	generateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(generateCmd)

	topicsCmd := &cobra.Command{
		Use:   "topics",
		Short: "Print the event signatures and topic hashes that are scanned",
		RunE:  runTopics,
	}

	root.AddCommand(topicsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
