package indexer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"vaultUsers/internal/aggregate"
	"vaultUsers/internal/solidity"
	"vaultUsers/internal/storage"
	"vaultUsers/internal/token"
)

// LogSource is the subset of the JSON-RPC API the scanner depends on.
type LogSource interface {
	GetChainID(ctx context.Context) (*big.Int, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topic0 []common.Hash) ([]types.Log, error)
}

// RunConfig holds runtime settings for the scanner.
type RunConfig struct {
	FromBlock uint64
	// ToBlock is inclusive; 0 means the chain tip at start.
	ToBlock   uint64
	Vaults    []common.Address
	BatchSize uint64
	OutDir    string
	Render    solidity.Options
}

// Runner scans vault logs, collects participants and writes fixtures.
type Runner struct {
	cfg     RunConfig
	source  LogSource
	storage storage.Storage
	logger  *zap.Logger
}

// NewRunner builds a Runner with its dependencies. storageSink may be nil.
func NewRunner(cfg RunConfig, source LogSource, storageSink storage.Storage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		source:  source,
		storage: storageSink,
		logger:  logger,
	}
}

// Run processes every vault in order and stops at the first error.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("log source is nil")
	}
	if r.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	if len(r.cfg.Vaults) == 0 {
		return fmt.Errorf("at least one vault is required")
	}

	batchSize := r.cfg.BatchSize
	if batchSize > MaxWindowSize {
		r.logger.Warn("batch size capped", zap.Uint64("requested", batchSize), zap.Uint64("max", MaxWindowSize))
		batchSize = MaxWindowSize
	}

	chainID, err := r.source.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() {
		return fmt.Errorf("chain id does not fit in uint64: %s", chainID)
	}
	chainIDValue := chainID.Uint64()

	from := r.cfg.FromBlock
	to := r.cfg.ToBlock
	if to == 0 {
		latest, err := r.source.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
		to = latest
	}

	var windows []Window
	if from > to {
		r.logger.Info("nothing to scan", zap.Uint64("from", from), zap.Uint64("to", to))
	} else {
		windows, err = SplitWindows(from, to+1, batchSize)
		if err != nil {
			return err
		}
	}

	r.logger.Info("scan start",
		zap.Uint64("chain_id", chainIDValue),
		zap.Uint64("from", from),
		zap.Uint64("to", to),
		zap.Int("windows", len(windows)),
		zap.Int("vaults", len(r.cfg.Vaults)),
	)

	for _, vault := range r.cfg.Vaults {
		set, err := r.scanVault(ctx, vault, windows)
		if err != nil {
			return fmt.Errorf("vault %s: %w", vault.Hex(), err)
		}

		snapshot := set.Snapshot(chainIDValue, vault.Hex(), from, to)
		content, err := solidity.Render(snapshot, r.cfg.Render)
		if err != nil {
			return fmt.Errorf("vault %s: %w", vault.Hex(), err)
		}
		path, err := solidity.WriteFile(r.cfg.OutDir, snapshot.Vault, content)
		if err != nil {
			return fmt.Errorf("vault %s: %w", vault.Hex(), err)
		}

		if r.storage != nil {
			if err := r.storage.PutSnapshot(ctx, snapshot); err != nil {
				return fmt.Errorf("vault %s: store snapshot: %w", vault.Hex(), err)
			}
		}

		r.logger.Info("vault complete",
			zap.String("vault", snapshot.Vault),
			zap.Int("unique_users", set.UserCount()),
			zap.Int("unique_approvals", set.ApprovalCount()),
			zap.String("file", path),
		)
	}

	return nil
}

func (r *Runner) scanVault(ctx context.Context, vault common.Address, windows []Window) (*aggregate.ParticipantSet, error) {
	set := aggregate.NewParticipantSet()
	addresses := []common.Address{vault}

	for _, window := range windows {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		r.logger.Debug("fetch logs", zap.String("vault", vault.Hex()), zap.Uint64("from", window.Start), zap.Uint64("to", window.Last()))

		transfers, err := r.source.FilterLogs(ctx, window.Start, window.Last(), addresses, []common.Hash{token.TransferTopic})
		if err != nil {
			return nil, fmt.Errorf("filter transfer logs %d-%d: %w", window.Start, window.Last(), err)
		}
		for _, log := range transfers {
			if err := set.AddTransfer(log); err != nil {
				return nil, err
			}
		}

		approvals, err := r.source.FilterLogs(ctx, window.Start, window.Last(), addresses, []common.Hash{token.ApprovalTopic})
		if err != nil {
			return nil, fmt.Errorf("filter approval logs %d-%d: %w", window.Start, window.Last(), err)
		}
		for _, log := range approvals {
			if err := set.AddApproval(log); err != nil {
				return nil, err
			}
		}
	}

	return set, nil
}
