package storage

import (
	"context"

	"vaultUsers/internal/model"
)

// Storage defines a sink for finalized vault snapshots.
type Storage interface {
	PutSnapshot(ctx context.Context, snapshot model.VaultSnapshot) error
}

// Multi writes a snapshot to every sink in order, stopping at the first error.
type Multi []Storage

func (m Multi) PutSnapshot(ctx context.Context, snapshot model.VaultSnapshot) error {
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.PutSnapshot(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}
