package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vaultUsers/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// Store persists vault snapshots in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the snapshot tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// PutSnapshot upserts the users, approval pairs and scan summary of a vault
// in a single batch.
func (s *Store) PutSnapshot(ctx context.Context, snapshot model.VaultSnapshot) error {
	chainID := int64(snapshot.ChainID)
	toBlock := int64(snapshot.ToBlock)

	batch := &pgx.Batch{}
	for _, user := range snapshot.Users {
		batch.Queue(`
			INSERT INTO vault_users (
				chain_id, vault_address, user_address, first_seen_to, created_at, updated_at
			) VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (chain_id, vault_address, user_address)
			DO UPDATE SET
				first_seen_to = LEAST(vault_users.first_seen_to, EXCLUDED.first_seen_to),
				updated_at = now()
		`, chainID, snapshot.Vault, user, toBlock)
	}
	for _, pair := range snapshot.Approvals {
		batch.Queue(`
			INSERT INTO vault_approvals (
				chain_id, vault_address, owner_address, spender_address, first_seen_to, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, now(), now())
			ON CONFLICT (chain_id, vault_address, owner_address, spender_address)
			DO UPDATE SET
				first_seen_to = LEAST(vault_approvals.first_seen_to, EXCLUDED.first_seen_to),
				updated_at = now()
		`, chainID, snapshot.Vault, pair.From, pair.To, toBlock)
	}
	batch.Queue(`
		INSERT INTO vault_scans (
			chain_id, vault_address, from_block, to_block, user_count, approval_count, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (chain_id, vault_address)
		DO UPDATE SET
			from_block = EXCLUDED.from_block,
			to_block = EXCLUDED.to_block,
			user_count = EXCLUDED.user_count,
			approval_count = EXCLUDED.approval_count,
			updated_at = now()
	`, chainID, snapshot.Vault, int64(snapshot.FromBlock), toBlock, int64(len(snapshot.Users)), int64(len(snapshot.Approvals)))

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert snapshot %s: %w", snapshot.Vault, err)
		}
	}
	return nil
}

// LoadUsers returns the stored users of a vault in ascending order.
func (s *Store) LoadUsers(ctx context.Context, chainID uint64, vault string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_address FROM vault_users
		WHERE chain_id = $1 AND vault_address = $2
		ORDER BY user_address
	`, int64(chainID), vault)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
