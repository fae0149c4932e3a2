package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"vaultUsers/internal/model"
)

// CSVStorage writes one Users_<vault>.csv per snapshot into a directory.
type CSVStorage struct {
	dir string
}

func NewCSVStorage(dir string) *CSVStorage {
	return &CSVStorage{dir: dir}
}

func (s *CSVStorage) Path(vault string) string {
	return filepath.Join(s.dir, fmt.Sprintf("Users_%s.csv", vault))
}

// PutSnapshot replaces the vault's CSV file with the snapshot rows.
func (s *CSVStorage) PutSnapshot(_ context.Context, snapshot model.VaultSnapshot) error {
	if s.dir != "" && s.dir != "." {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("create csv dir: %w", err)
		}
	}

	file, err := os.OpenFile(s.Path(snapshot.Vault), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer file.Close()

	rows := snapshot.Rows()
	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
