package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// FileAdjustmentStore keeps the adjustment as plain text in one file.
type FileAdjustmentStore struct {
	path string
}

func NewFileAdjustmentStore(path string) *FileAdjustmentStore {
	return &FileAdjustmentStore{path: path}
}

// Get returns 0 when the file is missing or does not hold a number.
func (s *FileAdjustmentStore) Get(ctx context.Context) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("adjustment file unreadable, using 0")
		}
		return decimal.Zero, nil
	}
	raw := strings.ReplaceAll(strings.TrimSpace(string(data)), ",", ".")
	value, err := decimal.NewFromString(raw)
	if err != nil {
		log.Warn().Str("path", s.path).Str("content", raw).Msg("adjustment file is not a number, using 0")
		return decimal.Zero, nil
	}
	return value, nil
}

func (s *FileAdjustmentStore) Set(ctx context.Context, value decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create adjustment dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value.String()), 0644); err != nil {
		return fmt.Errorf("failed to write adjustment: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace adjustment file: %w", err)
	}
	return nil
}
