// Package menufile implements the flat-file menu store variant: a single
// JSON array of menu items on local disk.
package menufile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/savoria/tavola/domain"
	"github.com/savoria/tavola/domain/entities"
	"github.com/savoria/tavola/domain/repositories"
)

// Repository stores the menu as an indented JSON file.
type Repository struct {
	path   string
	logger *zap.Logger
}

// NewRepository creates a file-backed menu repository at path.
func NewRepository(path string, logger *zap.Logger) repositories.MenuRepository {
	return &Repository{
		path:   path,
		logger: logger,
	}
}

// List reads and decodes the whole menu file.
func (r *Repository) List(ctx context.Context) ([]entities.MenuItem, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransientStore, err)
	}

	var items []entities.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransientStore, err)
	}
	return items, nil
}

// Seed writes the sample set only when the file does not exist yet, so
// reseeding is idempotent across restarts and hand edits survive.
func (r *Repository) Seed(ctx context.Context, items []entities.MenuItem) error {
	if _, err := os.Stat(r.path); err == nil {
		r.logger.Info("Menu file already exists", zap.String("path", r.path))
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrTransientStore, err)
	}

	data, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode menu: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransientStore, err)
	}

	r.logger.Info("Created menu file",
		zap.String("path", r.path),
		zap.Int("items", len(items)))
	return nil
}
