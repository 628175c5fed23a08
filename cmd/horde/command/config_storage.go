package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-horde/internal/scenario"
	"github.com/pixil98/go-horde/internal/storage"
)

type StorageConfig struct {
	Kinds   AssetConfig[*scenario.ZombieKind] `json:"kinds"`
	Waves   AssetConfig[*scenario.Wave]       `json:"waves"`
	Layouts AssetConfig[*scenario.Layout]     `json:"layouts"`
}

// Library holds every loaded scenario definition store.
type Library struct {
	Kinds   storage.Storer[*scenario.ZombieKind]
	Waves   storage.Storer[*scenario.Wave]
	Layouts storage.Storer[*scenario.Layout]
}

func (c *StorageConfig) BuildLibrary() (*Library, error) {
	kinds, err := c.Kinds.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating kind store: %w", err)
	}
	waves, err := c.Waves.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating wave store: %w", err)
	}
	layouts, err := c.Layouts.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating layout store: %w", err)
	}

	return &Library{
		Kinds:   kinds,
		Waves:   waves,
		Layouts: layouts,
	}, nil
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Kinds.Validate("kinds"))
	el.Add(c.Waves.Validate("waves"))
	el.Add(c.Layouts.Validate("layouts"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
