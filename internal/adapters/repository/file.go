package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/simumatch/internal/domain/model"
)

const sourceFile = "file"

// catalogFile is the YAML layout: a top-level events list.
type catalogFile struct {
	Events []model.EventProfile `koanf:"events"`
}

// LoadCatalogFile reads and validates a YAML event catalog.
func LoadCatalogFile(path string) ([]model.EventProfile, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var cf catalogFile
	if err := k.UnmarshalWithConf("", &cf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, path, err)
	}
	if len(cf.Events) == 0 {
		return nil, fmt.Errorf("%w: %s has no events", ErrInvalidCatalog, path)
	}
	for _, e := range cf.Events {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
		}
	}
	return cf.Events, nil
}

// FileCatalog is a CatalogLoader backed by a YAML file read on each load.
type FileCatalog struct {
	path string
}

var _ CatalogLoader = (*FileCatalog)(nil)

// NewFileCatalog creates a catalog loader for path.
func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

// LoadCatalog reads the file.
func (c *FileCatalog) LoadCatalog(_ context.Context) ([]model.EventProfile, error) {
	defer observe(sourceFile, "load_catalog", time.Now())
	return LoadCatalogFile(c.path)
}
