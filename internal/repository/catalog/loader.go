// Package catalog loads the static marketplace catalog from its YAML
// configuration file.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	domcat "github.com/roboatlas/searchd/internal/domain/catalog"
)

// Load reads and validates the catalog file.
func Load(path string) (*domcat.Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var file fileDTO
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	policies := make([]domcat.Policy, len(file.Policies))
	for i, p := range file.Policies {
		policies[i] = domcat.Policy{Slug: p.Slug, Title: p.Title}
	}

	scenes := make([]*domcat.Scene, 0, len(file.Scenes))
	for _, dto := range file.Scenes {
		s, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, s)
	}

	datasets := make([]*domcat.TrainingDataset, 0, len(file.Datasets))
	for _, dto := range file.Datasets {
		d, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, d)
	}

	cat, err := domcat.New(scenes, datasets, policies)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return cat, nil
}
