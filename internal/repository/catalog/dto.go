package catalog

import (
	"fmt"
	"time"

	"github.com/roboatlas/searchd/internal/domain/catalog"
)

// fileDTO mirrors the catalog YAML file layout.
type fileDTO struct {
	Policies []policyDTO  `yaml:"policies"`
	Scenes   []sceneDTO   `yaml:"scenes"`
	Datasets []datasetDTO `yaml:"datasets"`
}

type policyDTO struct {
	Slug  string `yaml:"slug"`
	Title string `yaml:"title"`
}

type sceneDTO struct {
	catalog.Scene `yaml:",inline"`
	ReleaseDate   string `yaml:"release_date"`
}

type datasetDTO struct {
	catalog.TrainingDataset `yaml:",inline"`
	ReleaseDate             string `yaml:"release_date"`
}

const releaseDateLayout = "2006-01-02"

func (d sceneDTO) toDomain() (*catalog.Scene, error) {
	s := d.Scene
	rd, err := parseReleaseDate(d.ReleaseDate, d.Slug)
	if err != nil {
		return nil, err
	}
	s.ReleaseDate = rd
	return &s, nil
}

func (d datasetDTO) toDomain() (*catalog.TrainingDataset, error) {
	ds := d.TrainingDataset
	rd, err := parseReleaseDate(d.ReleaseDate, d.Slug)
	if err != nil {
		return nil, err
	}
	ds.ReleaseDate = rd
	return &ds, nil
}

func parseReleaseDate(s, slug string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("item %q: invalid release_date %q: %w", slug, s, err)
	}
	return t, nil
}
