package catalog

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind discriminates the two catalog item variants.
type Kind string

// Catalog item kinds.
const (
	KindScene           Kind = "scene"
	KindTrainingDataset Kind = "training-dataset"
)

// Policy is a named entry in the policy taxonomy.
type Policy struct {
	Slug  string `yaml:"slug" json:"slug"`
	Title string `yaml:"title" json:"title"`
}

// Scene is a simulated environment listing.
type Scene struct {
	Slug         string    `yaml:"slug" json:"slug"`
	Title        string    `yaml:"title" json:"title"`
	Description  string    `yaml:"description" json:"description"`
	LocationType string    `yaml:"location_type" json:"locationType"`
	Tags         []string  `yaml:"tags" json:"tags"`
	ObjectTags   []string  `yaml:"object_tags" json:"objectTags"`
	PolicySlugs  []string  `yaml:"policy_slugs" json:"policySlugs"`
	PriceUSD     float64   `yaml:"price_usd" json:"priceUSD"`
	ReleaseDate  time.Time `yaml:"-" json:"releaseDate"`
	EpisodeCount *int      `yaml:"episode_count" json:"episodeCount,omitempty"`
	Interactions []string  `yaml:"interactions" json:"interactions,omitempty"`
}

// TrainingDataset is a recorded demonstration dataset listing.
type TrainingDataset struct {
	Slug             string    `yaml:"slug" json:"slug"`
	Title            string    `yaml:"title" json:"title"`
	Description      string    `yaml:"description" json:"description"`
	LocationType     string    `yaml:"location_type" json:"locationType"`
	Tags             []string  `yaml:"tags" json:"tags"`
	ObjectTags       []string  `yaml:"object_tags" json:"objectTags"`
	PolicySlugs      []string  `yaml:"policy_slugs" json:"policySlugs"`
	PriceUSD         float64   `yaml:"price_usd" json:"priceUSD"`
	ReleaseDate      time.Time `yaml:"-" json:"releaseDate"`
	EpisodeCount     int       `yaml:"episode_count" json:"episodeCount"`
	QualityScore     float64   `yaml:"quality_score" json:"qualityScore"`
	SensorModalities []string  `yaml:"sensor_modalities" json:"sensorModalities"`
	CompatibleWith   []string  `yaml:"compatible_with" json:"compatibleWith"`
	RobotModels      []string  `yaml:"robot_models" json:"robotModels"`
}

// Item is the tagged union over the two catalog kinds. Exactly one of
// Scene or Dataset is non-nil and matches Kind. Items are read-only
// after catalog load.
type Item struct {
	Kind    Kind
	Scene   *Scene
	Dataset *TrainingDataset
}

// SceneItem wraps a scene as an Item.
func SceneItem(s *Scene) Item {
	return Item{Kind: KindScene, Scene: s}
}

// DatasetItem wraps a training dataset as an Item.
func DatasetItem(d *TrainingDataset) Item {
	return Item{Kind: KindTrainingDataset, Dataset: d}
}

// Slug returns the unique item identifier.
func (it Item) Slug() string {
	switch it.Kind {
	case KindScene:
		return it.Scene.Slug
	case KindTrainingDataset:
		return it.Dataset.Slug
	}
	return ""
}

// Title returns the item title.
func (it Item) Title() string {
	if it.Kind == KindScene {
		return it.Scene.Title
	}
	return it.Dataset.Title
}

// Description returns the item description.
func (it Item) Description() string {
	if it.Kind == KindScene {
		return it.Scene.Description
	}
	return it.Dataset.Description
}

// LocationType returns the location category, e.g. "Kitchens".
func (it Item) LocationType() string {
	if it.Kind == KindScene {
		return it.Scene.LocationType
	}
	return it.Dataset.LocationType
}

// Tags returns the free-form tags.
func (it Item) Tags() []string {
	if it.Kind == KindScene {
		return it.Scene.Tags
	}
	return it.Dataset.Tags
}

// ObjectTags returns the physical-object labels.
func (it Item) ObjectTags() []string {
	if it.Kind == KindScene {
		return it.Scene.ObjectTags
	}
	return it.Dataset.ObjectTags
}

// PolicySlugs returns the referenced policy taxonomy slugs.
func (it Item) PolicySlugs() []string {
	if it.Kind == KindScene {
		return it.Scene.PolicySlugs
	}
	return it.Dataset.PolicySlugs
}

// Price returns the listing price in USD.
func (it Item) Price() float64 {
	if it.Kind == KindScene {
		return it.Scene.PriceUSD
	}
	return it.Dataset.PriceUSD
}

// ReleaseDate returns the listing release date.
func (it Item) ReleaseDate() time.Time {
	if it.Kind == KindScene {
		return it.Scene.ReleaseDate
	}
	return it.Dataset.ReleaseDate
}

// EpisodeCount returns the episode count and whether the item has one.
// Scenes without a recorded episode count report ok=false.
func (it Item) EpisodeCount() (int, bool) {
	switch it.Kind {
	case KindScene:
		if it.Scene.EpisodeCount == nil {
			return 0, false
		}
		return *it.Scene.EpisodeCount, true
	case KindTrainingDataset:
		return it.Dataset.EpisodeCount, true
	}
	return 0, false
}

// QualityScore returns the dataset quality score in [0,1].
// Scenes carry no quality score and report ok=false.
func (it Item) QualityScore() (float64, bool) {
	if it.Kind == KindTrainingDataset {
		return it.Dataset.QualityScore, true
	}
	return 0, false
}

// MarshalJSON renders the underlying concrete record.
func (it Item) MarshalJSON() ([]byte, error) {
	switch it.Kind {
	case KindScene:
		return json.Marshal(it.Scene)
	case KindTrainingDataset:
		return json.Marshal(it.Dataset)
	}
	return nil, fmt.Errorf("catalog item with unknown kind %q", it.Kind)
}
