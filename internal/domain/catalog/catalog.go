package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is the read-only marketplace catalog. Built once at startup
// from static configuration and never mutated afterwards.
type Catalog struct {
	scenes   []*Scene
	datasets []*TrainingDataset
	policies []Policy

	bySlug       map[string]Item
	policyTitles map[string]string
}

// New validates and assembles a catalog. Item slugs must be unique across
// both kinds, and every referenced policy slug must exist in the policy table.
func New(scenes []*Scene, datasets []*TrainingDataset, policies []Policy) (*Catalog, error) {
	c := &Catalog{
		scenes:       scenes,
		datasets:     datasets,
		policies:     policies,
		bySlug:       make(map[string]Item, len(scenes)+len(datasets)),
		policyTitles: make(map[string]string, len(policies)),
	}

	for _, p := range policies {
		if p.Slug == "" {
			return nil, fmt.Errorf("policy with empty slug (title %q)", p.Title)
		}
		if _, dup := c.policyTitles[p.Slug]; dup {
			return nil, fmt.Errorf("duplicate policy slug %q", p.Slug)
		}
		c.policyTitles[p.Slug] = p.Title
	}

	for _, s := range scenes {
		if err := c.register(SceneItem(s)); err != nil {
			return nil, err
		}
	}
	for _, d := range datasets {
		if err := c.register(DatasetItem(d)); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Catalog) register(it Item) error {
	slug := it.Slug()
	if slug == "" {
		return fmt.Errorf("%s with empty slug (title %q)", it.Kind, it.Title())
	}
	if _, dup := c.bySlug[slug]; dup {
		return fmt.Errorf("duplicate item slug %q", slug)
	}
	for _, ps := range it.PolicySlugs() {
		if _, ok := c.policyTitles[ps]; !ok {
			return fmt.Errorf("item %q references unknown policy %q", slug, ps)
		}
	}
	c.bySlug[slug] = it
	return nil
}

// Items enumerates the full catalog, scenes first, in load order.
func (c *Catalog) Items() []Item {
	items := make([]Item, 0, len(c.scenes)+len(c.datasets))
	for _, s := range c.scenes {
		items = append(items, SceneItem(s))
	}
	for _, d := range c.datasets {
		items = append(items, DatasetItem(d))
	}
	return items
}

// Item looks up an item by slug.
func (c *Catalog) Item(slug string) (Item, bool) {
	it, ok := c.bySlug[slug]
	return it, ok
}

// Len returns the total number of catalog items.
func (c *Catalog) Len() int { return len(c.scenes) + len(c.datasets) }

// PolicyTitle resolves a policy slug to its display title.
func (c *Catalog) PolicyTitle(slug string) (string, bool) {
	t, ok := c.policyTitles[slug]
	return t, ok
}

// Policies returns the policy taxonomy.
func (c *Catalog) Policies() []Policy { return c.policies }

// LocationTypes returns the distinct location categories present in the
// catalog, sorted for determinism.
func (c *Catalog) LocationTypes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range c.Items() {
		lt := it.LocationType()
		if lt == "" {
			continue
		}
		if _, ok := seen[lt]; !ok {
			seen[lt] = struct{}{}
			out = append(out, lt)
		}
	}
	sort.Strings(out)
	return out
}

// ObjectTags returns the distinct object-tag vocabulary across the catalog,
// lowercased and sorted for determinism.
func (c *Catalog) ObjectTags() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range c.Items() {
		for _, tag := range it.ObjectTags() {
			k := strings.ToLower(tag)
			if k == "" {
				continue
			}
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}
