package catalog

import (
	"fmt"
	"strings"
)

// SearchDocument renders the deterministic text form of an item used for
// both lexical tokenization and embedding. For a fixed item and policy
// table the output is byte-identical across calls; content-hash cache
// invalidation depends on that.
func (c *Catalog) SearchDocument(it Item) string {
	var b strings.Builder

	b.WriteString(it.Title())
	b.WriteString(". ")
	b.WriteString(it.Description())

	if lt := it.LocationType(); lt != "" {
		b.WriteString(" Location: ")
		b.WriteString(lt)
		b.WriteString(".")
	}
	if tags := it.Tags(); len(tags) > 0 {
		b.WriteString(" Tags: ")
		b.WriteString(strings.Join(tags, ", "))
		b.WriteString(".")
	}
	if objs := it.ObjectTags(); len(objs) > 0 {
		b.WriteString(" Objects: ")
		b.WriteString(strings.Join(objs, ", "))
		b.WriteString(".")
	}
	if titles := c.policyTitlesFor(it); len(titles) > 0 {
		b.WriteString(" Policies: ")
		b.WriteString(strings.Join(titles, ", "))
		b.WriteString(".")
	}

	switch it.Kind {
	case KindScene:
		s := it.Scene
		if s.EpisodeCount != nil {
			fmt.Fprintf(&b, " %d episodes.", *s.EpisodeCount)
		}
		if len(s.Interactions) > 0 {
			b.WriteString(" Interactions: ")
			b.WriteString(strings.Join(s.Interactions, ", "))
			b.WriteString(".")
		}
	case KindTrainingDataset:
		d := it.Dataset
		fmt.Fprintf(&b, " %d episodes.", d.EpisodeCount)
		if len(d.SensorModalities) > 0 {
			b.WriteString(" Sensors: ")
			b.WriteString(strings.Join(d.SensorModalities, ", "))
			b.WriteString(".")
		}
		if len(d.RobotModels) > 0 {
			b.WriteString(" Robots: ")
			b.WriteString(strings.Join(d.RobotModels, ", "))
			b.WriteString(".")
		}
		if len(d.CompatibleWith) > 0 {
			b.WriteString(" Compatible with: ")
			b.WriteString(strings.Join(d.CompatibleWith, ", "))
			b.WriteString(".")
		}
		fmt.Fprintf(&b, " Quality score %.2f.", d.QualityScore)
	}

	return b.String()
}

// policyTitlesFor resolves an item's policy slugs to titles, preserving
// the item's declared order. Unknown slugs cannot occur after New validation.
func (c *Catalog) policyTitlesFor(it Item) []string {
	slugs := it.PolicySlugs()
	if len(slugs) == 0 {
		return nil
	}
	titles := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if t, ok := c.policyTitles[s]; ok {
			titles = append(titles, t)
		}
	}
	return titles
}
