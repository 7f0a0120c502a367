package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validCatalogYAML = `
policies:
  - slug: pick-place
    title: Pick and Place

scenes:
  - slug: kitchen-scene
    title: Apartment Kitchen
    description: A kitchen scene.
    location_type: Kitchens
    object_tags: [mug, plate]
    policy_slugs: [pick-place]
    price_usd: 149
    release_date: "2026-01-15"

datasets:
  - slug: kitchen-ds
    title: Kitchen Picking Data
    description: Picking demonstrations.
    location_type: Kitchens
    policy_slugs: [pick-place]
    price_usd: 899
    episode_count: 10000
    quality_score: 0.92
    sensor_modalities: [rgb, depth]
    robot_models: [franka-panda]
    release_date: "2025-12-01"
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	cat, err := Load(writeCatalog(t, validCatalogYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cat.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cat.Len())
	}

	it, ok := cat.Item("kitchen-scene")
	if !ok {
		t.Fatal("kitchen-scene not found")
	}
	want := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if !it.ReleaseDate().Equal(want) {
		t.Errorf("release date = %v, want %v", it.ReleaseDate(), want)
	}

	ds, ok := cat.Item("kitchen-ds")
	if !ok {
		t.Fatal("kitchen-ds not found")
	}
	if n, _ := ds.EpisodeCount(); n != 10000 {
		t.Errorf("episode count = %d, want 10000", n)
	}
	if q, _ := ds.QualityScore(); q != 0.92 {
		t.Errorf("quality score = %f, want 0.92", q)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeCatalog(t, "scenes: [not: closed"))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_InvalidReleaseDate(t *testing.T) {
	bad := strings.Replace(validCatalogYAML, `release_date: "2026-01-15"`, `release_date: "15/01/2026"`, 1)
	_, err := Load(writeCatalog(t, bad))
	if err == nil {
		t.Fatal("expected release date error")
	}
	if !strings.Contains(err.Error(), "release_date") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_UnknownPolicyReference(t *testing.T) {
	bad := strings.Replace(validCatalogYAML, "policy_slugs: [pick-place]", "policy_slugs: [no-such]", 1)
	_, err := Load(writeCatalog(t, bad))
	if err == nil {
		t.Fatal("expected unknown policy error")
	}
	if !strings.Contains(err.Error(), "unknown policy") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_MissingReleaseDateAllowed(t *testing.T) {
	noDate := strings.Replace(validCatalogYAML, `    release_date: "2026-01-15"`+"\n", "", 1)
	cat, err := Load(writeCatalog(t, noDate))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	it, _ := cat.Item("kitchen-scene")
	if !it.ReleaseDate().IsZero() {
		t.Errorf("expected zero release date, got %v", it.ReleaseDate())
	}
}
