// Package parse turns free-text marketplace queries into structured hard
// constraints, soft ranking signals, and user-facing chips. Parsing is a
// pure function of the query text and the supplied catalog vocabularies:
// no I/O, no randomness, no clock.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roboatlas/searchd/internal/domain/search/text"
)

// MaxObjectTags caps how many detected object tags become a soft signal.
const MaxObjectTags = 6

// Vocabulary holds the known catalog values the parser may emit.
// Values outside the vocabulary never become constraints.
type Vocabulary struct {
	LocationTypes []string
	Policies      []Policy
	ObjectTags    []string
}

// Policy pairs a policy slug with its display title.
type Policy struct {
	Slug  string
	Title string
}

// Hard constraints exclude non-matching items outright.
type Hard struct {
	MinQualityScore *float64 `json:"minQualityScore,omitempty"`
	MinEpisodes     *int     `json:"minEpisodes,omitempty"`
	LocationType    string   `json:"locationType,omitempty"`
	PolicySlug      string   `json:"policySlug,omitempty"`
}

// IsZero reports whether no hard constraint is set.
func (h Hard) IsZero() bool {
	return h.MinQualityScore == nil && h.MinEpisodes == nil &&
		h.LocationType == "" && h.PolicySlug == ""
}

// Soft signals only boost scores, never exclude.
type Soft struct {
	Tabletop       bool     `json:"tabletop,omitempty"`
	PolicySlugs    []string `json:"policySlugs,omitempty"`
	RobotModels    []string `json:"robotModels,omitempty"`
	CompatibleWith []string `json:"compatibleWith,omitempty"`
	ObjectTags     []string `json:"objectTags,omitempty"`
}

// Chip is a short machine-generated label describing one parsed
// constraint or signal, for UI display.
type Chip struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Parsed is the full parser output for one query.
type Parsed struct {
	Hard     Hard     `json:"hard"`
	Soft     Soft     `json:"soft"`
	Chips    []Chip   `json:"chips"`
	Warnings []string `json:"warnings,omitempty"`
}

var (
	qualityRe = regexp.MustCompile(
		`(?i)\bquality(?:\s+scores?)?\s*(?:>=|>|above|over|at\s+least)\s*(\d+(?:\.\d+)?)\s*(%)?`)
	qualityWordRe  = regexp.MustCompile(`(?i)\bquality\b`)
	comparisonRe   = regexp.MustCompile(`(?i)>=|>|\babove\b|\bover\b|\bat\s+least\b`)
	episodeCountRe = regexp.MustCompile(
		`(?i)\b(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)(?:\s*(k)\b)?[^\d]{0,40}?\b(?:episodes?|demos?|trajector(?:y|ies))\b`)
	episodeWordRe = regexp.MustCompile(`(?i)\b(?:episodes?|demos?|demonstrations?|trajector(?:y|ies))\b`)
	tabletopRe    = regexp.MustCompile(`(?i)\btabletop\b`)
)

// locationTriggers is an ordered table of canonical location categories and
// the query phrasings that imply them. First matching entry present in the
// vocabulary wins.
var locationTriggers = []struct {
	value string
	re    *regexp.Regexp
}{
	{"Kitchens", regexp.MustCompile(`(?i)\bkitchens?\b`)},
	{"Warehouses", regexp.MustCompile(`(?i)\bwarehouses?\b|\blogistics\b|\bfulfillment\b`)},
	{"Labs", regexp.MustCompile(`(?i)\blabs?\b|\blaborator(?:y|ies)\b`)},
	{"Offices", regexp.MustCompile(`(?i)\boffices?\b|\bdesks?\b`)},
	{"Retail", regexp.MustCompile(`(?i)\bretail\b|\bstores?\b|\bsupermarkets?\b|\bgrocery\b`)},
	{"Homes", regexp.MustCompile(`(?i)\bhomes?\b|\bhousehold\b|\bliving\s+rooms?\b|\bbedrooms?\b|\bapartments?\b`)},
}

// policyPhrases maps common query phrasings to policy slugs. Only slugs
// present in the vocabulary are emitted.
var policyPhrases = []struct {
	phrase string
	slug   string
}{
	{"pick and place", "pick-place"},
	{"pick-and-place", "pick-place"},
	{"pick & place", "pick-place"},
	{"pick-place", "pick-place"},
	{"bin picking", "bin-picking"},
	{"bin-picking", "bin-picking"},
	{"pouring", "pouring"},
	{"towel folding", "towel-folding"},
	{"folding", "towel-folding"},
	{"drawer", "drawer-opening"},
	{"shelf stocking", "shelf-stocking"},
	{"stocking", "shelf-stocking"},
	{"table wiping", "table-wiping"},
	{"wiping", "table-wiping"},
}

// robotKeywords maps hardware names in queries to canonical robot models.
var robotKeywords = []struct {
	re        *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`(?i)\bfranka\b|\bpanda\b`), "Franka Emika Panda"},
	{regexp.MustCompile(`(?i)\bur5e?\b`), "UR5e"},
	{regexp.MustCompile(`(?i)\bur10e?\b`), "UR10e"},
	{regexp.MustCompile(`(?i)\baloha\b`), "ALOHA 2"},
	{regexp.MustCompile(`(?i)\bwidow\s?x\b`), "WidowX 250"},
	{regexp.MustCompile(`(?i)\bso-?100\b`), "SO-100"},
	{regexp.MustCompile(`(?i)\bstretch\b`), "Hello Robot Stretch"},
	{regexp.MustCompile(`(?i)\bxarm\b`), "xArm 7"},
}

// modelKeywords maps model/architecture names to canonical names.
var modelKeywords = []struct {
	re        *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`(?i)\bpi-?0\b|\bpi\s?zero\b`), "pi0"},
	{regexp.MustCompile(`(?i)\bopenvla\b`), "OpenVLA"},
	{regexp.MustCompile(`(?i)\bocto\b`), "Octo"},
	{regexp.MustCompile(`(?i)\brt-?2\b`), "RT-2"},
	{regexp.MustCompile(`(?i)\bact\b`), "ACT"},
	{regexp.MustCompile(`(?i)\bdiffusion\s+policy\b`), "Diffusion Policy"},
	{regexp.MustCompile(`(?i)\bsmolvla\b`), "SmolVLA"},
	{regexp.MustCompile(`(?i)\bgr?o{2}t\b|\bgr00t\b`), "GR00T N1"},
}

// Parse extracts constraints, signals, and chips from a raw query.
// All rules are evaluated independently; chips preserve rule order.
func Parse(raw string, voc Vocabulary) Parsed {
	var p Parsed
	lower := strings.ToLower(raw)

	parseQuality(raw, &p)
	parseEpisodes(raw, &p)
	parseLocation(raw, voc, &p)
	parseTabletop(raw, &p)
	parsePolicies(raw, lower, voc, &p)
	parseRobots(raw, &p)
	parseModels(raw, &p)
	parseObjectTags(raw, voc, &p)

	return p
}

func parseQuality(raw string, p *Parsed) {
	m := qualityRe.FindStringSubmatch(raw)
	if m == nil {
		if qualityWordRe.MatchString(raw) && comparisonRe.MatchString(raw) {
			p.Warnings = append(p.Warnings,
				"could not read a quality threshold from the query")
		}
		return
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return
	}
	if m[2] == "%" {
		v /= 100
	}
	v = clamp01(v)
	p.Hard.MinQualityScore = &v
	p.Chips = append(p.Chips, Chip{
		Key:   "minQualityScore",
		Label: "Quality score",
		Value: fmt.Sprintf(">= %.2f", v),
	})
}

func parseEpisodes(raw string, p *Parsed) {
	best := 0
	for _, m := range episodeCountRe.FindAllStringSubmatch(raw, -1) {
		num := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			v *= 1000
		}
		if n := int(v); n > best {
			best = n
		}
	}
	if best == 0 {
		return
	}
	p.Hard.MinEpisodes = &best
	p.Chips = append(p.Chips, Chip{
		Key:   "minEpisodes",
		Label: "Episodes",
		Value: fmt.Sprintf(">= %d", best),
	})
}

func parseLocation(raw string, voc Vocabulary, p *Parsed) {
	for _, trig := range locationTriggers {
		canonical, known := vocabularyValue(voc.LocationTypes, trig.value)
		if !known {
			continue
		}
		if trig.re.MatchString(raw) {
			p.Hard.LocationType = canonical
			p.Chips = append(p.Chips, Chip{
				Key:   "locationType",
				Label: "Location",
				Value: canonical,
			})
			return
		}
	}
}

func parseTabletop(raw string, p *Parsed) {
	if !tabletopRe.MatchString(raw) {
		return
	}
	p.Soft.Tabletop = true
	p.Chips = append(p.Chips, Chip{Key: "tabletop", Label: "Tabletop", Value: "yes"})
}

func parsePolicies(raw, lower string, voc Vocabulary, p *Parsed) {
	known := make(map[string]bool, len(voc.Policies))
	for _, pol := range voc.Policies {
		known[pol.Slug] = true
	}

	var slugs []string
	seen := make(map[string]bool)
	add := func(slug string) {
		if slug == "" || seen[slug] || !known[slug] {
			return
		}
		seen[slug] = true
		slugs = append(slugs, slug)
	}

	// Literal slug mentions first, then phrase-mapped slugs.
	for _, pol := range voc.Policies {
		if strings.Contains(lower, strings.ToLower(pol.Slug)) {
			add(pol.Slug)
		}
	}
	for _, pp := range policyPhrases {
		if strings.Contains(lower, pp.phrase) {
			add(pp.slug)
		}
	}

	if len(slugs) == 0 {
		return
	}

	// Heuristic carried from the original engine: a query that also talks
	// about episodes/demos is asking for data that exercises the policy, so
	// the first detected policy becomes a hard constraint. Otherwise all
	// detected policies stay boost-only.
	if episodeWordRe.MatchString(raw) {
		p.Hard.PolicySlug = slugs[0]
		p.Chips = append(p.Chips, Chip{
			Key:   "policySlug",
			Label: "Policy",
			Value: slugs[0],
		})
		return
	}

	p.Soft.PolicySlugs = slugs
	p.Chips = append(p.Chips, Chip{
		Key:   "policySlugs",
		Label: "Policies",
		Value: strings.Join(slugs, ", "),
	})
}

func parseRobots(raw string, p *Parsed) {
	var models []string
	seen := make(map[string]bool)
	for _, rk := range robotKeywords {
		if rk.re.MatchString(raw) && !seen[rk.canonical] {
			seen[rk.canonical] = true
			models = append(models, rk.canonical)
		}
	}
	if len(models) == 0 {
		return
	}
	p.Soft.RobotModels = models
	p.Chips = append(p.Chips, Chip{
		Key:   "robotModels",
		Label: "Robots",
		Value: strings.Join(models, ", "),
	})
}

func parseModels(raw string, p *Parsed) {
	var models []string
	seen := make(map[string]bool)
	for _, mk := range modelKeywords {
		if mk.re.MatchString(raw) && !seen[mk.canonical] {
			seen[mk.canonical] = true
			models = append(models, mk.canonical)
		}
	}
	if len(models) == 0 {
		return
	}
	p.Soft.CompatibleWith = models
	p.Chips = append(p.Chips, Chip{
		Key:   "compatibleWith",
		Label: "Compatible with",
		Value: strings.Join(models, ", "),
	})
}

func parseObjectTags(raw string, voc Vocabulary, p *Parsed) {
	if len(voc.ObjectTags) == 0 {
		return
	}
	known := make(map[string]bool, len(voc.ObjectTags))
	for _, tag := range voc.ObjectTags {
		known[strings.ToLower(tag)] = true
	}

	var tags []string
	seen := make(map[string]bool)
	for _, tok := range text.Tokenize(raw) {
		if !known[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		tags = append(tags, tok)
		if len(tags) == MaxObjectTags {
			break
		}
	}
	if len(tags) == 0 {
		return
	}
	p.Soft.ObjectTags = tags
	p.Chips = append(p.Chips, Chip{
		Key:   "objectTags",
		Label: "Objects",
		Value: strings.Join(tags, ", "),
	})
}

// vocabularyValue finds the vocabulary spelling of a canonical value,
// matching case-insensitively.
func vocabularyValue(vocab []string, canonical string) (string, bool) {
	for _, v := range vocab {
		if strings.EqualFold(v, canonical) {
			return v, true
		}
	}
	return "", false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
