// Package search orchestrates one search request: parse, embed, retrieve
// (vector backend preferred, static index fallback), filter, rank, sort.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roboatlas/searchd/internal/domain/catalog"
	"github.com/roboatlas/searchd/internal/domain/search/candidate"
	"github.com/roboatlas/searchd/internal/domain/search/parse"
	"github.com/roboatlas/searchd/internal/domain/search/rank"
	"github.com/roboatlas/searchd/internal/domain/search/request"
	"github.com/roboatlas/searchd/internal/domain/search/result"
	"github.com/roboatlas/searchd/internal/logger"
	"github.com/roboatlas/searchd/internal/metrics"
)

// Backend identifiers reported in response meta.
const (
	BackendVector = "redis-vector"
	BackendStatic = "static-inmemory"
)

// Applied echoes which filters were in effect for the request.
type Applied struct {
	Manual request.Filters `json:"manual"`
	Parsed parse.Hard      `json:"parsed"`
}

// Meta describes how the request was served.
type Meta struct {
	Backend        string `json:"backend"`
	EmbeddingModel string `json:"embeddingModel,omitempty"`
}

// Response is the full search response.
type Response struct {
	Results []result.Result `json:"results"`
	Parsed  parse.Parsed    `json:"parsed"`
	Applied Applied         `json:"applied"`
	Meta    Meta            `json:"meta"`
}

// Service is the public search entry point.
type Service struct {
	catalog *catalog.Catalog
	embed   Embedder
	vector  VectorBackend
	static  StaticIndex
	logger  *zap.Logger
}

// New creates a search service. vector may be nil when no vector-capable
// store exists in this deployment.
func New(cat *catalog.Catalog, embed Embedder, vector VectorBackend, static StaticIndex, log *zap.Logger) *Service {
	return &Service{catalog: cat, embed: embed, vector: vector, static: static, logger: log}
}

// Search executes a validated request end to end.
func (s *Service) Search(ctx context.Context, req request.Request) (*Response, error) {
	parsed := parse.Parse(req.Query, s.vocabulary())
	dropParsedKeys(&parsed, req.IgnoreParsedKeys)

	filters := mergeFilters(req.Filters, &parsed)

	qvec := s.embed.EmbedText(ctx, req.Query)
	if len(qvec) == 0 {
		parsed.Warnings = append(parsed.Warnings, "embeddings not configured; lexical only")
	}

	backend := BackendStatic
	var cands []candidate.Candidate
	if len(qvec) > 0 && s.vector != nil {
		if vc, ok := s.vector.Query(ctx, qvec, req.Limit); ok {
			cands = vc
			backend = BackendVector
		}
	}
	if backend != BackendVector {
		snap, err := s.static.Ensure(ctx)
		if err != nil {
			return nil, fmt.Errorf("ensure static index: %w", err)
		}
		cands = snap.Candidates
		parsed.Warnings = append(parsed.Warnings, snap.Warnings...)
	}

	eligible := rank.Filter(cands, filters, parsed.Hard)
	ranked := rank.Rank(rank.Input{
		QueryText:      req.Query,
		QueryEmbedding: qvec,
		Filters:        filters,
		Hard:           parsed.Hard,
		Soft:           parsed.Soft,
	}, eligible)

	window := page(ranked, req.Filters.Page, req.Limit)
	applySort(window, req.DefaultSort())

	results := make([]result.Result, len(window))
	for i, r := range window {
		results[i] = result.Result{
			Type:     r.Kind,
			Item:     r.Item,
			Score:    r.Score,
			Distance: r.Distance,
			Reasons:  r.Reasons,
		}
	}

	metrics.SearchRequestsTotal.WithLabelValues(backend).Inc()
	metrics.SearchResultCount.Observe(float64(len(results)))
	logger.FromContext(ctx).Info("search served",
		zap.String("backend", backend),
		zap.Int("candidates", len(cands)),
		zap.Int("results", len(results)),
		zap.Bool("semantic", len(qvec) > 0),
	)

	return &Response{
		Results: results,
		Parsed:  parsed,
		Applied: Applied{Manual: req.Filters, Parsed: parsed.Hard},
		Meta:    Meta{Backend: backend, EmbeddingModel: s.embed.Model()},
	}, nil
}

// vocabulary assembles the parser vocabularies from the catalog.
func (s *Service) vocabulary() parse.Vocabulary {
	pols := s.catalog.Policies()
	policies := make([]parse.Policy, len(pols))
	for i, p := range pols {
		policies[i] = parse.Policy{Slug: p.Slug, Title: p.Title}
	}
	return parse.Vocabulary{
		LocationTypes: s.catalog.LocationTypes(),
		Policies:      policies,
		ObjectTags:    s.catalog.ObjectTags(),
	}
}

// mergeFilters resolves precedence between manual filters and parsed hard
// constraints: an explicit manual value wins, and the parser's entry plus
// its chip are suppressed so the response never shows a stale constraint.
func mergeFilters(manual request.Filters, parsed *parse.Parsed) request.Filters {
	eff := manual

	if eff.LocationType == "" {
		eff.LocationType = parsed.Hard.LocationType
	} else if parsed.Hard.LocationType != "" {
		parsed.Hard.LocationType = ""
		removeChips(parsed, "locationType")
	}

	if eff.PolicySlug == "" {
		eff.PolicySlug = parsed.Hard.PolicySlug
	} else if parsed.Hard.PolicySlug != "" {
		parsed.Hard.PolicySlug = ""
		removeChips(parsed, "policySlug")
	}

	return eff
}

// dropParsedKeys discards parsed hard/soft entries (and their chips) the
// caller explicitly dismissed.
func dropParsedKeys(p *parse.Parsed, keys []string) {
	for _, key := range keys {
		switch key {
		case "minQualityScore":
			p.Hard.MinQualityScore = nil
		case "minEpisodes":
			p.Hard.MinEpisodes = nil
		case "locationType":
			p.Hard.LocationType = ""
		case "policySlug":
			p.Hard.PolicySlug = ""
		case "tabletop":
			p.Soft.Tabletop = false
		case "policySlugs":
			p.Soft.PolicySlugs = nil
		case "robotModels":
			p.Soft.RobotModels = nil
		case "compatibleWith":
			p.Soft.CompatibleWith = nil
		case "objectTags":
			p.Soft.ObjectTags = nil
		default:
			continue
		}
		removeChips(p, key)
	}
}

func removeChips(p *parse.Parsed, key string) {
	chips := p.Chips[:0]
	for _, c := range p.Chips {
		if c.Key != key {
			chips = append(chips, c)
		}
	}
	p.Chips = chips
}

// page slices the ranked list into the requested window.
func page(ranked []rank.Scored, pageNum, limit int) []rank.Scored {
	start := pageNum * limit
	if start >= len(ranked) {
		return nil
	}
	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end]
}
