package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/catalogtree/pkg/cache"
	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/glossary"
	rio "github.com/matzehuels/catalogtree/pkg/io"
	"github.com/matzehuels/catalogtree/pkg/observability"
	"github.com/matzehuels/catalogtree/pkg/store"
	"github.com/matzehuels/catalogtree/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger

	// TTL, when positive, replaces cache.TTLForest and cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner.
// A nil keyer uses DefaultKeyer, a nil cache disables caching and a nil
// store limits sources to files and inline records.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Execute runs the complete load → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Records == nil && opts.Source == "" {
		opts.UseGlossaryFields()
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	records, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Records = len(records)

	r.Logger.Info("loaded records",
		"source", opts.String(),
		"records", len(records),
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	buildStart := time.Now()
	f, buildHit, err := r.BuildWithCacheInfo(ctx, records, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Forest = f
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Roots = len(f.Roots)
	result.Stats.Nodes = f.Len()
	result.Stats.Unreachable = len(f.Unreachable)
	result.Stats.Depth = tree.Depth(f.Roots)
	result.CacheInfo.BuildHit = buildHit
	if opts.TypeField == glossary.FieldType {
		s := glossary.Statistics(f.Roots)
		result.Stats.Glossary = &s
	}

	if len(f.Unreachable) > 0 {
		r.Logger.Warn("parent cycle detected", "unreachable", len(f.Unreachable))
	}
	r.Logger.Info("built forest",
		"roots", result.Stats.Roots,
		"nodes", result.Stats.Nodes,
		"depth", result.Stats.Depth,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.RenderWithCacheInfo(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.ForestHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Outputs,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load returns the records selected by opts: inline records, a file, or a
// store query, in that order of precedence.
func (r *Runner) Load(ctx context.Context, opts Options) ([]tree.Record, error) {
	switch {
	case opts.Records != nil:
		return opts.Records, nil
	case opts.Source != "":
		return rio.ReadRecordsFile(opts.Source, opts.Format)
	case r.Store != nil:
		nodes, err := r.Store.ListNodes(ctx, store.Query{RootPath: opts.RootPath})
		if err != nil {
			return nil, err
		}
		if opts.RootPath != "" && len(nodes) == 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "no nodes under %s", opts.RootPath)
		}
		return glossary.Records(nodes), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "no source: pass a records file or configure a store")
	}
}

// ResolveGlossary returns the materialized path of the node with uri.
func (r *Runner) ResolveGlossary(ctx context.Context, uri string) (string, error) {
	if err := errors.ValidateNodeURI(uri); err != nil {
		return "", err
	}
	if r.Store == nil {
		return "", errors.New(errors.ErrCodeStoreUnavailable, "no store configured")
	}
	n, ok, err := store.FindByURI(ctx, r.Store, uri)
	if err != nil {
		return "", err
	}
	if !ok || n.IsDeleted() {
		return "", errors.New(errors.ErrCodeNotFound, "node %s not found", uri)
	}
	return n.Path, nil
}

// BuildWithCacheInfo links records into a forest with caching and returns
// cache hit info. A cached forest holds numbers as json.Number, which is what
// pkg/io decoders produce; inline records with other numeric types read back
// as json.Number on a hit.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, records []tree.Record, opts Options) (*tree.Forest, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	sourceHash, err := cache.HashJSON(records)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "records are not serializable")
	}
	cacheKey := r.Keyer.ForestKey(sourceHash, opts.ForestKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if f, err := rio.ReadForest(bytes.NewReader(data)); err == nil {
				if len(f.Unreachable) > 0 {
					f.Unreachable = tree.Relink(f.Unreachable, opts.TreeOptions())
				}
				observability.Cache().OnCacheHit(ctx, "forest")
				return f, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "forest")
	}

	f := Build(ctx, records, opts.TreeOptions())

	if data, err := rio.MarshalForest(f); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLForest)); err != nil {
			opts.Logger.Debug("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "forest", len(data))
		}
	}
	return f, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, records []tree.Record, opts Options) (*tree.Forest, error) {
	f, _, err := r.BuildWithCacheInfo(ctx, records, opts)
	return f, err
}

// Build links records and reports the build to the observability hooks.
func Build(ctx context.Context, records []tree.Record, opts tree.Options) *tree.Forest {
	start := time.Now()
	observability.Build().OnBuildStart(ctx, len(records))
	f := tree.Build(records, opts)
	observability.Build().OnBuildComplete(ctx, observability.BuildSummary{
		Records:     len(records),
		Roots:       len(f.Roots),
		Nodes:       f.Len(),
		Unreachable: len(f.Unreachable),
	}, time.Since(start), nil)
	return f
}

// RenderWithCacheInfo renders every requested output with caching. It
// returns the artifacts, the forest hash and whether all outputs were cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f *tree.Forest, opts Options) (map[string][]byte, string, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}
	r.applyLogger(&opts)

	forestData, err := rio.MarshalForest(f)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize forest for cache key: %w", err)
	}
	forestHash := cache.Hash(forestData)

	artifacts := make(map[string][]byte, len(opts.Outputs))
	var missing []string
	for _, format := range opts.Outputs {
		key := r.Keyer.ArtifactKey(forestHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, forestHash, true, nil
	}

	rendered, err := Render(ctx, f, missing, opts)
	if err != nil {
		return nil, "", false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(forestHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, forestHash, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the hash and cache hit info.
func (r *Runner) Render(ctx context.Context, f *tree.Forest, opts Options) (map[string][]byte, error) {
	artifacts, _, _, err := r.RenderWithCacheInfo(ctx, f, opts)
	return artifacts, err
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Runner) ttl(fallback time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return fallback
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
