package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/hierarchy"
	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/scene"
	"github.com/matzehuels/lineage/pkg/session"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it so that rendering and caching behave the same.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Logger: logger,
	}
}

// Execute runs the complete session → clicks → render pipeline.
func (r *Runner) Execute(ctx context.Context, rec *family.Record, opts Options) (*Result, error) {
	if rec == nil {
		return nil, fmt.Errorf("invalid options: no family record")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	if data, err := json.Marshal(rec); err == nil {
		result.InputHash = cache.Hash(data)
	}

	// Stage 1: Session
	layoutStart := time.Now()
	sess, err := r.Interact(ctx, rec, opts)
	if err != nil {
		return nil, err
	}
	result.Session = sess
	result.Plan = sess.LastPlan()
	result.Stats.LayoutTime = time.Since(layoutStart)
	sess.View(func(t *hierarchy.Tree, s *scene.Scene) {
		result.Stats.Persons = t.Len()
		result.Stats.Visible = t.VisibleCount(t.Root())
		result.Stats.Cycles = s.Cycles()
	})

	opts.Logger.Info("laid out family tree",
		"persons", result.Stats.Persons,
		"visible", result.Stats.Visible,
		"cycles", result.Stats.Cycles,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, sess, result.InputHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Interact creates a session and replays the configured clicks.
//
// Each click is looked up by name. A person hidden under a collapsed
// ancestor is revealed first, which is a cycle of its own.
func (r *Runner) Interact(ctx context.Context, rec *family.Record, opts Options) (*session.Session, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	observability.Scene().OnLayoutStart(ctx, rec.Count())
	sess, plan, err := session.New(rec, opts.SessionOptions())
	if err != nil {
		observability.Scene().OnLayoutComplete(ctx, 0, time.Since(start), err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	observability.Scene().OnLayoutComplete(ctx, len(plan.Nodes), time.Since(start), nil)
	emitPlan(ctx, plan)

	for _, name := range opts.Clicks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plan, err := r.click(ctx, sess, name, opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("click %q: %w", name, err)
		}
		emitPlan(ctx, plan)
	}
	return sess, nil
}

func (r *Runner) click(ctx context.Context, sess *session.Session, name string, logger *log.Logger) (*scene.Plan, error) {
	id, err := sess.Find(name)
	if err != nil {
		return nil, err
	}
	visible := true
	sess.View(func(t *hierarchy.Tree, _ *scene.Scene) { visible = t.IsVisible(id) })
	if !visible {
		plan, err := sess.Reveal(id)
		if err != nil {
			return nil, err
		}
		emitPlan(ctx, plan)
		logger.Debug("revealed person", "name", name, "id", id)
	}
	plan, err := sess.Click(id)
	if err != nil {
		return nil, err
	}
	logger.Debug("clicked person", "name", name, "id", id,
		"enter", plan.Count(scene.Enter),
		"update", plan.Count(scene.Update),
		"exit", plan.Count(scene.Exit))
	return plan, nil
}

// RenderWithCacheInfo writes the requested formats for a session and
// reports whether all of them came from the cache.
//
// Artifacts are keyed by inputHash and the options that shape them, so a
// session replayed with the same clicks reuses earlier output. An empty
// inputHash disables caching.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sess *session.Session, inputHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	useCache := inputHash != "" && !opts.Refresh

	if useCache {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	start := time.Now()
	observability.Scene().OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(ctx, sess, opts)
	observability.Scene().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if inputHash != "" {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
				opts.Logger.Warn("cache write failed", "format", format, "error", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func emitPlan(ctx context.Context, p *scene.Plan) {
	observability.Scene().OnPlan(ctx, int(p.Source),
		p.Count(scene.Enter), p.Count(scene.Update), p.Count(scene.Exit))
}
