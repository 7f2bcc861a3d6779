package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/zjrosen/rubymark/internal/cachemanager"
	"github.com/zjrosen/rubymark/internal/config"
	"github.com/zjrosen/rubymark/internal/log"
	"github.com/zjrosen/rubymark/internal/markdown"
)

// pipeline converts Markdown in the configured format, caching by content.
// It remembers the key last rendered for each source so an edited file's
// stale entry can be dropped.
type pipeline struct {
	format      string
	fingerprint []byte
	ttl         time.Duration
	store       *cachemanager.InMemoryCacheManager[cachemanager.Key, string]
	cache       *cachemanager.ReadThroughCache[cachemanager.Key, string, string]
	last        map[string]cachemanager.Key
}

func newPipeline(c config.Config) (*pipeline, error) {
	convert, err := converter(c)
	if err != nil {
		return nil, err
	}

	// Anything that changes the output must change the key.
	fingerprint := fmt.Appendf(nil, "%+v|%+v", c.Render, c.Terminal)

	store := cachemanager.NewInMemoryCacheManager[cachemanager.Key, string]("render", c.Cache.TTL, c.Cache.CleanupInterval)
	return &pipeline{
		format:      c.Render.Format,
		fingerprint: fingerprint,
		ttl:         c.Cache.TTL,
		store:       store,
		cache:       cachemanager.NewReadThroughCache[cachemanager.Key, string, string](store, convert, c.Cache.Disabled),
		last:        make(map[string]cachemanager.Key),
	}, nil
}

// converter returns the conversion function for c.Render.Format.
func converter(c config.Config) (func(ctx context.Context, src string) (string, error), error) {
	switch c.Render.Format {
	case config.FormatHTML, "":
		r := markdown.New(markdown.Options{
			XHTML:     c.Render.XHTML,
			Unsafe:    c.Render.Unsafe,
			HardWraps: c.Render.HardWraps,
			GFM:       c.Render.GFM,
		})
		return func(_ context.Context, src string) (string, error) {
			return r.Render(src)
		}, nil

	case config.FormatTerminal:
		r, err := markdown.NewTerminal(c.Terminal.Width, c.Terminal.Style)
		if err != nil {
			return nil, fmt.Errorf("creating terminal renderer: %w", err)
		}
		return func(_ context.Context, src string) (string, error) {
			return r.Render(src)
		}, nil

	case config.FormatFallback:
		return func(_ context.Context, src string) (string, error) {
			return string(markdown.FallbackSource([]byte(src))), nil
		}, nil
	}
	return nil, config.ValidateFormat(c.Render.Format)
}

// Render converts src read from name, reusing an earlier result for identical input.
func (p *pipeline) Render(ctx context.Context, name string, src []byte) (string, error) {
	key := cachemanager.NewKey(p.fingerprint, src)
	p.forget(ctx, name, key)

	start := time.Now()
	out, err := p.cache.GetWithRefresh(ctx, key, string(src), p.ttl)
	if err != nil {
		return "", err
	}
	p.last[name] = key
	log.Debug(log.CatRender, "rendered", "source", name, "format", p.format, "bytes", len(src), "elapsed", time.Since(start))
	return out, nil
}

// forget drops the entry name rendered to last time if its content changed
// and no other source still renders to it.
func (p *pipeline) forget(ctx context.Context, name string, key cachemanager.Key) {
	prev, ok := p.last[name]
	if !ok || prev == key {
		return
	}
	delete(p.last, name)
	for _, k := range p.last {
		if k == prev {
			return
		}
	}
	if err := p.cache.Delete(ctx, prev); err != nil {
		log.ErrorErr(log.CatCache, "dropping stale render failed", err, "source", name)
		return
	}
	log.Debug(log.CatCache, "dropped stale render", "source", name)
}
