package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-newsapi/internal/config"
	"github.com/samvad-hq/samvad-newsapi/internal/domain"
	"github.com/samvad-hq/samvad-newsapi/internal/enrich"
	"github.com/samvad-hq/samvad-newsapi/internal/logger"
	"github.com/samvad-hq/samvad-newsapi/internal/storage"
	"github.com/samvad-hq/samvad-newsapi/pkg/newsapi"
	"github.com/samvad-hq/samvad-newsapi/pkg/publishers"
)

// Fetcher is the part of the NewsAPI client the relay depends on.
type Fetcher interface {
	Fetch(ctx context.Context) (*newsapi.Response, error)
	FetchAsync(ctx context.Context) <-chan newsapi.Result
}

// EventPublisher publishes articles downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
	Size() int
	Close() error
}

// ArticleEnricher fills in missing article metadata.
type ArticleEnricher interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}

// Relay fetches headlines from NewsAPI and forwards unseen articles to the
// configured publishers, once or on a fixed interval.
type Relay struct {
	fetcher   Fetcher
	fanout    EventPublisher
	store     storage.Store
	enricher  ArticleEnricher
	log       logger.Logger
	endpoint  string
	country   string
	fetchMode string
	interval  time.Duration
}

// PassStats summarises one relay pass.
type PassStats struct {
	Fetched   int
	Skipped   int
	Published int
	Failed    int
}

// NewRelay builds a relay runtime from config.
func NewRelay(ctx context.Context, cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	endpoint, err := newsapi.ParseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("newsapi endpoint: %w", err)
	}
	client := newsapi.New(cfg.APIKey,
		newsapi.WithBaseURL(cfg.BaseURL),
		newsapi.WithTimeout(cfg.RequestTimeout),
	).WithEndpoint(endpoint).WithCountry(cfg.Country)

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers enabled in %s", cfg.PublishersFile)
	}
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ArticleTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		storeErr := fmt.Errorf("init storage: %w", err)
		return nil, errors.Join(storeErr, publishers.NewFanout(pubs).Close())
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                cfg.StorageType,
		"path":                cfg.BBoltPath,
		"article_ttl_seconds": int(cfg.StorageTTL.Seconds()),
	})

	var enricher ArticleEnricher
	if cfg.EnrichArticles {
		enricher = enrich.New(nil, log, 500*time.Millisecond)
	}

	return &Relay{
		fetcher:   client,
		fanout:    publishers.NewFanout(pubs),
		store:     store,
		enricher:  enricher,
		log:       log,
		endpoint:  endpoint.String(),
		country:   cfg.Country,
		fetchMode: cfg.FetchMode,
		interval:  cfg.PollInterval,
	}, nil
}

// Run performs one pass immediately and, when a poll interval is set, one
// pass per tick until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.fetcher == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.close()

	r.log.InfoObj("relay starting", "relay_state", map[string]any{
		"endpoint":         r.endpoint,
		"country":          r.country,
		"fetch_mode":       r.fetchMode,
		"publishers_count": r.fanout.Size(),
		"poll_interval":    r.interval.String(),
	})

	if _, err := r.RunOnce(ctx); err != nil {
		if r.interval <= 0 {
			return err
		}
		r.log.ErrorObj("initial relay pass failed", "error", err.Error())
	}
	if r.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.log.ErrorObj("scheduled relay pass failed", "error", err.Error())
			}
		}
	}
}

// RunOnce fetches one page of headlines and publishes the unseen articles.
func (r *Relay) RunOnce(ctx context.Context) (PassStats, error) {
	start := time.Now()
	var stats PassStats

	resp, err := r.fetch(ctx)
	if err != nil {
		r.logFetchError(err)
		return stats, fmt.Errorf("fetch headlines: %w", err)
	}
	stats.Fetched = len(resp.Articles)

	articles := make([]domain.Article, 0, len(resp.Articles))
	byID := make(map[string]domain.Article, len(resp.Articles))
	ids := make([]string, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		art := domain.FromNewsAPI(a)
		if art.URL == "" {
			continue
		}
		if _, dup := byID[art.ID]; dup {
			continue
		}
		byID[art.ID] = art
		ids = append(ids, art.ID)
	}

	unseen, err := r.store.Unseen(ids)
	if err != nil {
		return stats, fmt.Errorf("check seen articles: %w", err)
	}
	for _, id := range unseen {
		articles = append(articles, byID[id])
	}
	stats.Skipped = stats.Fetched - len(articles)

	if r.enricher != nil && len(articles) > 0 {
		articles = r.enricher.Enrich(ctx, articles)
	}

	var errs []error
	for _, art := range articles {
		n, err := r.fanout.Publish(ctx, publishers.NewEvent(r.endpoint, r.country, art))
		if err != nil {
			errs = append(errs, err)
		}
		if n == 0 {
			stats.Failed++
			continue
		}
		stats.Published++
		if err := r.store.Mark(art.ID); err != nil {
			errs = append(errs, fmt.Errorf("mark article %s: %w", art.ID, err))
		}
	}

	r.log.InfoObj("relay pass completed", "relay_pass", map[string]any{
		"fetched":    stats.Fetched,
		"skipped":    stats.Skipped,
		"published":  stats.Published,
		"failed":     stats.Failed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return stats, errors.Join(errs...)
}

func (r *Relay) fetch(ctx context.Context) (*newsapi.Response, error) {
	if r.fetchMode == config.FetchModeAsync {
		select {
		case res := <-r.fetcher.FetchAsync(ctx):
			return res.Response, res.Err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.fetcher.Fetch(ctx)
}

func (r *Relay) logFetchError(err error) {
	fields := map[string]any{
		"endpoint": r.endpoint,
		"country":  r.country,
		"error":    err.Error(),
	}
	if apiErr, ok := newsapi.AsError(err); ok {
		fields["kind"] = apiErr.Kind.String()
		if apiErr.Reason != "" {
			fields["reason"] = apiErr.Reason
		}
		if apiErr.Code != "" {
			fields["code"] = apiErr.Code
		}
		if apiErr.StatusCode != 0 {
			fields["status"] = apiErr.StatusCode
		}
	}
	r.log.ErrorObj("newsapi fetch failed", "fetch_error", fields)
}

func (r *Relay) close() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publisher close failed", "error", err.Error())
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
}
