// Package enrich fills in missing article metadata from the article page's
// OpenGraph tags.
package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-newsapi/internal/domain"
	"github.com/samvad-hq/samvad-newsapi/internal/logger"
	"github.com/samvad-hq/samvad-newsapi/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultTimeout   = 10 * time.Second
)

// Enricher fetches article pages and merges OG metadata into articles that
// lack a description or image.
type Enricher struct {
	client  httpclient.Client
	log     logger.Logger
	delay   time.Duration
	headers map[string]string
}

// New constructs an enricher. A nil client uses the default resty transport;
// delay throttles consecutive page fetches.
func New(client httpclient.Client, log logger.Logger, delay time.Duration) *Enricher {
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Enricher{
		client: client,
		log:    log,
		delay:  delay,
		headers: map[string]string{
			"Accept":     "text/html,application/xhtml+xml",
			"User-Agent": "samvad-newsapi-relay/1.0",
		},
	}
}

// Enrich returns a copy of articles with missing metadata filled in. Pages
// that fail to load leave the article untouched. On cancellation the
// articles processed so far are returned.
func (e *Enricher) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := append([]domain.Article(nil), articles...)
	fetched := 0

	for i, art := range articles {
		if !needsEnrichment(art) {
			continue
		}

		if fetched > 0 && e.delay > 0 {
			timer := time.NewTimer(e.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out[:i]
			case <-timer.C:
			}
		}
		select {
		case <-ctx.Done():
			return out[:i]
		default:
		}

		fetched++
		enriched, err := e.fetchAndMerge(ctx, art)
		if err != nil {
			e.log.WarnObj("article metadata scrape failed", "metadata_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
			continue
		}
		out[i] = enriched
	}

	return out
}

func needsEnrichment(a domain.Article) bool {
	return a.URL != "" && (a.Description == "" || a.ImageURL == "")
}

func (e *Enricher) fetchAndMerge(ctx context.Context, art domain.Article) (domain.Article, error) {
	resp, err := e.client.Get(ctx, art.URL, e.headers)
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}

	// Meta tags live in the head, so a capped page is still parsed.
	body, err := httpclient.ReadAll(resp, maxHTMLBodyBytes)
	if err != nil && !errors.Is(err, httpclient.ErrBodyTooLarge) {
		return art, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return art, fmt.Errorf("status %d", resp.StatusCode())
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}

	updated := art
	if updated.Description == "" {
		updated.Description = meta.Description
	}
	if updated.ImageURL == "" {
		updated.ImageURL = resolveURL(meta.ImageURL, art.URL)
	}
	if updated.Title == "" {
		updated.Title = meta.Title
	}
	return updated, nil
}

type pageMeta struct {
	Title       string
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	content := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Title: firstNonEmpty(
			content(`meta[property="og:title"]`),
			doc.Find("title").First().Text(),
		),
		Description: firstNonEmpty(
			content(`meta[property="og:description"]`),
			content(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			content(`meta[property="og:image"]`),
			content(`meta[name="twitter:image"]`),
		),
	}, nil
}

// resolveURL makes ref absolute against the page URL.
func resolveURL(ref, page string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if refURL.IsAbs() {
		return refURL.String()
	}
	base, err := url.Parse(page)
	if err != nil {
		return ""
	}
	return base.ResolveReference(refURL).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
