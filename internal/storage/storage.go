// Package storage remembers which articles the relay has already published.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store tracks published article IDs.
type Store interface {
	Close() error
	// Unseen returns the subset of ids not marked within the retention window,
	// preserving input order.
	Unseen(ids []string) ([]string, error)
	// Mark records ids as published.
	Mark(ids ...string) error
}

// Options controls retention for concrete store implementations.
type Options struct {
	ArticleTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	TypeNone  = "none"
	TypeBBolt = "bbolt"

	defaultArticleTTL      = 3 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ArticleTTL <= 0 {
		opts.ArticleTTL = defaultArticleTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                          { return nil }
func (noopStore) Unseen(ids []string) ([]string, error) { return ids, nil }
func (noopStore) Mark(...string) error                  { return nil }
