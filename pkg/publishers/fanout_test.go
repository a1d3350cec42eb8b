package publishers

import (
	"context"
	"errors"
	"testing"

	"github.com/samvad-hq/samvad-newsapi/internal/logger"
)

type stubPublisher struct {
	id       string
	typ      string
	err      error
	calls    int
	closed   bool
	closeErr error
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return s.closeErr
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: TypeHTTP}
	bad := &stubPublisher{id: "bad", typ: TypeHTTP, err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("nil publishers must be dropped, size=%d", fanout.Size())
	}

	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("every publisher must be attempted")
	}
}

func TestFanoutCloseClosesPublishers(t *testing.T) {
	a := &stubPublisher{id: "a"}
	b := &stubPublisher{id: "b", closeErr: errors.New("close failed")}

	err := NewFanout([]Publisher{a, b}).Close()
	if !a.closed || !b.closed {
		t.Fatalf("expected all publishers closed")
	}
	if err == nil {
		t.Fatalf("expected close error to surface")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %#v", pubs)
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "kafka", Type: "kafka"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}

func TestBuildAllClosesBuiltPublishersOnFailure(t *testing.T) {
	closeErr := errors.New("close failed")
	first := &stubPublisher{id: "first", typ: "stub", closeErr: closeErr}
	buildErr := errors.New("bad config")

	reg := NewRegistry(map[string]Builder{
		"stub": func(context.Context, PublisherConfig, logger.Logger) (Publisher, error) { return first, nil },
		"fail": func(context.Context, PublisherConfig, logger.Logger) (Publisher, error) { return nil, buildErr },
	})

	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: "stub"},
		{ID: "second", Type: "fail"},
	}, nil)
	if pubs != nil {
		t.Fatalf("expected no publishers, got %#v", pubs)
	}
	if !first.closed {
		t.Fatalf("expected built publisher to be closed")
	}
	if !errors.Is(err, buildErr) || !errors.Is(err, closeErr) {
		t.Fatalf("expected build and close errors joined, got %v", err)
	}
}
