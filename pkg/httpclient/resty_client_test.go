package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRestyClientGetStreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "raw-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "short and stout")
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Get(context.Background(), srv.URL, map[string]string{"Authorization": "raw-key"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("status = %d", resp.StatusCode())
	}

	body, err := ReadAll(resp, 5)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
	if string(body) != "short" {
		t.Fatalf("limited body = %q", body)
	}
}

func TestReadAllLimitBoundary(t *testing.T) {
	body, err := ReadAll(nopResponse{body: io.NopCloser(strings.NewReader("exact"))}, 5)
	if err != nil || string(body) != "exact" {
		t.Fatalf("body at limit = %q %v", body, err)
	}

	body, err = ReadAll(nopResponse{body: io.NopCloser(strings.NewReader("exact!"))}, 5)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("one byte over limit: expected ErrBodyTooLarge, got %v", err)
	}
	if string(body) != "exact" {
		t.Fatalf("truncated body = %q", body)
	}
}

type nopResponse struct{ body io.ReadCloser }

func (n nopResponse) StatusCode() int     { return http.StatusOK }
func (n nopResponse) Body() io.ReadCloser { return n.body }

func TestReadAllNilBody(t *testing.T) {
	body, err := ReadAll(nopResponse{}, 0)
	if err != nil || body != nil {
		t.Fatalf("expected empty read, got %q %v", body, err)
	}

	body, err = ReadAll(nopResponse{body: io.NopCloser(strings.NewReader("full"))}, 0)
	if err != nil || string(body) != "full" {
		t.Fatalf("unlimited read = %q %v", body, err)
	}
}
