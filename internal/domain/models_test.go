package domain

import (
	"testing"

	"github.com/samvad-hq/samvad-newsapi/pkg/newsapi"
)

func TestFromNewsAPICopiesFields(t *testing.T) {
	src := newsapi.Article{
		Source:      &newsapi.Source{ID: "reuters", Name: "Reuters"},
		Author:      " Jane Doe ",
		Title:       "Markets rally",
		Description: "Stocks climbed.",
		URL:         "https://reuters.com/markets/1",
		URLToImage:  "https://reuters.com/1.jpg",
		PublishedAt: "2024-05-01T10:00:00Z",
	}

	got := FromNewsAPI(src)
	if got.ID != ArticleID(src.URL) || got.ID == "" {
		t.Fatalf("unexpected id %q", got.ID)
	}
	if got.Author != "Jane Doe" || got.SourceID != "reuters" || got.SourceName != "Reuters" {
		t.Fatalf("unexpected article %#v", got)
	}
	if got.ImageURL != src.URLToImage {
		t.Fatalf("image url = %q", got.ImageURL)
	}
}

func TestFromNewsAPIWithoutSource(t *testing.T) {
	got := FromNewsAPI(newsapi.Article{Title: "t", URL: "https://example.com/a"})
	if got.SourceID != "" || got.SourceName != "" {
		t.Fatalf("expected empty source, got %#v", got)
	}
}

func TestArticleIDStable(t *testing.T) {
	if ArticleID("https://example.com/a") != ArticleID(" https://example.com/a ") {
		t.Fatalf("id should ignore surrounding whitespace")
	}
	if ArticleID("https://example.com/a") == ArticleID("https://example.com/b") {
		t.Fatalf("distinct urls must yield distinct ids")
	}
}
