package domain

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"strings"

	"github.com/samvad-hq/samvad-newsapi/pkg/newsapi"
)

// Article is the relay's flattened view of a NewsAPI article, as published
// downstream.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Author      string `json:"author,omitempty"`
	SourceID    string `json:"source_id,omitempty"`
	SourceName  string `json:"source_name,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Content     string `json:"content,omitempty"`
}

// ArticleID derives a stable identifier from an article URL.
func ArticleID(url string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(url)))
	return hex.EncodeToString(sum[:])
}

// FromNewsAPI copies a NewsAPI article into the relay model.
func FromNewsAPI(a newsapi.Article) Article {
	out := Article{
		ID:          ArticleID(a.URL),
		Title:       strings.TrimSpace(a.Title),
		URL:         strings.TrimSpace(a.URL),
		Description: strings.TrimSpace(a.Description),
		ImageURL:    strings.TrimSpace(a.URLToImage),
		Author:      strings.TrimSpace(a.Author),
		PublishedAt: a.PublishedAt,
		Content:     a.Content,
	}
	if a.Source != nil {
		out.SourceID = a.Source.ID
		out.SourceName = a.Source.Name
	}
	return out
}
