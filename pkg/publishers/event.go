package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-newsapi/internal/domain"
)

// Event represents the payload published downstream.
type Event struct {
	Endpoint    string         `json:"endpoint"`
	Country     string         `json:"country"`
	Article     domain.Article `json:"article"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewEvent constructs an Event for an article fetched from the given
// endpoint and country.
func NewEvent(endpoint, country string, article domain.Article) Event {
	return Event{
		Endpoint:    endpoint,
		Country:     country,
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes returns the routing metadata attached to queue and topic
// messages. Empty values are omitted since brokers reject them.
func (e Event) attributes() map[string]string {
	attrs := make(map[string]string, 3)
	for k, v := range map[string]string{
		"endpoint":  e.Endpoint,
		"country":   e.Country,
		"source_id": e.Article.SourceID,
	} {
		if v != "" {
			attrs[k] = v
		}
	}
	return attrs
}
