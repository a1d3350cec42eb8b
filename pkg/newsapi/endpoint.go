package newsapi

import (
	"fmt"
	"strings"
)

// Endpoint identifies one of the NewsAPI operations.
type Endpoint int

const (
	TopHeadlines Endpoint = iota
	Everything
	Sources
)

var endpointPaths = map[Endpoint]string{
	TopHeadlines: "top-headlines",
	Everything:   "everything",
	Sources:      "top-headlines/sources",
}

var endpointNames = map[Endpoint]string{
	TopHeadlines: "top-headlines",
	Everything:   "everything",
	Sources:      "sources",
}

// Path returns the URL path segment for the endpoint, or "" for an
// undeclared value.
func (e Endpoint) Path() string {
	return endpointPaths[e]
}

func (e Endpoint) String() string {
	if name, ok := endpointNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Endpoint(%d)", int(e))
}

// ParseEndpoint resolves a configuration name ("top-headlines", "everything",
// "sources") into an Endpoint. Matching ignores case and surrounding space.
func ParseEndpoint(name string) (Endpoint, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for e, n := range endpointNames {
		if n == key {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown newsapi endpoint %q", name)
}
