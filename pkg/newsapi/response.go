package newsapi

import "fmt"

const statusOK = "ok"

// Response is the top-level NewsAPI payload. Code and Message are set only
// when Status is not "ok".
type Response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message,omitempty"`
	TotalResults int       `json:"totalResults,omitempty"`
	Articles     []Article `json:"articles"`
	Sources      []Source  `json:"sources,omitempty"`
}

// OK reports whether the service accepted the request.
func (r *Response) OK() bool {
	return r != nil && r.Status == statusOK
}

// envelope is the wire shape of Response. Status is a pointer so an absent
// field can be told apart from an empty one.
type envelope struct {
	Status *string `json:"status"`
	Response
}

// validate checks the fields every accepted payload must carry.
func (r *Response) validate() error {
	for i, a := range r.Articles {
		if a.Title == "" {
			return fmt.Errorf("article %d: missing title", i)
		}
		if a.URL == "" {
			return fmt.Errorf("article %d: missing url", i)
		}
	}
	return nil
}
