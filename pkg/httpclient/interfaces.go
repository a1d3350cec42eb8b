package httpclient

import (
	"context"
	"errors"
	"io"
)

// ErrBodyTooLarge is returned by ReadAll when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// Response is a minimal HTTP response contract. The body is left unread so
// callers can tell a failed transfer apart from a failed request.
type Response interface {
	StatusCode() int
	Body() io.ReadCloser
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// ReadAll drains and closes the response body. When limit is positive and the
// body is longer, the first limit bytes are returned together with
// ErrBodyTooLarge.
func ReadAll(resp Response, limit int64) ([]byte, error) {
	body := resp.Body()
	if body == nil {
		return nil, nil
	}
	defer body.Close()

	if limit <= 0 {
		return io.ReadAll(body)
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return data, err
	}
	if int64(len(data)) > limit {
		return data[:limit], ErrBodyTooLarge
	}
	return data, nil
}
