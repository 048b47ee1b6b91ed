package webclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a fully read HTTP response. Any status, including 4xx and 5xx,
// arrives here as data.
type Response struct {
	StatusCode int
	Method     string
	URL        string
	Header     http.Header
	Body       []byte
}

// OK reports a 200, the only status the receipt API uses for success.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if r == nil {
		return fmt.Errorf("decode response: nil response")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}
