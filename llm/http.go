package llm

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// Request is a fully assembled provider request, ready for a Transport.
type Request struct {
	Method  string
	URL     string
	Header  http.Header
	Body    []byte
	Timeout time.Duration // 0 means no timeout
}

// HTTPResponse is the transport's fully materialised answer.
type HTTPResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport performs one HTTP exchange. The core never retries; a
// transport error ends the current turn and is surfaced verbatim.
type Transport interface {
	Send(ctx context.Context, req *Request) (*HTTPResponse, error)
}

// HTTPTransport is the default Transport backed by net/http.
// The shared http.Client reuses connections across requests.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport creates a transport with a connection-reusing client.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		Client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Send performs the request. The Request's Timeout, when set, bounds the
// whole exchange through the context.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*HTTPResponse, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for name, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &HTTPResponse{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}
