package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes caps how much of an upstream reply is read into memory.
const maxResponseBytes = 8 << 20

// HTTPClient sends requests to a backend over plain HTTP using a Protocol.
type HTTPClient struct {
	baseURL  string
	protocol Protocol
	client   *http.Client
}

// NewHTTPClient builds a client for baseURL. A nil hc uses a fresh http.Client;
// timeouts come from Send, not from the client.
func NewHTTPClient(baseURL string, p Protocol, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{}
	}
	if p == nil {
		p = OpenAIChat{}
	}
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		protocol: p,
		client:   hc,
	}
}

// Protocol returns the wire protocol this client speaks.
func (c *HTTPClient) Protocol() Protocol { return c.protocol }

// URL is the full upstream endpoint requests are posted to.
func (c *HTTPClient) URL() string { return c.baseURL + c.protocol.Path() }

func (c *HTTPClient) Send(ctx context.Context, req Request, timeout time.Duration) (RawResponse, error) {
	ctx, cancel := withBudget(ctx, timeout)
	defer cancel()

	body, err := c.protocol.Encode(req)
	if err != nil {
		return RawResponse{}, &Failure{Kind: KindUpstream, Detail: "encode request: " + err.Error(), Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return RawResponse{}, &Failure{Kind: KindUpstream, Detail: "create request: " + err.Error(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return RawResponse{}, transportFailure(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return RawResponse{}, transportFailure(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RawResponse{}, &Failure{
			Kind:   KindUpstream,
			Detail: fmt.Sprintf("%s\n%s", resp.Status, Truncate(string(data), MaxSnippet)),
		}
	}
	return RawResponse{StatusCode: resp.StatusCode, Body: data}, nil
}

func transportFailure(err error) *Failure {
	if isTimeout(err) {
		return &Failure{Kind: KindTimeout, Detail: "request timed out", Err: err}
	}
	return &Failure{Kind: KindUpstream, Detail: err.Error(), Err: err}
}
