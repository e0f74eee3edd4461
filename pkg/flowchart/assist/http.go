package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/randalmurphal/flowchart/pkg/flowchart"
	"github.com/randalmurphal/flowchart/pkg/flowchart/export"
	"github.com/randalmurphal/flowchart/pkg/flowchart/observability"
)

// HTTPGenerator calls a chat backend over HTTP. The backend receives
// {"message": <instruction>} and must answer with a {nodes, edges}
// payload in the interchange node/edge shape.
type HTTPGenerator struct {
	endpoint string
	client   *http.Client
	spans    observability.SpanManager
}

// Compile-time interface check.
var _ Generator = (*HTTPGenerator)(nil)

// HTTPOption configures HTTPGenerator.
type HTTPOption func(*HTTPGenerator)

// WithHTTPClient overrides the HTTP client. The default has a
// 60 second timeout.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(g *HTTPGenerator) {
		if client != nil {
			g.client = client
		}
	}
}

// WithTimeout sets the request timeout on the default client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(g *HTTPGenerator) {
		g.client.Timeout = d
	}
}

// WithSpanManager traces each generation call as a client span.
// Default: observability.NoopSpanManager.
func WithSpanManager(sm observability.SpanManager) HTTPOption {
	return func(g *HTTPGenerator) {
		if sm != nil {
			g.spans = sm
		}
	}
}

// NewHTTPGenerator creates a generator that posts instructions to the
// given endpoint (e.g., "http://localhost:8000/api/chat").
func NewHTTPGenerator(endpoint string, opts ...HTTPOption) *HTTPGenerator {
	g := &HTTPGenerator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements Generator.
func (g *HTTPGenerator) Generate(ctx context.Context, instruction string) (doc *flowchart.Document, err error) {
	if instruction == "" {
		return nil, ErrEmptyInstruction
	}

	ctx, span := g.spans.StartGenerateSpan(ctx, g.endpoint)
	defer func() { g.spans.EndSpanWithError(span, err) }()

	body, err := json.Marshal(map[string]string{"message": instruction})
	if err != nil {
		return nil, &GenerateError{Endpoint: g.endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &GenerateError{Endpoint: g.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &GenerateError{Endpoint: g.endpoint, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &GenerateError{Endpoint: g.endpoint, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &GenerateError{
			Endpoint: g.endpoint,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	flow, err := export.DecodeFlow(payload)
	if err != nil {
		return nil, &GenerateError{Endpoint: g.endpoint, Err: err}
	}
	return documentFromFlow(flow, instruction), nil
}

// maxResponseBytes caps how much of a generation response is read.
const maxResponseBytes = 8 << 20
