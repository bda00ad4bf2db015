// internal/pkg/httpclient/client.go

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// maxErrorBody bounds how much of a failed response body is kept on StatusError.
const maxErrorBody = 4 << 10

// StatusError is returned when a downstream service answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a StatusError carrying 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client is a traced JSON HTTP client shared by all outbound adapters.
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
}

// NewClient creates a client without a Timeout on http.Client; deadlines come
// from the context of each call.
func NewClient(tracer trace.Tracer) *Client {
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
	}
	return &Client{
		Tracer:     tracer,
		HTTPClient: httpClient,
	}
}

// GetJSON issues a GET with query params and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, serviceURL string, params url.Values, out any) error {
	target, err := url.Parse(serviceURL)
	if err != nil {
		return err
	}
	q := target.Query()
	for key, values := range params {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	target.RawQuery = q.Encode()

	return c.do(ctx, http.MethodGet, target, nil, out)
}

// PostJSON sends body as JSON and decodes the JSON response into out. out may be nil.
func (c *Client) PostJSON(ctx context.Context, serviceURL string, body any, out any) error {
	target, err := url.Parse(serviceURL)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "marshal request body")
	}
	return c.do(ctx, http.MethodPost, target, payload, out)
}

func (c *Client) do(ctx context.Context, method string, target *url.URL, payload []byte, out any) error {
	spanName := fmt.Sprintf("call-%s", strings.Split(target.Host, ":")[0])
	ctx, span := c.Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		span.RecordError(err)
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	span.SetAttributes(
		attribute.String("http.url", target.String()),
		attribute.String("http.method", method),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := &StatusError{Method: method, URL: target.String(), StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		err = errors.Wrapf(err, "decode response from %s", target.String())
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response")
		return err
	}
	return nil
}
