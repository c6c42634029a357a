package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rfidattend/internal/metrics"
	"rfidattend/internal/result"
)

// DefaultBaseURL is the hosted attendance backend.
const DefaultBaseURL = "https://attendance-monitoring-system-65w1.onrender.com"

// Client calls the attendance backend REST API. Every method makes a single
// attempt and reports failures as a result.APIError instead of an error.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Section names the kiosk's section in the "no class in session" message.
	Section string
}

// New creates a client with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	token       string
	// allowEmpty accepts a nominal response without a body.
	allowEmpty bool
	// onStatus may replace the default mapping of a non-2xx status.
	onStatus func(code int, statusText, details string) *result.APIError
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func isEmpty(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`))
}

func send[T any](ctx context.Context, c *Client, r request) result.Result[T] {
	details := result.Tag(strings.ToLower(r.method), r.op)
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues(r.op).Observe(time.Since(start).Seconds()) }()

	fail := func(outcome string, e *result.APIError) result.Result[T] {
		metrics.APICalls.WithLabelValues(r.op, outcome).Inc()
		return result.Fail[T](e)
	}

	target := c.BaseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fail("local_error", result.Local(err, details))
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fail("local_error", result.Local(fmt.Errorf("request failed: %w", err), details))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail("local_error", result.Local(fmt.Errorf("read body failed: %w", err), details))
	}

	if resp.StatusCode >= 300 {
		var apiErr *result.APIError
		if r.onStatus != nil {
			apiErr = r.onStatus(resp.StatusCode, statusText(resp), details)
		}
		if apiErr == nil {
			apiErr = result.FromStatus(resp.StatusCode, statusText(resp), details)
		}
		return fail("http_error", apiErr)
	}

	var out T
	if isEmpty(body) {
		if r.allowEmpty {
			metrics.APICalls.WithLabelValues(r.op, "ok").Inc()
			return result.Ok(out)
		}
		return fail("empty", result.Empty(resp.StatusCode, statusText(resp), details))
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return fail("local_error", result.Local(fmt.Errorf("failed to decode response: %w", err), details))
	}
	metrics.APICalls.WithLabelValues(r.op, "ok").Inc()
	return result.Ok(out)
}

func tokenQuery(token string) url.Values {
	q := url.Values{}
	if token != "" {
		q.Set("token", token)
	}
	return q
}
