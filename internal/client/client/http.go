package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/homelights/internal/logging"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
)

const RequestIDHeaderName = "X-Request-ID"

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the backend over REST/JSON.
//
// Reads go through an in-memory httpcache transport so that ETag and
// Cache-Control revalidation is honoured. The cache is dropped whenever the
// token changes, so responses never leak between accounts.
type HTTPClient struct {
	baseURL  string
	useCache bool
	log      logging.Logger

	mu    sync.RWMutex
	http  *http.Client
	token string
}

func NewHTTPClient(baseURL string, useCache bool, log logging.Logger) *HTTPClient {
	c := &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		useCache: useCache,
		log:      log,
	}
	c.http = c.newHTTPClient()
	return c
}

func (c *HTTPClient) newHTTPClient() *http.Client {
	if !c.useCache {
		return &http.Client{}
	}
	return &http.Client{Transport: httpcache.NewMemoryCacheTransport()}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == token {
		return
	}
	c.token = token
	c.http = c.newHTTPClient()
}

func (c *HTTPClient) ClearToken() {
	c.SetToken("")
}

// Request performs a single call against endpoint (relative to the base URL).
// For GET the payload becomes query parameters, for every other method it is
// sent as a JSON body. The raw body of a 2xx response is returned unchanged.
func (c *HTTPClient) Request(ctx context.Context, endpoint string, payload any, method string) (json.RawMessage, error) {
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	var body io.Reader
	if method == http.MethodGet {
		q, err := encodeQuery(payload)
		if err != nil {
			return nil, err
		}
		if len(q) > 0 {
			target += "?" + q.Encode()
		}
	} else if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeaderName, reqID)

	c.mu.RLock()
	token, hc := c.token, c.http
	c.mu.RUnlock()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.log.Warn(ctx, "request failed", "method", method, "endpoint", endpoint, "request_id", reqID, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request done",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", reqID,
		"cached", resp.Header.Get(httpcache.XFromCache) != "",
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorBody(resp.StatusCode, data)
	}
	return json.RawMessage(data), nil
}

func encodeQuery(payload any) (url.Values, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return p, nil
	case map[string]string:
		v := make(url.Values, len(p))
		for k, val := range p {
			v.Set(k, val)
		}
		return v, nil
	default:
		v, err := query.Values(payload)
		if err != nil {
			return nil, fmt.Errorf("encode query: %w", err)
		}
		return v, nil
	}
}

type errorEnvelope struct {
	Error *struct {
		Message json.RawMessage `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// parseErrorBody maps a non-2xx body to *ValidationError when it lists
// per-field errors and to *ResponseError otherwise.
func parseErrorBody(status int, data []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.Error == nil {
		return &ResponseError{Status: status, Message: UnexpectedErrorMessage}
	}

	fields := make(map[string]string, len(env.Error.Errors))
	for _, fe := range env.Error.Errors {
		if fe.Field == "" {
			continue
		}
		fields[fe.Field] = fe.Message
	}
	if len(fields) > 0 {
		return &ValidationError{Status: status, Fields: fields}
	}

	if msg := decodeMessage(env.Error.Message); msg != "" {
		return &ResponseError{Status: status, Message: msg}
	}
	return &ResponseError{Status: status, Message: UnexpectedErrorMessage}
}

// decodeMessage accepts either a string or a list of strings.
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return ""
}
