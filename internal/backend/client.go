// Package backend is the typed client for the storefront's REST backend.
// All business logic (pricing, inventory, order state transitions,
// notification dispatch) lives behind this API; the gateway only calls it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/vrksatech/market/internal/domain"
)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 4 << 20
)

// CredentialSource yields the bearer credential for outgoing requests.
// Implementations read the active session from the request context rather
// than from ambient globals, so the credential travels explicitly with
// each call.
type CredentialSource interface {
	Token(ctx context.Context) (string, bool)
}

// StaticToken is a CredentialSource backed by a fixed credential.
// An empty token yields no Authorization header.
type StaticToken string

// Token implements CredentialSource.
func (s StaticToken) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

// Client calls the backend REST API. It attaches JSON headers on every
// request, a bearer header when a credential is available, and normalizes
// failures into domain errors. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
}

// NewClient creates a backend client for the given base URL
// (e.g. "http://localhost:5000/api"). A nil httpClient gets a default
// with a request timeout.
func NewClient(baseURL string, httpClient *http.Client, creds CredentialSource) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if creds == nil {
		creds = StaticToken("")
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		creds:   creds,
	}
}

// request performs one API call. body is JSON-encoded when non-nil; a
// 2xx response is decoded into out when out is non-nil.
func (c *Client) request(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, extra http.Header) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return domain.Internal(err, "backend.request", "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.Internal(err, "backend.request", "failed to build request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token, ok := c.creds.Token(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range extra {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.Error{
			Code:    domain.EUNAVAILABLE,
			Op:      "backend.request",
			Message: "network failure",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &domain.Error{
			Code:    domain.EUNAVAILABLE,
			Op:      "backend.request",
			Message: "network failure",
			Err:     err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp.StatusCode, payload)
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return domain.Internal(err, "backend.request", "malformed response from backend")
	}
	return nil
}

// apiError builds a domain error from a non-2xx response, preferring the
// body's error field over a generic message.
func apiError(status int, payload []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(payload, &body)

	message := body.Error
	if message == "" {
		message = "Request failed"
	}

	return &domain.Error{
		Code:       codeForStatus(status),
		Op:         "backend.request",
		Message:    message,
		HTTPStatus: status,
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.EINVALID
	case http.StatusUnauthorized:
		return domain.EUNAUTHORIZED
	case http.StatusPaymentRequired:
		return domain.EPAYMENT
	case http.StatusForbidden:
		return domain.EFORBIDDEN
	case http.StatusNotFound:
		return domain.ENOTFOUND
	case http.StatusConflict:
		return domain.ECONFLICT
	case http.StatusTooManyRequests:
		return domain.ERATELIMIT
	default:
		return domain.EINTERNAL
	}
}
