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
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/logging"
	"github.com/google/uuid"
)

const maxResponseBytes = 1 << 20

type queryEncoder interface {
	Values() url.Values
}

// reply is the envelope a ledger body may carry. Success is a pointer so
// bodies without one, like the health check, are not read as failures.
type reply struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (r reply) failed() bool {
	return r.Success != nil && !*r.Success
}

// httpTransport speaks the ledger's JSON REST dialect.
type httpTransport struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// NewHTTPClient returns a Client talking REST to baseURL
// (e.g. "https://ledger.example.com").
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) *LedgerClient {
	t := &httpTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("transport", "http"),
	}
	return newLedgerClient(t)
}

func (t *httpTransport) newRequest(ctx context.Context, r route, in any) (*http.Request, error) {
	target := t.baseURL + r.path

	var body io.Reader
	if r.httpMethod == http.MethodGet {
		if q, ok := in.(queryEncoder); ok {
			target += "?" + q.Values().Encode()
		}
	} else if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.httpMethod, target, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(api.RequestIDKey, uuid.NewString())
	return req, nil
}

func (t *httpTransport) call(ctx context.Context, r route, in, out any) error {
	req, err := t.newRequest(ctx, r, in)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		t.logger.Debug(ctx, "request failed", "path", r.path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	t.logger.Debug(ctx, "request done",
		"path", r.path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(api.RequestIDKey),
		"elapsed", time.Since(start))

	var envelope reply
	_ = json.Unmarshal(raw, &envelope)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return errorFromHTTP(resp.StatusCode, api.ErrorResponse{
			Envelope: api.Envelope{Message: envelope.Message},
			Code:     envelope.Code,
		})
	}
	if envelope.failed() {
		return errorFromRejection(r, envelope.Code, envelope.Message)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func (t *httpTransport) close() error {
	t.http.CloseIdleConnections()
	return nil
}
