// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// payload is a request body with its content type
type payload struct {
	contentType string
	data        []byte
}

// jsonPayload finalizes a Body builder into a JSON request payload
func jsonPayload(body Body) (*payload, error) {
	data, err := body.Bytes()
	if err != nil {
		return nil, err
	}
	return &payload{contentType: "application/json", data: data}, nil
}

// formPayload encodes form values into a request payload
func formPayload(values url.Values) *payload {
	return &payload{
		contentType: "application/x-www-form-urlencoded",
		data:        []byte(values.Encode()),
	}
}

// do executes a single REST request through the shared session
//
// Every resource operation funnels through here: the rate limiter is waited
// on, the timeout priority model is applied, the session auth header (CSRF
// token or bearer token) is attached, and the response body is read in full
// and wrapped in a Res.
//
// Transport failures (connection refused, TLS failure, timeout) propagate as
// errors; HTTP-level failures do not - they are returned inside the Res and
// status interpretation stays with the caller. No request is ever retried.
func (c *Client) do(ctx context.Context, method, rawURL string, p *payload, mods ...func(*Req)) (Res, error) {
	req := &Req{}
	for _, mod := range mods {
		mod(req)
	}

	// Check context cancellation before doing any work
	if err := checkContextCancellation(ctx); err != nil {
		return Res{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Res{}, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	ctx, cancel := c.requestContext(ctx, req)
	defer cancel()

	var reader io.Reader
	if p != nil {
		reader = bytes.NewReader(p.data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return Res{}, fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if p != nil {
		httpReq.Header.Set("Content-Type", p.contentType)
	}

	// Attach the session auth header chosen at Open time
	c.mu.RLock()
	switch c.mode {
	case authCookie:
		httpReq.Header.Set("X-CSRFTOKEN", c.csrfToken)
	case authToken:
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	case authNone:
		// Unauthenticated request (logincheck itself, or pre-Open probing)
	}
	c.mu.RUnlock()

	c.logger.Debug("REST request",
		"method", method,
		"url", rawURL,
		"body", c.payloadForLogging(p))

	httpRes, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("REST request failed",
			"method", method,
			"url", rawURL,
			"error", err.Error())
		return Res{}, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer httpRes.Body.Close()

	body, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return Res{}, fmt.Errorf("%s %s: reading response body: %w", method, rawURL, err)
	}

	res := Res{
		StatusCode: httpRes.StatusCode,
		Body:       body,
		OK:         httpRes.StatusCode >= 200 && httpRes.StatusCode < 300,
	}

	c.logger.Debug("REST response",
		"method", method,
		"url", rawURL,
		"status", res.StatusCode,
		"body", c.prepareJSONForLogging(string(body)))

	return res, nil
}

// payloadForLogging renders a request payload for debug logging
//
// JSON bodies are redacted field-by-field. Form bodies carry the login
// credentials and multipart bodies carry firmware images; neither is ever
// logged verbatim.
func (c *Client) payloadForLogging(p *payload) string {
	if p == nil {
		return ""
	}
	if p.contentType == "application/json" {
		return c.prepareJSONForLogging(string(p.data))
	}
	return fmt.Sprintf("[%s: %d bytes]", p.contentType, len(p.data))
}

// requestContext applies the timeout priority model to a request context
//
// Timeout priority:
//  1. Request-specific timeout (req.Timeout > 0) - highest priority
//  2. Existing context deadline (ctx.Deadline() set) - medium priority
//  3. Client default timeout (c.RequestTimeout) - fallback
//
// The caller must call the returned cancel function after the request
// completes.
func (c *Client) requestContext(ctx context.Context, req *Req) (context.Context, context.CancelFunc) {
	// Priority 1: request-specific timeout (highest)
	if req.Timeout > 0 {
		if req.Timeout < time.Second {
			c.logger.Warn("request timeout is very short (may not complete)",
				"timeout", req.Timeout.String(),
				"hostname", c.Hostname)
		}
		return context.WithTimeout(ctx, req.Timeout)
	}

	// Priority 2: existing context deadline (medium)
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		// Return context with cancel to maintain consistent API
		return context.WithCancel(ctx)
	}

	// Priority 3: client default timeout (fallback)
	return context.WithTimeout(ctx, c.RequestTimeout)
}

// checkContextCancellation checks if context is canceled or deadline exceeded
//
// This is a non-blocking check used before issuing a request to avoid wasted
// work.
//
// Returns context.Canceled if context is canceled, context.DeadlineExceeded
// if deadline exceeded, or nil if context is still valid.
func checkContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
