// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default client configuration values
const (
	DefaultRequestTimeout     = 10 * time.Second
	DefaultUpgradeTimeout     = 300 * time.Second
	DefaultRateLimitPerMinute = 1000
	DefaultVerifyCertificate  = false
	DefaultPrettyPrintLogs    = false
)

// Security limits for JSON processing and logging
const (
	MaxJSONSizeForLogging = 1 * 1024 * 1024 // 1MB limit to prevent ReDoS attacks
	MaxSensitiveFields    = 1000            // Max redaction operations to prevent DoS
)

// Logging message constants
const (
	JSONTooLargeMessage     = "[JSON TOO LARGE FOR LOGGING]"
	JSONTooManySensitiveMsg = "[JSON CONTAINS TOO MANY SENSITIVE FIELDS]"
)

// defaultRedactionPatterns contains regex patterns for redacting sensitive
// data in logs
var defaultRedactionPatterns = []*regexp.Regexp{
	// JSON field patterns
	regexp.MustCompile(`"password"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"secretkey"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"secret"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"access_token"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"token"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"key"\s*:\s*"[^"]*"`),
}

// authMode identifies how the current session authenticates requests.
// At most one mode is active per session; the mode is chosen at Open time.
type authMode int

const (
	authNone authMode = iota
	authCookie
	authToken
)

// DeviceIdentity holds the identity fields cached from the most recent
// successful license status call
type DeviceIdentity struct {
	// Version is the firmware version string (e.g., "v6.2.0")
	Version string

	// Serial is the device serial number
	Serial string

	// Forticare is the FortiCare registration status
	Forticare string
}

// DeviceStatus is the composite status summary assembled by Status
type DeviceStatus struct {
	// Version is the firmware version string
	Version string

	// Serial is the device serial number
	Serial string

	// Forticare is the FortiCare registration status
	Forticare string

	// Hostname is the configured device hostname
	Hostname string

	// Model is the device model as "{model_name}-{model_number}"
	Model string

	// Uptime is the elapsed time since the last reboot in whole seconds
	Uptime int64
}

// Client represents an authenticated REST session with a FortiOS device.
//
// The client owns the transport session (an *http.Client with a cookie jar)
// and shares it with every resource in the System tree. Authentication state
// (CSRF token or bearer token) is installed once by Open and attached to
// every subsequent request.
type Client struct {
	// httpClient is the shared transport session
	httpClient *http.Client

	// limiter throttles outgoing requests client-side
	limiter *rate.Limiter

	// RWMutex to synchronize access to mutable session state
	mu sync.RWMutex

	// Hostname is the device hostname, immutable after construction
	Hostname string

	// BaseURL is the API root, derived as https://{hostname}/api/v2
	BaseURL string

	// Credentials
	username        string // unexported for security
	password        string // unexported for security
	token           string // unexported for security
	credentialsFile string

	// TLS options
	VerifyCertificate bool

	// Timeout configuration
	RequestTimeout time.Duration
	UpgradeTimeout time.Duration

	// Rate limit configuration
	RateLimitPerMinute int

	// Session auth state
	mode      authMode
	csrfToken string

	// Identity fields cached from the license status endpoint
	identity DeviceIdentity

	// System is the tree of system-scoped resource clients
	System *System

	// Logging configuration
	logger            Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp
}

// NewClient creates a new FortiOS REST client for the specified hostname
//
// The client builds the shared transport session and composes the resource
// tree but does NOT contact the device; authentication happens in Open.
//
// Example:
//
//	device, err := fortios.NewClient(
//	    "firewall.example.com",
//	    fortios.Username("admin"),
//	    fortios.Password("secret"),
//	)
//	if err != nil {
//	    log.Fatal(err)  // Configuration error
//	}
//
//	res, err := device.Open(ctx)
//	if err != nil {
//	    log.Fatal(err)  // Authentication or connection error
//	}
//	defer device.Close(ctx)
//
//	res, err = device.System.Interface.List(ctx)
//
// Returns a configured Client or an error if configuration validation fails.
func NewClient(hostname string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		Hostname:           hostname,
		VerifyCertificate:  DefaultVerifyCertificate,
		RequestTimeout:     DefaultRequestTimeout,
		UpgradeTimeout:     DefaultUpgradeTimeout,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		logger:             &NoOpLogger{},
		prettyPrintLogs:    DefaultPrettyPrintLogs,
		redactionPatterns:  defaultRedactionPatterns,
	}

	// Apply functional options
	for _, opt := range opts {
		opt(client)
	}

	client.BaseURL = "https://" + client.Hostname + "/api/v2"

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	if err := client.createSession(); err != nil {
		return nil, err
	}

	client.limiter = rate.NewLimiter(
		rate.Limit(client.RateLimitPerMinute)/60.0,
		max(1, client.RateLimitPerMinute/60))

	// Resource tree shares the one session handle, never a copy
	client.System = newSystem(client)

	client.logger.Info("fortios client created",
		"hostname", client.Hostname,
		"base_url", client.BaseURL)

	return client, nil
}

// validateConfig validates client configuration before use
//
// Validates:
//   - Hostname is non-empty and carries no scheme or path
//   - Positive timeouts (RequestTimeout, UpgradeTimeout > 0)
//   - Positive rate limit
//
// Returns an error if validation fails.
func (c *Client) validateConfig() error {
	if strings.TrimSpace(c.Hostname) == "" {
		return fmt.Errorf("hostname cannot be empty")
	}
	if strings.Contains(c.Hostname, "://") || strings.Contains(c.Hostname, "/") {
		return fmt.Errorf("hostname must not contain a scheme or path: %s", c.Hostname)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %v", c.RequestTimeout)
	}
	if c.UpgradeTimeout <= 0 {
		return fmt.Errorf("upgrade timeout must be positive, got: %v", c.UpgradeTimeout)
	}

	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate limit must be positive, got: %d", c.RateLimitPerMinute)
	}

	// Appliances ship with self-signed certificates, so verification is off
	// by default; still worth a warning.
	if !c.VerifyCertificate {
		c.logger.Warn("TLS certificate verification disabled",
			"hostname", c.Hostname,
			"security_risk", "Man-in-the-Middle attacks possible")
	}

	return nil
}

// createSession builds the shared transport session
//
// A cookie jar is mandatory: cookie-based authentication stores the session
// cookies issued by logincheck in the jar. When the caller supplied a custom
// HTTP client without a jar, one is attached.
func (c *Client) createSession() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !c.VerifyCertificate, //nolint:gosec // Appliance self-signed certs, user-configurable
				},
			},
			Jar: jar,
		}
		return nil
	}

	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	return nil
}

// Open authenticates the session against the device
//
// Credential resolution order:
//  1. Explicit credentials from the Username/Password/Token options
//  2. The stored-credentials file, keyed by hostname
//  3. Neither available: ErrMissingCredentials
//
// With a token, the session runs in bearer mode: no logincheck request is
// issued and an Authorization header is installed instead. Without a token,
// Open performs the cookie-based login handshake: it posts the form-encoded
// credentials to /logincheck, reads the ccsrftoken session cookie from the
// resulting cookie jar (unwrapping the quotes the device puts around the
// value, when they survived cookie parsing) and installs it as the
// X-CSRFTOKEN header for all future requests.
//
// After auth-mode setup, Open calls the license status operation as an
// implicit verification step and returns its raw response. A logincheck
// response with no usable ccsrftoken cookie, or a verification response of
// 401/403, yields an error matching ErrAuthFailed.
//
// Example:
//
//	res, err := device.Open(ctx)
//	if errors.Is(err, fortios.ErrAuthFailed) {
//	    log.Fatal("bad credentials")
//	}
func (c *Client) Open(ctx context.Context) (Res, error) {
	creds, err := c.resolveCredentials()
	if err != nil {
		return Res{}, err
	}

	switch {
	case creds.Token != "":
		c.mu.Lock()
		c.mode = authToken
		c.token = creds.Token
		c.mu.Unlock()
		c.logger.Debug("bearer token installed", "hostname", c.Hostname)

	case creds.Username != "":
		if err := c.login(ctx, creds.Username, creds.Password); err != nil {
			return Res{}, err
		}

	default:
		return Res{}, &APIError{
			Operation: "open",
			Message:   "no username or token available",
			Err:       ErrMissingCredentials,
		}
	}

	// Implicit verification: license status is the first call every
	// authenticated session must be able to serve.
	res, err := c.LicenseStatus(ctx)
	if err != nil {
		return res, fmt.Errorf("open: %w", err)
	}
	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return res, &APIError{
			Operation:  "open",
			StatusCode: res.StatusCode,
			Message:    "device rejected the authenticated session",
			Err:        ErrAuthFailed,
		}
	}

	c.logger.Info("session opened",
		"hostname", c.Hostname,
		"status", res.StatusCode)

	return res, nil
}

// resolveCredentials returns explicit credentials when configured, otherwise
// consults the stored-credentials file
func (c *Client) resolveCredentials() (Credentials, error) {
	if c.username != "" || c.token != "" {
		return Credentials{Username: c.username, Password: c.password, Token: c.token}, nil
	}

	creds, err := lookupCredentials(c.credentialsFile, c.Hostname)
	if err != nil {
		return Credentials{}, fmt.Errorf("open: %w", err)
	}
	return creds, nil
}

// login performs the cookie-based logincheck handshake
func (c *Client) login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("secretkey", password)

	res, err := c.do(ctx, http.MethodPost, "https://"+c.Hostname+"/logincheck", formPayload(form))
	if err != nil {
		return fmt.Errorf("open: logincheck: %w", err)
	}

	// Scan the jar rather than the final response: a redirecting logincheck
	// delivers the session cookies on an intermediate hop, and the jar
	// collects every hop.
	csrf := csrfFromCookies(c.sessionCookies())
	if csrf == "" {
		return &APIError{
			Operation:  "open",
			StatusCode: res.StatusCode,
			Message:    "logincheck left no usable ccsrftoken cookie in the session",
			Err:        ErrAuthFailed,
		}
	}

	c.mu.Lock()
	c.mode = authCookie
	c.csrfToken = csrf
	c.mu.Unlock()

	c.logger.Debug("csrf token installed", "hostname", c.Hostname)
	return nil
}

// sessionCookies returns the cookies the jar currently holds for the device
func (c *Client) sessionCookies() []*http.Cookie {
	u, err := url.Parse("https://" + c.Hostname + "/")
	if err != nil || c.httpClient.Jar == nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

// csrfFromCookies extracts the CSRF token from the session cookies.
//
// The device sends the token wrapped in double quotes. Go's Set-Cookie
// parsing already strips a surrounding quote pair, so the stored value is
// normally the bare token; the quotes are stripped here only when they
// survived parsing, never blindly.
func csrfFromCookies(cookies []*http.Cookie) string {
	for _, cookie := range cookies {
		if cookie.Name != "ccsrftoken" {
			continue
		}
		value := cookie.Value
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		return value
	}
	return ""
}

// Close terminates the server-side session
//
// A logout POST is always issued, regardless of the auth mode: logout on a
// token session is a harmless no-op from the device's perspective. Closing
// does not reset in-memory auth state; releasing the Client value itself is
// the caller's responsibility.
//
// Returns the HTTP status code of the logout request.
func (c *Client) Close(ctx context.Context) (int, error) {
	res, err := c.do(ctx, http.MethodPost, "https://"+c.Hostname+"/logout", nil)
	if err != nil {
		return 0, fmt.Errorf("close: %w", err)
	}

	c.logger.Info("session closed",
		"hostname", c.Hostname,
		"status", res.StatusCode)

	return res.StatusCode, nil
}

// LicenseStatus retrieves the current license and registration status
//
// On HTTP 200 the identity fields (version, serial, FortiCare status) are
// parsed from the response and cached on the client; read them with
// Identity(). The raw response is returned regardless of status code and
// callers must check the status themselves.
func (c *Client) LicenseStatus(ctx context.Context, mods ...func(*Req)) (Res, error) {
	res, err := c.do(ctx, http.MethodGet, c.monitorURL("license", "status"), nil, mods...)
	if err != nil {
		return res, fmt.Errorf("license status: %w", err)
	}

	if res.StatusCode == http.StatusOK {
		identity := DeviceIdentity{
			Version:   res.GetValue("version").String(),
			Serial:    res.GetValue("serial").String(),
			Forticare: res.GetValue("results.forticare.status").String(),
		}

		c.mu.Lock()
		c.identity = identity
		c.mu.Unlock()

		c.logger.Debug("device identity refreshed",
			"serial", identity.Serial,
			"version", identity.Version)
	}

	return res, nil
}

// Identity returns a copy of the identity fields cached by the most recent
// successful LicenseStatus call. The zero value is returned before the first
// successful call.
func (c *Client) Identity() DeviceIdentity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// Status assembles a composite status summary from the license status and
// web-UI state endpoints
//
// Unlike the raw-response operations, Status fails fast: a non-200 from
// either endpoint returns an *APIError carrying the operation and status
// code instead of a partial summary.
func (c *Client) Status(ctx context.Context) (DeviceStatus, error) {
	res, err := c.LicenseStatus(ctx)
	if err != nil {
		return DeviceStatus{}, fmt.Errorf("status: %w", err)
	}
	if !res.OK {
		return DeviceStatus{}, &APIError{
			Operation:  "status",
			StatusCode: res.StatusCode,
			Message:    "license status request failed",
		}
	}

	status := DeviceStatus{
		Version:   res.GetValue("version").String(),
		Serial:    res.GetValue("serial").String(),
		Forticare: res.GetValue("results.forticare.status").String(),
	}

	res, err = c.do(ctx, http.MethodGet, c.monitorURL("web-ui", "state"), nil)
	if err != nil {
		return DeviceStatus{}, fmt.Errorf("status: %w", err)
	}
	if !res.OK {
		return DeviceStatus{}, &APIError{
			Operation:  "status",
			StatusCode: res.StatusCode,
			Message:    "web-ui state request failed",
		}
	}

	status.Hostname = res.GetValue("results.hostname").String()
	status.Model = fmt.Sprintf("%s-%s",
		res.GetValue("results.model_name").String(),
		res.GetValue("results.model_number").String())

	// utc_last_reboot is milliseconds since epoch
	lastReboot := res.GetValue("results.utc_last_reboot").Int()
	status.Uptime = time.Now().Unix() - lastReboot/1000

	return status, nil
}

// BasicStatus retrieves the basic system status
func (c *Client) BasicStatus(ctx context.Context, mods ...func(*Req)) (Res, error) {
	res, err := c.do(ctx, http.MethodGet, c.monitorURL("system", "status"), nil, mods...)
	if err != nil {
		return res, fmt.Errorf("basic status: %w", err)
	}
	return res, nil
}

// cmdbURL builds a configuration endpoint path under {BaseURL}/cmdb/
func (c *Client) cmdbURL(elem ...string) string {
	return c.BaseURL + "/cmdb/" + strings.Join(elem, "/")
}

// monitorURL builds a monitoring endpoint path under {BaseURL}/monitor/
func (c *Client) monitorURL(elem ...string) string {
	return c.BaseURL + "/monitor/" + strings.Join(elem, "/")
}

// prepareJSONForLogging redacts sensitive data and formats JSON for logging
//
// This method performs security checks and data sanitization:
//  1. Validates JSON size to prevent ReDoS attacks (max 1MB)
//  2. Checks sensitive field count to prevent DoS (max 1000 fields)
//  3. Redacts sensitive data (passwords, secret keys, access tokens)
//  4. Pretty-prints JSON if prettyPrintLogs is enabled
//
// Returns the processed JSON string safe for logging.
func (c *Client) prepareJSONForLogging(jsonStr string) string {
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	// Count sensitive fields before processing to prevent excessive regex
	// operations on malicious input
	sensitiveCount := strings.Count(jsonStr, `"password"`) +
		strings.Count(jsonStr, `"secretkey"`) +
		strings.Count(jsonStr, `"secret"`) +
		strings.Count(jsonStr, `"access_token"`) +
		strings.Count(jsonStr, `"token"`) +
		strings.Count(jsonStr, `"key"`)

	if sensitiveCount > MaxSensitiveFields {
		c.logger.Warn("Too many sensitive fields detected",
			"count", sensitiveCount,
			"max", MaxSensitiveFields)
		return JSONTooManySensitiveMsg
	}

	redacted := c.redactSensitiveData(jsonStr)

	if c.prettyPrintLogs {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(redacted), "", "  "); err == nil {
			return buf.String()
		}
		// Fallback: if indent fails (e.g., non-JSON body), return redacted as-is
	}

	return redacted
}

// redactSensitiveData replaces sensitive data in JSON with [REDACTED]
//
// Redacts the credential-bearing fields this API exchanges:
// "password", "secretkey", "secret", "access_token", "token" and "key".
// Handles flexible whitespace around colons (RFC 8259 compliant).
//
// Returns the redacted JSON string.
func (c *Client) redactSensitiveData(json string) string {
	replacements := []string{
		`"password":"[REDACTED]"`,
		`"secretkey":"[REDACTED]"`,
		`"secret":"[REDACTED]"`,
		`"access_token":"[REDACTED]"`,
		`"token":"[REDACTED]"`,
		`"key":"[REDACTED]"`,
	}

	result := json
	for i, pattern := range c.redactionPatterns {
		result = pattern.ReplaceAllString(result, replacements[i])
	}

	return result
}
