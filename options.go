// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"net/http"
	"time"
)

// Client configuration options using the functional options pattern

// Username sets the username for cookie-based authentication
func Username(username string) func(*Client) {
	return func(c *Client) {
		c.username = username
	}
}

// Password sets the password for cookie-based authentication
func Password(password string) func(*Client) {
	return func(c *Client) {
		c.password = password
	}
}

// Token sets a REST API access token for bearer-token authentication
//
// When a token is configured, Open skips the logincheck handshake entirely
// and installs an Authorization header instead. Token and cookie auth are
// mutually exclusive per session; a configured token always wins.
func Token(token string) func(*Client) {
	return func(c *Client) {
		c.token = token
	}
}

// CredentialsFile sets the path of the stored-credentials file consulted by
// Open when no explicit credentials are configured (default:
// $NEFILA_CREDENTIALS, falling back to ~/.nefila/credentials.yaml)
func CredentialsFile(path string) func(*Client) {
	return func(c *Client) {
		c.credentialsFile = path
	}
}

// VerifyCertificate enables or disables TLS certificate verification
// (default: false)
//
// Verification is disabled by default because FortiGate appliances ship with
// self-signed certificates. Enable it when the device carries a certificate
// your trust store can validate.
//
// WARNING: with verification disabled the connection is vulnerable to
// Man-in-the-Middle attacks.
func VerifyCertificate(verify bool) func(*Client) {
	return func(c *Client) {
		c.VerifyCertificate = verify
	}
}

// RequestTimeout sets the default per-request timeout for ordinary
// operations (default: 10s)
func RequestTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.RequestTimeout = duration
	}
}

// UpgradeTimeout sets the default timeout for firmware transfer operations,
// which depend on the FortiGuard distribution network and routinely take
// minutes (default: 300s)
func UpgradeTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.UpgradeTimeout = duration
	}
}

// RateLimitPerMinute sets the client-side request rate limit
// (default: 1000 requests per minute)
func RateLimitPerMinute(limit int) func(*Client) {
	return func(c *Client) {
		c.RateLimitPerMinute = limit
	}
}

// WithHTTPClient supplies a custom *http.Client as the transport session
//
// If the supplied client has no cookie jar, one is attached: cookie-based
// authentication cannot work without a jar to hold the session cookies.
func WithHTTPClient(httpClient *http.Client) func(*Client) {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger configures a custom logger for the client
//
// By default, the client uses NoOpLogger which discards all log messages.
// Use this option to enable logging with DefaultLogger or a custom logger.
//
// All JSON content logged at Debug level is automatically redacted to remove
// sensitive data (passwords, secret keys, access tokens).
//
// Example:
//
//	logger := fortios.NewDefaultLogger(fortios.LogLevelInfo)
//	device, _ := fortios.NewClient("firewall.example.com",
//	    fortios.Username("admin"),
//	    fortios.Password("secret"),
//	    fortios.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables/disables JSON pretty printing in logs
//
// When enabled, JSON content in debug logs is formatted for better
// readability. This only affects Debug-level log output.
//
// Default: disabled (false)
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}

// Request modifiers for individual operations

// Timeout returns a request modifier that sets a custom timeout for the
// operation.
//
// The timeout priority model is:
//  1. Request-specific timeout (this modifier) - highest priority
//  2. Context deadline (if already set) - medium priority
//  3. Client default (RequestTimeout, or UpgradeTimeout for firmware
//     transfers) - fallback
//
// Example:
//
//	res, err := device.System.DnsDatabase.List(ctx,
//	    fortios.Timeout(30*time.Second))
func Timeout(duration time.Duration) func(*Req) {
	return func(req *Req) {
		req.Timeout = duration
	}
}

// API user creation modifiers

// Accprofile returns a creation modifier that sets the admin access profile
// assigned to the new API user (default: "super_admin")
func Accprofile(profile string) func(*ApiUserParams) {
	return func(p *ApiUserParams) {
		if profile != "" {
			p.Accprofile = profile
		}
	}
}

// IPv4Trusthost returns a creation modifier that sets the IPv4 network range
// permitted to authenticate as the new API user (default: "192.168.0.0/16")
func IPv4Trusthost(cidr string) func(*ApiUserParams) {
	return func(p *ApiUserParams) {
		if cidr != "" {
			p.IPv4Trusthost = cidr
		}
	}
}
