// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"errors"
	"fmt"
)

// Sentinel error kinds returned by client operations. Use errors.Is to
// distinguish them from ordinary transport failures.
var (
	// ErrAuthFailed indicates the device rejected the authentication attempt,
	// either because the logincheck response carried no usable ccsrftoken
	// cookie or because the post-login verification came back unauthorized.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrMissingCredentials indicates Open was called without explicit
	// credentials and none could be resolved from the credentials file.
	ErrMissingCredentials = errors.New("no credentials supplied or stored")

	// ErrVersionNotFound indicates a requested firmware version matched no
	// image in the FortiGuard catalog.
	ErrVersionNotFound = errors.New("firmware version not found")

	// ErrAccessTokenNotIssued indicates the API user was created but the
	// follow-up generate-key call did not yield an access token. The user
	// object exists server-side; only the token retrieval failed.
	ErrAccessTokenNotIssued = errors.New("access token not issued")
)

// APIError represents a failed REST operation with device context.
//
// It is returned whenever an operation reached the device but the HTTP
// status or response content made the operation unusable. The underlying
// sentinel kind, if any, is available through errors.Is:
//
//	_, err := device.System.Firmware.Upgrade(ctx, "v9.9.9")
//	if errors.Is(err, fortios.ErrVersionNotFound) {
//	    // requested version is not in the catalog
//	}
type APIError struct {
	// Operation is the name of the operation that failed
	Operation string

	// StatusCode is the HTTP status code returned by the device, or 0 when
	// the failure happened before a response was received
	StatusCode int

	// Message is a human-readable description of the failure
	Message string

	// Err is the sentinel error kind, if the failure maps to one
	Err error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fortios: %s failed: %s (status: %d)", e.Operation, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("fortios: %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the sentinel error kind for errors.Is matching
func (e *APIError) Unwrap() error {
	return e.Err
}
