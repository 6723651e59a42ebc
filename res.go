// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"github.com/tidwall/gjson"
)

// Res represents a raw REST response from the device.
//
// Every resource operation returns the device's response unmodified; status
// interpretation is the caller's responsibility unless an operation documents
// otherwise. The JSON body can be queried with gjson paths via GetValue.
type Res struct {
	// StatusCode is the HTTP status code returned by the device
	StatusCode int

	// Body is the raw response body
	Body []byte

	// OK indicates a 2xx status code
	OK bool
}

// GetValue retrieves a value from the response body using a gjson path.
// The path follows gjson syntax for querying JSON structures.
//
// Example paths:
//   - "version" - Get the firmware version string
//   - "results.forticare.status" - Get the FortiCare registration status
//   - "results.0.dns-entry" - Get the record list of the first zone result
//
// Returns gjson.Result which can be converted to specific types:
//   - result.String() for string values
//   - result.Int() for integer values
//   - result.Array() for array values
//
// Example:
//
//	res, err := device.LicenseStatus(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	serial := res.GetValue("serial").String()
func (r Res) GetValue(path string) gjson.Result {
	if len(r.Body) == 0 {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Body, path)
}

// JSON returns the response body as a string for debugging, logging, or
// custom parsing. Returns an empty string when the response had no body.
func (r Res) JSON() string {
	return string(r.Body)
}
