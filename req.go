// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import "time"

// Req represents a REST request modifier
//
// This struct is used to apply request-specific options via functional
// modifiers. Operation parameters (paths, bodies) are passed directly to
// methods.
//
// Example:
//
//	// Get with a custom timeout
//	res, err := device.System.Firmware.List(ctx,
//	    fortios.Timeout(30*time.Second))
type Req struct {
	// Timeout is the request-specific timeout
	// Overrides the client default timeout if set
	Timeout time.Duration
}
