// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

// Package fortios provides a simple, fluent API for managing FortiGate
// appliances over the FortiOS REST management API.
//
// The library handles the full session lifecycle (cookie or access-token
// authentication, CSRF token management, logout), exposes the device's
// configuration and monitor endpoints through a resource tree, and offers
// thread-safe operations with client-side rate limiting.
//
// # Quick Start
//
// Create a client and open a session:
//
//	device, err := fortios.NewClient(
//	    "192.168.0.1",
//	    fortios.Username("admin"),
//	    fortios.Password("secret"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if _, err := device.Open(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer device.Close(ctx)
//
//	status, err := device.Status(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Version:", status.Version)
//
// Access-token authentication skips the login exchange entirely:
//
//	device, err := fortios.NewClient(
//	    "192.168.0.1",
//	    fortios.Token("m9xqn7h4tr5kfdm3br1blhfrqnwn7z"),
//	)
//
// # Resource Tree
//
// Device resources hang off the System field:
//
//	device.System.DnsDatabase.Name = "example.com"
//	res, err := device.System.DnsDatabase.Add(ctx, "192.0.2.1", "www")
//
//	res, err = device.System.Firmware.Upgrade(ctx, "v6.2.0")
//
// # JSON Manipulation
//
// Responses are queried with gjson paths and payloads are built with the
// fluent Body builder:
//
//	res, err := device.System.ApiUser.List(ctx)
//	name := res.GetValue("results.0.name").String()
//
//	body := fortios.Body{}.
//	    Set("name", "example.com").
//	    Set("domain", "example.com")
//
// # Error Handling
//
// Operations return explicit errors; nothing retries automatically. API
// failures carry an *APIError that wraps a sentinel where one applies:
//
//	_, err := device.Open(ctx)
//	if errors.Is(err, fortios.ErrAuthFailed) {
//	    // bad credentials
//	}
//
// # Thread Safety
//
// A Client may be shared across goroutines. Mutable session state is
// guarded internally and all requests pass through a shared rate limiter.
//
// # References
//
//   - FortiOS REST API: https://docs.fortinet.com/document/fortigate/7.6.0/administration-guide
//   - gjson: https://github.com/tidwall/gjson
//   - sjson: https://github.com/tidwall/sjson
package fortios
