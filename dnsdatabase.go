// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"context"
	"fmt"
	"net/http"
)

// DnsDatabase manages DNS zones and their records on the device.
//
// Zone-scoped operations (Create, Get, Delete, Add) address the zone named
// by the Name field, which must be set first.
//
// Example:
//
//	device.System.DnsDatabase.List(ctx)
//	device.System.DnsDatabase.Name = "example.com"
//	device.System.DnsDatabase.Create(ctx)
//	device.System.DnsDatabase.Add(ctx, "192.0.2.1", "www")
//	device.System.DnsDatabase.Get(ctx)
//	device.System.DnsDatabase.Delete(ctx)
type DnsDatabase struct {
	client *Client

	// Name is the zone addressed by zone-scoped operations
	Name string
}

// List retrieves all DNS zones
func (d *DnsDatabase) List(ctx context.Context, mods ...func(*Req)) (Res, error) {
	res, err := d.client.do(ctx, http.MethodGet, d.client.cmdbURL("system", "dns-database"), nil, mods...)
	if err != nil {
		return res, fmt.Errorf("dns-database list: %w", err)
	}
	return res, nil
}

// Create creates the zone named by Name. The zone name and its domain are
// always identical.
func (d *DnsDatabase) Create(ctx context.Context, mods ...func(*Req)) (Res, error) {
	if d.Name == "" {
		return Res{}, fmt.Errorf("dns-database create: zone name is not set")
	}

	body := Body{}.
		Set("name", d.Name).
		Set("domain", d.Name)
	p, err := jsonPayload(body)
	if err != nil {
		return Res{}, fmt.Errorf("dns-database create: %w", err)
	}

	res, err := d.client.do(ctx, http.MethodPost, d.client.cmdbURL("system", "dns-database"), p, mods...)
	if err != nil {
		return res, fmt.Errorf("dns-database create: %w", err)
	}
	return res, nil
}

// Get retrieves all entries of the zone named by Name
func (d *DnsDatabase) Get(ctx context.Context, mods ...func(*Req)) (Res, error) {
	if d.Name == "" {
		return Res{}, fmt.Errorf("dns-database get: zone name is not set")
	}

	res, err := d.client.do(ctx, http.MethodGet, d.client.cmdbURL("system", "dns-database", d.Name), nil, mods...)
	if err != nil {
		return res, fmt.Errorf("dns-database get: %w", err)
	}
	return res, nil
}

// Delete removes the zone named by Name
func (d *DnsDatabase) Delete(ctx context.Context, mods ...func(*Req)) (Res, error) {
	if d.Name == "" {
		return Res{}, fmt.Errorf("dns-database delete: zone name is not set")
	}

	res, err := d.client.do(ctx, http.MethodDelete, d.client.cmdbURL("system", "dns-database", d.Name), nil, mods...)
	if err != nil {
		return res, fmt.Errorf("dns-database delete: %w", err)
	}
	return res, nil
}

// Add appends a record to the zone named by Name, preserving the existing
// records
//
// The device API replaces the full record list on write, so Add is a
// read-modify-write protocol: the current record list is fetched, the new
// entry is appended with a client-assigned id of len+1, and the full
// updated list is written back.
//
// NOT safe under concurrent modification: there is no compare-and-swap or
// revision mechanism in the device API, so a zone change that lands between
// the read and the write is silently overwritten. Callers must guarantee
// exclusive access to the zone for the duration of the call.
func (d *DnsDatabase) Add(ctx context.Context, ip, hostname string, mods ...func(*Req)) (Res, error) {
	res, err := d.Get(ctx, mods...)
	if err != nil {
		return res, fmt.Errorf("dns-database add: %w", err)
	}
	if !res.OK {
		return res, &APIError{
			Operation:  "dns-database add",
			StatusCode: res.StatusCode,
			Message:    fmt.Sprintf("reading zone %s failed", d.Name),
		}
	}

	entries := res.GetValue("results.0.dns-entry")
	raw := "[]"
	count := 0
	if entries.IsArray() {
		raw = entries.Raw
		count = len(entries.Array())
	}

	body := Body{}.
		SetRaw("dns-entry", raw).
		Set(fmt.Sprintf("dns-entry.%d.id", count), count+1).
		Set(fmt.Sprintf("dns-entry.%d.ip", count), ip).
		Set(fmt.Sprintf("dns-entry.%d.hostname", count), hostname)
	p, err := jsonPayload(body)
	if err != nil {
		return Res{}, fmt.Errorf("dns-database add: %w", err)
	}

	d.client.logger.Debug("dns zone record appended",
		"zone", d.Name,
		"id", count+1,
		"hostname", hostname)

	res, err = d.client.do(ctx, http.MethodPut, d.client.cmdbURL("system", "dns-database", d.Name), p, mods...)
	if err != nil {
		return res, fmt.Errorf("dns-database add: %w", err)
	}
	return res, nil
}
