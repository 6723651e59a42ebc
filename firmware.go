// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// Firmware lists and installs firmware images on the device.
//
// Upgrade operations use the client's UpgradeTimeout by default because
// image transfer from the FortiGuard distribution network is slow.
//
// Example:
//
//	device.System.Firmware.List(ctx)
//	device.System.Firmware.Upgrade(ctx, "")        // latest available
//	device.System.Firmware.Upgrade(ctx, "v6.2.0")
//	device.System.Firmware.UpgradeFile(ctx, "./var/FGT_VM64_KVM-v6-build1510-FORTINET.out")
type Firmware struct {
	client *Client
}

// List retrieves the catalog of firmware images FortiGuard makes available
// for this device
func (f *Firmware) List(ctx context.Context, mods ...func(*Req)) (Res, error) {
	res, err := f.client.do(ctx, http.MethodGet, f.client.monitorURL("system", "firmware"), nil, mods...)
	if err != nil {
		return res, fmt.Errorf("firmware list: %w", err)
	}
	return res, nil
}

// Upgrade installs a firmware image fetched from FortiGuard
//
// The catalog is fetched first and the requested version string is resolved
// to an image id; the first match wins when duplicates exist. An empty
// version selects the first catalog entry, which the device lists as the
// latest available. A version that matches nothing in the catalog returns
// an error matching ErrVersionNotFound.
func (f *Firmware) Upgrade(ctx context.Context, version string, mods ...func(*Req)) (Res, error) {
	res, err := f.List(ctx)
	if err != nil {
		return res, fmt.Errorf("firmware upgrade: %w", err)
	}
	if !res.OK {
		return res, &APIError{
			Operation:  "firmware upgrade",
			StatusCode: res.StatusCode,
			Message:    "firmware catalog request failed",
		}
	}

	available := res.GetValue("results.available").Array()

	var id string
	if version == "" {
		if len(available) == 0 {
			return res, &APIError{
				Operation: "firmware upgrade",
				Message:   "firmware catalog is empty",
				Err:       ErrVersionNotFound,
			}
		}
		id = available[0].Get("id").String()
	} else {
		for _, image := range available {
			if image.Get("version").String() == version {
				id = image.Get("id").String()
				break
			}
		}
		if id == "" {
			return res, &APIError{
				Operation: "firmware upgrade",
				Message:   fmt.Sprintf("no catalog image matches version %q", version),
				Err:       ErrVersionNotFound,
			}
		}
	}

	body := Body{}.
		Set("source", "fortiguard").
		Set("filename", id)
	p, err := jsonPayload(body)
	if err != nil {
		return Res{}, fmt.Errorf("firmware upgrade: %w", err)
	}

	f.client.logger.Info("firmware upgrade requested",
		"hostname", f.client.Hostname,
		"image", id)

	mods = append([]func(*Req){Timeout(f.client.UpgradeTimeout)}, mods...)
	res, err = f.client.do(ctx, http.MethodPost, f.client.monitorURL("system", "firmware", "upgrade"), p, mods...)
	if err != nil {
		return res, fmt.Errorf("firmware upgrade: %w", err)
	}
	return res, nil
}

// UpgradeFile installs a firmware image uploaded from a local file
//
// The file content is posted as multipart form data together with the
// upload source fields, using the long upgrade timeout.
func (f *Firmware) UpgradeFile(ctx context.Context, filename string, mods ...func(*Req)) (Res, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Res{}, fmt.Errorf("firmware upgrade-file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("source", "upload"); err != nil {
		return Res{}, fmt.Errorf("firmware upgrade-file: %w", err)
	}
	if err := writer.WriteField("scope", "global"); err != nil {
		return Res{}, fmt.Errorf("firmware upgrade-file: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return Res{}, fmt.Errorf("firmware upgrade-file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return Res{}, fmt.Errorf("firmware upgrade-file: reading %s: %w", filepath.Base(filename), err)
	}
	if err := writer.Close(); err != nil {
		return Res{}, fmt.Errorf("firmware upgrade-file: %w", err)
	}

	p := &payload{contentType: writer.FormDataContentType(), data: buf.Bytes()}

	f.client.logger.Info("firmware upload requested",
		"hostname", f.client.Hostname,
		"file", filepath.Base(filename),
		"size", buf.Len())

	mods = append([]func(*Req){Timeout(f.client.UpgradeTimeout)}, mods...)
	res, err := f.client.do(ctx, http.MethodPost, f.client.monitorURL("system", "firmware", "upgrade"), p, mods...)
	if err != nil {
		return res, fmt.Errorf("firmware upgrade-file: %w", err)
	}
	return res, nil
}
