// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"
)

const firmwareCatalog = `{"results":{"available":[` +
	`{"id":"FGVM64-6.4-b1803","version":"v6.4.1"},` +
	`{"id":"FGVM64-6.2-b1010","version":"v6.2.0"}]}}`

// TestFirmwareUpgrade tests version-to-image resolution against the
// FortiGuard catalog
func TestFirmwareUpgrade(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantID  string
	}{
		{
			name:    "explicit version",
			version: "v6.2.0",
			wantID:  "FGVM64-6.2-b1010",
		},
		{
			name:    "empty version selects first entry",
			version: "",
			wantID:  "FGVM64-6.4-b1803",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var upgradeBody string

			mux := http.NewServeMux()
			mux.HandleFunc("/api/v2/monitor/system/firmware", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(firmwareCatalog))
			})
			mux.HandleFunc("/api/v2/monitor/system/firmware/upgrade", func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				upgradeBody = string(body)
				w.Write([]byte(`{"results":{"status":"success"}}`))
			})

			client := newTestClient(t, mux)

			res, err := client.System.Firmware.Upgrade(context.Background(), tt.version)
			if err != nil {
				t.Fatalf("Upgrade() error = %v", err)
			}
			if !res.OK {
				t.Errorf("Upgrade() status = %d, want 200", res.StatusCode)
			}

			if got := gjson.Get(upgradeBody, "source").String(); got != "fortiguard" {
				t.Errorf("upgrade body source = %q, want %q", got, "fortiguard")
			}
			if got := gjson.Get(upgradeBody, "filename").String(); got != tt.wantID {
				t.Errorf("upgrade body filename = %q, want %q", got, tt.wantID)
			}
		})
	}
}

// TestFirmwareUpgradeVersionNotFound tests the explicit error for an
// unresolvable version
func TestFirmwareUpgradeVersionNotFound(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		version string
	}{
		{
			name:    "version not in catalog",
			catalog: firmwareCatalog,
			version: "v9.9.9",
		},
		{
			name:    "empty catalog",
			catalog: `{"results":{"available":[]}}`,
			version: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upgradeHits := 0

			mux := http.NewServeMux()
			mux.HandleFunc("/api/v2/monitor/system/firmware", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.catalog))
			})
			mux.HandleFunc("/api/v2/monitor/system/firmware/upgrade", func(w http.ResponseWriter, r *http.Request) {
				upgradeHits++
			})

			client := newTestClient(t, mux)

			_, err := client.System.Firmware.Upgrade(context.Background(), tt.version)
			if !errors.Is(err, ErrVersionNotFound) {
				t.Errorf("Upgrade() error = %v, want ErrVersionNotFound", err)
			}
			if upgradeHits != 0 {
				t.Errorf("upgrade endpoint hit %d times for unresolvable version, want 0", upgradeHits)
			}
		})
	}
}

// TestFirmwareUpgradeCatalogFailure tests that an unreadable catalog aborts
// the upgrade
func TestFirmwareUpgradeCatalogFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/monitor/system/firmware", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := newTestClient(t, mux)

	_, err := client.System.Firmware.Upgrade(context.Background(), "v6.2.0")
	if err == nil {
		t.Fatal("Upgrade() error = nil, want catalog failure")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("Upgrade() error = %T, want *APIError", err)
	}
}

// TestFirmwareUpgradeFile tests the multipart image upload
func TestFirmwareUpgradeFile(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "FGT_VM64_KVM-v6-build1010-FORTINET.out")
	imageContent := []byte("firmware image bytes")
	if err := os.WriteFile(imagePath, imageContent, 0o600); err != nil {
		t.Fatalf("writing image file: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/monitor/system/firmware/upgrade", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("multipart parse error = %v", err)
		}
		if got := r.FormValue("source"); got != "upload" {
			t.Errorf("source = %q, want %q", got, "upload")
		}
		if got := r.FormValue("scope"); got != "global" {
			t.Errorf("scope = %q, want %q", got, "global")
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file part missing: %v", err)
		}
		defer file.Close()
		if header.Filename != filepath.Base(imagePath) {
			t.Errorf("filename = %q, want %q", header.Filename, filepath.Base(imagePath))
		}
		content, _ := io.ReadAll(file)
		if string(content) != string(imageContent) {
			t.Errorf("file content = %q, want %q", content, imageContent)
		}

		w.Write([]byte(`{"results":{"status":"success"}}`))
	})

	client := newTestClient(t, mux)

	res, err := client.System.Firmware.UpgradeFile(context.Background(), imagePath)
	if err != nil {
		t.Fatalf("UpgradeFile() error = %v", err)
	}
	if !res.OK {
		t.Errorf("UpgradeFile() status = %d, want 200", res.StatusCode)
	}
}

// TestFirmwareUpgradeFileMissing tests the error for a nonexistent image
// file
func TestFirmwareUpgradeFileMissing(t *testing.T) {
	client := newTestClient(t, http.NewServeMux())

	_, err := client.System.Firmware.UpgradeFile(context.Background(),
		filepath.Join(t.TempDir(), "missing.out"))
	if err == nil {
		t.Fatal("UpgradeFile() error = nil, want open failure")
	}
}

// TestFirmwareList tests the catalog read
func TestFirmwareList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/monitor/system/firmware", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Write([]byte(firmwareCatalog))
	})

	client := newTestClient(t, mux)

	res, err := client.System.Firmware.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := len(res.GetValue("results.available").Array()); got != 2 {
		t.Errorf("List() catalog length = %d, want 2", got)
	}
}
