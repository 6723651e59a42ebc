// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"context"
	"net/http"
	"sync"
	"testing"
)

// TestConcurrentRequests tests that resource operations on a shared client
// can run concurrently without race conditions
func TestConcurrentRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version":"v6.2.0","serial":"FGVM01","results":[{"name":"port1"}]}`))
	})

	client := newTestClient(t, mux)

	numOps := 10
	var wg sync.WaitGroup

	for i := 0; i < numOps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx := context.Background()
			if _, err := client.System.Interface.List(ctx); err != nil {
				t.Errorf("Interface.List() error = %v", err)
			}
			if _, err := client.BasicStatus(ctx); err != nil {
				t.Errorf("BasicStatus() error = %v", err)
			}
		}()
	}

	wg.Wait()
}

// TestConcurrentIdentityAccess tests that Identity reads are safe while
// LicenseStatus refreshes the cached identity
func TestConcurrentIdentityAccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/monitor/license/status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version":"v6.2.0","serial":"FGVM01","results":{"forticare":{"status":"registered"}}}`))
	})

	client := newTestClient(t, mux)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.LicenseStatus(context.Background()); err != nil {
				t.Errorf("LicenseStatus() error = %v", err)
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			identity := client.Identity()
			// Either the zero value (before first refresh) or the full
			// identity is acceptable, never a torn read
			if identity.Serial != "" && identity.Serial != "FGVM01" {
				t.Errorf("Identity().Serial = %q, want empty or FGVM01", identity.Serial)
			}
		}()
	}

	wg.Wait()
}
