// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"net/http"
	"testing"
	"time"
)

// TestClientOptions tests that functional options are applied to the client
func TestClientOptions(t *testing.T) {
	client, err := NewClient(
		"firewall.example.com",
		Username("admin"),
		Password("secret"),
		CredentialsFile("/tmp/creds.yaml"),
		VerifyCertificate(true),
		RequestTimeout(20*time.Second),
		UpgradeTimeout(600*time.Second),
		RateLimitPerMinute(120),
		WithPrettyPrintLogs(true),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.username != "admin" {
		t.Errorf("username = %q, want %q", client.username, "admin")
	}
	if client.password != "secret" {
		t.Errorf("password = %q, want %q", client.password, "secret")
	}
	if client.credentialsFile != "/tmp/creds.yaml" {
		t.Errorf("credentialsFile = %q, want %q", client.credentialsFile, "/tmp/creds.yaml")
	}
	if !client.VerifyCertificate {
		t.Error("VerifyCertificate = false, want true")
	}
	if client.RequestTimeout != 20*time.Second {
		t.Errorf("RequestTimeout = %v, want 20s", client.RequestTimeout)
	}
	if client.UpgradeTimeout != 600*time.Second {
		t.Errorf("UpgradeTimeout = %v, want 600s", client.UpgradeTimeout)
	}
	if client.RateLimitPerMinute != 120 {
		t.Errorf("RateLimitPerMinute = %d, want 120", client.RateLimitPerMinute)
	}
	if !client.prettyPrintLogs {
		t.Error("prettyPrintLogs = false, want true")
	}
}

// TestTokenOption tests the bearer token option
func TestTokenOption(t *testing.T) {
	client, err := NewClient("firewall.example.com", Token("tok-secret"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.token != "tok-secret" {
		t.Errorf("token = %q, want %q", client.token, "tok-secret")
	}
}

// TestWithHTTPClient tests custom transport injection and jar attachment
func TestWithHTTPClient(t *testing.T) {
	t.Run("custom client without jar gets one", func(t *testing.T) {
		custom := &http.Client{}
		client, err := NewClient("firewall.example.com", WithHTTPClient(custom))
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		if client.httpClient != custom {
			t.Error("custom http client was not used")
		}
		if client.httpClient.Jar == nil {
			t.Error("no cookie jar attached to custom client")
		}
	})

	t.Run("nil client ignored", func(t *testing.T) {
		client, err := NewClient("firewall.example.com", WithHTTPClient(nil))
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		if client.httpClient == nil {
			t.Error("default http client was not created")
		}
	})
}

// TestWithLogger tests logger injection
func TestWithLogger(t *testing.T) {
	logger := NewDefaultLogger(LogLevelError)

	client, err := NewClient("firewall.example.com", WithLogger(logger))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.logger != logger {
		t.Error("custom logger was not used")
	}

	client, err = NewClient("firewall.example.com", WithLogger(nil))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, ok := client.logger.(*NoOpLogger); !ok {
		t.Errorf("logger = %T, want *NoOpLogger when nil is passed", client.logger)
	}
}

// TestTimeoutModifier tests the per-request timeout modifier
func TestTimeoutModifier(t *testing.T) {
	req := &Req{}
	Timeout(30 * time.Second)(req)
	if req.Timeout != 30*time.Second {
		t.Errorf("req.Timeout = %v, want 30s", req.Timeout)
	}
}

// TestApiUserCreationModifiers tests the API user creation parameter
// modifiers, including that empty values leave the defaults in place
func TestApiUserCreationModifiers(t *testing.T) {
	tests := []struct {
		name          string
		mods          []func(*ApiUserParams)
		wantProfile   string
		wantTrusthost string
	}{
		{
			name:          "defaults",
			mods:          nil,
			wantProfile:   DefaultAccprofile,
			wantTrusthost: DefaultIPv4Trusthost,
		},
		{
			name: "custom profile and trusthost",
			mods: []func(*ApiUserParams){
				Accprofile("prof_admin"),
				IPv4Trusthost("192.0.2.0/24"),
			},
			wantProfile:   "prof_admin",
			wantTrusthost: "192.0.2.0/24",
		},
		{
			name: "empty values keep defaults",
			mods: []func(*ApiUserParams){
				Accprofile(""),
				IPv4Trusthost(""),
			},
			wantProfile:   DefaultAccprofile,
			wantTrusthost: DefaultIPv4Trusthost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ApiUserParams{
				Accprofile:    DefaultAccprofile,
				IPv4Trusthost: DefaultIPv4Trusthost,
			}
			for _, mod := range tt.mods {
				mod(&params)
			}
			if params.Accprofile != tt.wantProfile {
				t.Errorf("Accprofile = %q, want %q", params.Accprofile, tt.wantProfile)
			}
			if params.IPv4Trusthost != tt.wantTrusthost {
				t.Errorf("IPv4Trusthost = %q, want %q", params.IPv4Trusthost, tt.wantTrusthost)
			}
		})
	}
}
