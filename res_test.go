// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import "testing"

// TestResGetValue tests gjson path queries on response bodies
func TestResGetValue(t *testing.T) {
	res := Res{
		StatusCode: 200,
		Body:       []byte(`{"version":"v6.2.0","serial":"FGVM01","results":[{"name":"example.com","dns-entry":[{"id":1,"ip":"192.0.2.1","hostname":"www"}]}]}`),
		OK:         true,
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "top-level field",
			path: "version",
			want: "v6.2.0",
		},
		{
			name: "array element field",
			path: "results.0.name",
			want: "example.com",
		},
		{
			name: "nested record field",
			path: "results.0.dns-entry.0.hostname",
			want: "www",
		},
		{
			name: "missing field",
			path: "results.0.missing",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := res.GetValue(tt.path).String(); got != tt.want {
				t.Errorf("GetValue(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// TestResGetValueEmptyBody tests that an empty response body yields a zero
// result instead of panicking
func TestResGetValueEmptyBody(t *testing.T) {
	res := Res{StatusCode: 200, OK: true}

	value := res.GetValue("version")
	if value.Exists() {
		t.Error("GetValue() on empty body reports existence")
	}
	if value.String() != "" {
		t.Errorf("GetValue() on empty body = %q, want empty", value.String())
	}
}

// TestResJSON tests the raw body accessor
func TestResJSON(t *testing.T) {
	res := Res{Body: []byte(`{"status":"success"}`)}
	if got := res.JSON(); got != `{"status":"success"}` {
		t.Errorf("JSON() = %q, want %q", got, `{"status":"success"}`)
	}

	empty := Res{}
	if got := empty.JSON(); got != "" {
		t.Errorf("JSON() on empty response = %q, want empty", got)
	}
}
