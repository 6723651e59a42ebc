// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// credentialsEnvVar overrides the default stored-credentials file location
const credentialsEnvVar = "NEFILA_CREDENTIALS"

// Credentials holds stored login material for a device. Any field may be
// empty; a non-empty Token selects bearer-token authentication.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Token    string `yaml:"token"`
}

// defaultCredentialsPath returns the stored-credentials file location:
// $NEFILA_CREDENTIALS when set, otherwise ~/.nefila/credentials.yaml
func defaultCredentialsPath() string {
	if path := os.Getenv(credentialsEnvVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nefila", "credentials.yaml")
}

// lookupCredentials resolves stored credentials for a hostname.
//
// The file is a YAML mapping keyed by hostname:
//
//	firewall.example.com:
//	  username: admin
//	  password: secret
//	firewall2.example.com:
//	  token: 9xkn3vmc7g...
//
// A missing file or an absent hostname entry means "no stored credentials"
// and returns zero Credentials with a nil error; only an unreadable or
// unparsable file is an error.
func lookupCredentials(path, hostname string) (Credentials, error) {
	if path == "" {
		path = defaultCredentialsPath()
	}
	if path == "" {
		return Credentials{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, nil
		}
		// Only the filename in the error to prevent path disclosure
		return Credentials{}, fmt.Errorf("reading credentials file %s: %w", filepath.Base(path), err)
	}

	var entries map[string]Credentials
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return Credentials{}, fmt.Errorf("parsing credentials file %s: %w", filepath.Base(path), err)
	}

	return entries[hostname], nil
}
