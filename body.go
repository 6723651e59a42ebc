// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Body provides a fluent interface for building JSON request bodies
// using sjson for path-based manipulation.
//
// The Body builder tracks errors internally to enable method chaining
// while providing error checking through String() or Err() methods.
//
// Example:
//
//	body := fortios.Body{}.
//	    Set("name", "example.com").
//	    Set("domain", "example.com")
//
//	value, err := body.String()
//	if err != nil {
//	    log.Fatal(err)
//	}
type Body struct {
	// str contains the JSON string being built
	str string
	// err tracks the first error encountered during building
	err error
}

// Set sets a value at the specified JSON path and returns a new Body
//
// The path uses dot notation for nested fields (e.g., "results.serial").
// The value can be any type that sjson supports; maps and slices are
// marshaled to JSON objects and arrays.
//
// If an error occurs, the error is stored and returned by String() or Err().
// Once an error occurs, all subsequent operations are no-ops that preserve
// the error.
//
// Returns the Body for method chaining.
func (b Body) Set(path string, value any) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.Set(b.str, path, value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): %w", path, err)}
	}
	return Body{str: result, err: nil}
}

// SetRaw splices a pre-encoded JSON fragment at the specified path and
// returns a new Body
//
// Use this when a piece of the body already exists as raw JSON, for example
// when re-submitting a record list read from a previous response:
//
//	entries := res.GetValue("results.0.dns-entry").Raw
//	body := fortios.Body{}.SetRaw("dns-entry", entries)
//
// Returns the Body for method chaining.
func (b Body) SetRaw(path string, raw string) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.SetRaw(b.str, path, raw)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("SetRaw(%q): %w", path, err)}
	}
	return Body{str: result, err: nil}
}

// Delete removes a value at the specified JSON path and returns a new Body
//
// If an error occurs, the error is stored and returned by String() or Err().
//
// Returns the Body for method chaining.
func (b Body) Delete(path string) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.Delete(b.str, path)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Delete(%q): %w", path, err)}
	}
	return Body{str: result, err: nil}
}

// String returns the JSON string representation and any error encountered
// during building
//
// If an error occurred during any Set/SetRaw/Delete operation, the error is
// returned here.
func (b Body) String() (string, error) {
	return b.str, b.err
}

// Err returns any error that occurred during the building process
//
// This method allows checking for errors without retrieving the string value.
func (b Body) Err() error {
	return b.err
}

// Res returns the JSON string for further processing with gjson
//
// If an error occurred during building, this returns an empty string.
// Use Err() or String() to check for errors.
func (b Body) Res() string {
	if b.err != nil {
		return ""
	}
	return b.str
}

// Bytes returns the JSON byte slice representation and any error encountered
// during building
func (b Body) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return []byte(b.str), nil
}
