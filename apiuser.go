// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"context"
	"fmt"
	"net/http"
)

// Default API user creation values
const (
	// DefaultApiUserName is the API user addressed when no name is set
	DefaultApiUserName = "nefila-api-admin"

	// DefaultAccprofile is the admin access profile assigned on Create
	DefaultAccprofile = "super_admin"

	// DefaultIPv4Trusthost is the network range permitted to authenticate
	// as the new API user
	DefaultIPv4Trusthost = "192.168.0.0/16"
)

// ApiUserParams holds the creation parameters for a new API user.
// Adjust them with the Accprofile and IPv4Trusthost modifiers.
type ApiUserParams struct {
	Accprofile    string
	IPv4Trusthost string
}

// ApiUser manages REST API administrator accounts on the device.
//
// The default user is nefila-api-admin with the super_admin profile and
// trusted hosts 192.168.0.0/16.
//
// Example:
//
//	device.System.ApiUser.List(ctx)
//	device.System.ApiUser.Create(ctx)
//	device.System.ApiUser.AccessToken()
//	device.System.ApiUser.Get(ctx)
//	device.System.ApiUser.Delete(ctx)
//
//	device.System.ApiUser.Name = "custom-api-admin"
//	device.System.ApiUser.Create(ctx,
//	    fortios.Accprofile("prof_admin"),
//	    fortios.IPv4Trusthost("192.0.2.0/24"))
type ApiUser struct {
	client *Client

	// Name identifies the API user addressed by Create, Get and Delete
	Name string

	// accessToken caches the token minted by the last successful Create
	accessToken string
}

// List retrieves all API users
func (u *ApiUser) List(ctx context.Context, mods ...func(*Req)) (Res, error) {
	res, err := u.client.do(ctx, http.MethodGet, u.client.cmdbURL("system", "api-user"), nil, mods...)
	if err != nil {
		return res, fmt.Errorf("api-user list: %w", err)
	}
	return res, nil
}

// Create creates a new API user and mints an access token for it
//
// This is a two-step protocol: the user object is created first, and on
// HTTP 200 a second request asks the device to generate an access key for
// it. The minted token is cached on the resource and available through
// AccessToken().
//
// Partial completion is possible: when the creation succeeds but the key
// generation does not, the user object exists server-side with no retrieved
// token. That condition is reported as an error matching
// ErrAccessTokenNotIssued alongside the raw generate-key response.
//
// A creation response other than 200 stops the protocol before the
// generate-key step; the raw creation response is returned for the caller
// to inspect.
func (u *ApiUser) Create(ctx context.Context, mods ...func(*ApiUserParams)) (Res, error) {
	params := ApiUserParams{
		Accprofile:    DefaultAccprofile,
		IPv4Trusthost: DefaultIPv4Trusthost,
	}
	for _, mod := range mods {
		mod(&params)
	}

	body := Body{}.
		Set("name", u.Name).
		Set("accprofile", params.Accprofile).
		Set("trusthost", []map[string]any{{
			"id":             0,
			"type":           "ipv4-trusthost",
			"ipv4-trusthost": params.IPv4Trusthost,
		}})

	p, err := jsonPayload(body)
	if err != nil {
		return Res{}, fmt.Errorf("api-user create: %w", err)
	}

	res, err := u.client.do(ctx, http.MethodPost, u.client.cmdbURL("system", "api-user"), p)
	if err != nil {
		return res, fmt.Errorf("api-user create: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		// Never mint a key for a user that was not created
		return res, nil
	}

	keyBody := Body{}.Set("api-user", u.Name)
	kp, err := jsonPayload(keyBody)
	if err != nil {
		return res, fmt.Errorf("api-user generate-key: %w", err)
	}

	keyRes, err := u.client.do(ctx, http.MethodPost, u.client.monitorURL("system", "api-user", "generate-key"), kp)
	if err != nil {
		return keyRes, &APIError{
			Operation: "api-user generate-key",
			Message:   fmt.Sprintf("user %s created but the key request failed: %s", u.Name, err),
			Err:       ErrAccessTokenNotIssued,
		}
	}

	token := keyRes.GetValue("results.access_token").String()
	if !keyRes.OK || token == "" {
		return keyRes, &APIError{
			Operation:  "api-user generate-key",
			StatusCode: keyRes.StatusCode,
			Message:    fmt.Sprintf("user %s created but no access token was returned", u.Name),
			Err:        ErrAccessTokenNotIssued,
		}
	}

	u.client.mu.Lock()
	u.accessToken = token
	u.client.mu.Unlock()

	u.client.logger.Info("api user created",
		"name", u.Name,
		"accprofile", params.Accprofile)

	return keyRes, nil
}

// AccessToken returns the token minted by the last successful Create, or an
// empty string when no token has been retrieved
func (u *ApiUser) AccessToken() string {
	u.client.mu.RLock()
	defer u.client.mu.RUnlock()
	return u.accessToken
}

// Get retrieves the details of the API user identified by Name
func (u *ApiUser) Get(ctx context.Context, mods ...func(*Req)) (Res, error) {
	res, err := u.client.do(ctx, http.MethodGet, u.client.cmdbURL("system", "api-user", u.Name), nil, mods...)
	if err != nil {
		return res, fmt.Errorf("api-user get: %w", err)
	}
	return res, nil
}

// Delete removes the API user identified by Name
func (u *ApiUser) Delete(ctx context.Context, mods ...func(*Req)) (Res, error) {
	res, err := u.client.do(ctx, http.MethodDelete, u.client.cmdbURL("system", "api-user", u.Name), nil, mods...)
	if err != nil {
		return res, fmt.Errorf("api-user delete: %w", err)
	}
	return res, nil
}
