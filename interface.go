// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

import (
	"context"
	"fmt"
	"net/http"
)

// Interface inspects the network interfaces of the device
type Interface struct {
	client *Client
}

// List retrieves all available interfaces
func (i *Interface) List(ctx context.Context, mods ...func(*Req)) (Res, error) {
	res, err := i.client.do(ctx, http.MethodGet, i.client.monitorURL("system", "available-interfaces"), nil, mods...)
	if err != nil {
		return res, fmt.Errorf("interface list: %w", err)
	}
	return res, nil
}
