// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2026 Nefila Contributors

package fortios

// System groups the system-scoped resource clients.
//
// Every resource holds a back-reference to the one shared Client session;
// none of them owns or duplicates it. The tree is composed once at NewClient
// time and lives as long as the Client.
//
// Example:
//
//	device.System.Interface.List(ctx)
//	device.System.ApiUser.Create(ctx)
//	device.System.DnsDatabase.Name = "example.com"
//	device.System.DnsDatabase.Add(ctx, "192.0.2.1", "www")
type System struct {
	// ApiUser manages REST API administrator accounts
	ApiUser *ApiUser

	// Firmware lists and installs firmware images
	Firmware *Firmware

	// DnsDatabase manages DNS zones and their records
	DnsDatabase *DnsDatabase

	// Interface lists network interfaces
	Interface *Interface
}

func newSystem(c *Client) *System {
	return &System{
		ApiUser:     &ApiUser{client: c, Name: DefaultApiUserName},
		Firmware:    &Firmware{client: c},
		DnsDatabase: &DnsDatabase{client: c},
		Interface:   &Interface{client: c},
	}
}
