// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "github.com/mileusna/useragent"

// ClientInfo is the parsed form of a User-Agent header.
type ClientInfo struct {
	Browser    string `json:"browser"`
	OS         string `json:"os"`
	DeviceType string `json:"deviceType"`
}

// ParseUserAgent extracts browser, OS and device class from a User-Agent
// header.
func ParseUserAgent(header string) ClientInfo {
	ua := useragent.Parse(header)

	info := ClientInfo{
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	switch {
	case ua.Bot:
		info.DeviceType = "bot"
	case ua.Tablet:
		info.DeviceType = "tablet"
	case ua.Mobile:
		info.DeviceType = "mobile"
	default:
		info.DeviceType = "desktop"
	}
	return info
}
