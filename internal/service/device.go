package service

import (
	"strings"

	"github.com/kaiqkt/auth-registry-api/internal/models"
)

const deviceUnknown = "UNKNOWN"

// ClassifyDevice builds a best-effort device label from the User-Agent and
// App-Version headers. Anything it cannot place falls back to UNKNOWN; the
// label is informational only and never drives authorization.
func ClassifyDevice(userAgent, appVersion string) models.Device {
	device := models.Device{
		OS:         deviceUnknown,
		OSVersion:  deviceUnknown,
		Model:      deviceUnknown,
		AppVersion: appVersion,
	}
	if device.AppVersion == "" {
		device.AppVersion = deviceUnknown
	}
	if userAgent == "" {
		return device
	}

	switch {
	case strings.Contains(userAgent, "Android"):
		device.OS = "Android"
		device.OSVersion = versionAfter(userAgent, "Android ")
		device.Model = modelFromAndroid(userAgent)
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"):
		device.OS = "iOS"
		device.OSVersion = strings.ReplaceAll(versionAfter(userAgent, "OS "), "_", ".")
		if strings.Contains(userAgent, "iPad") {
			device.Model = "iPad"
		} else {
			device.Model = "iPhone"
		}
	case strings.Contains(userAgent, "Windows"):
		device.OS = "Windows"
		device.OSVersion = versionAfter(userAgent, "Windows NT ")
	case strings.Contains(userAgent, "Mac OS X"):
		device.OS = "Mac OS X"
		device.OSVersion = strings.ReplaceAll(versionAfter(userAgent, "Mac OS X "), "_", ".")
	case strings.Contains(userAgent, "Linux"):
		device.OS = "Linux"
	}

	return device
}

func versionAfter(userAgent, marker string) string {
	idx := strings.Index(userAgent, marker)
	if idx < 0 {
		return deviceUnknown
	}

	rest := userAgent[idx+len(marker):]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r == '.' || r == '_' || (r >= '0' && r <= '9'))
	})
	if end == 0 {
		return deviceUnknown
	}
	if end > 0 {
		rest = rest[:end]
	}
	return rest
}

// modelFromAndroid extracts the device model from the parenthesised segment,
// e.g. "(Linux; Android 13; Pixel 7)".
func modelFromAndroid(userAgent string) string {
	open := strings.Index(userAgent, "(")
	close := strings.Index(userAgent, ")")
	if open < 0 || close < open {
		return deviceUnknown
	}

	parts := strings.Split(userAgent[open+1:close], ";")
	last := strings.TrimSpace(parts[len(parts)-1])
	if last == "" || strings.HasPrefix(last, "Android") {
		return deviceUnknown
	}
	if idx := strings.Index(last, " Build"); idx > 0 {
		last = last[:idx]
	}
	return last
}
