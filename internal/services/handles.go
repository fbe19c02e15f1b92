package services

import "strings"

const (
	sourceSuffix        = "-source"
	defaultSourceHandle = "default-source"
	defaultTargetHandle = "default"
)

// NormalizeSourceHandle makes sure a source handle carries the -source suffix exactly once.
func NormalizeSourceHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return defaultSourceHandle
	}
	if strings.HasSuffix(handle, sourceSuffix) {
		return handle
	}
	return handle + sourceSuffix
}

// NormalizeTargetHandle strips a -source suffix from a target handle and
// rewrites the bare "bottom" handle to "bottom-target".
func NormalizeTargetHandle(handle string) string {
	handle = strings.TrimSuffix(strings.TrimSpace(handle), sourceSuffix)
	switch handle {
	case "":
		return defaultTargetHandle
	case "bottom":
		return "bottom-target"
	}
	return handle
}
