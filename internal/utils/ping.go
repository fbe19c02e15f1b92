package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// ListenerTimeout bounds a single listener probe
const ListenerTimeout = 1500 * time.Millisecond

// ProbeAddress resolves a probe target to host:port. Targets are either URLs,
// where the scheme picks the default port, or bare host:port pairs.
func ProbeAddress(target string) (string, error) {
	if !strings.Contains(target, "://") {
		if host, port, err := net.SplitHostPort(target); err == nil && host != "" && port != "" {
			return target, nil
		}
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid probe target %q: %w", target, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid probe target %q: missing host", target)
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// Probe opens and closes a TCP connection to target
func Probe(ctx context.Context, target string, timeout time.Duration) error {
	address, err := ProbeAddress(target)
	if err != nil {
		return err
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("%s unreachable: %w", address, err)
	}
	return conn.Close()
}
