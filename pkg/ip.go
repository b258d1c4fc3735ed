package pkg

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// LocalClient is returned by ClientIP for loopback and private network
// peers, e.g. the frontend dev server or a container on the compose bridge.
const LocalClient = "localhost"

// ClientIP resolves the caller address used to key login rate limits. The
// reverse proxy headers win over the socket peer.
func ClientIP(r *http.Request) (string, error) {
	raw := r.Header.Get("X-Real-Ip")
	if raw == "" {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			raw, _, _ = strings.Cut(forwarded, ",")
			raw = strings.TrimSpace(raw)
		}
	}
	if raw == "" {
		raw = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(raw); err == nil {
		raw = host
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return "", fmt.Errorf("client address %q: %w", raw, err)
	}

	if IsLocalAddr(addr) {
		return LocalClient, nil
	}
	return addr.Unmap().String(), nil
}

func IsLocalAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate()
}
