package mw

import (
	"net"
	"strings"
)

// hostNoPort returns the host part of "ip:port", "[v6]:port" or "ip".
func hostNoPort(s string) string {
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// firstForwardedFor returns the left-most address of an X-Forwarded-For
// value, which is the original client when proxies append correctly.
func firstForwardedFor(xff string) string {
	if i := strings.IndexByte(xff, ','); i >= 0 {
		xff = xff[:i]
	}
	return hostNoPort(strings.TrimSpace(xff))
}
