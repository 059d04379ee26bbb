package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ProxyHeaders are the forwarding headers consulted, in order, when proxy
// headers are trusted.
var ProxyHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Resolver extracts the client IP from requests.
type Resolver struct {
	headers []string
}

// New returns a Resolver that consults headers before RemoteAddr. Pass no
// headers when the server is reachable without a proxy.
func New(headers ...string) Resolver {
	return Resolver{headers: headers}
}

// IP returns the normalized client IP, or "" when none can be parsed.
func (res Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For lists the original client first.
		for part := range strings.SplitSeq(v, ",") {
			if ip := parse(part); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parse(r.RemoteAddr)
	}
	return parse(host)
}

func parse(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
