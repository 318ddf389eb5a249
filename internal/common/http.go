package common

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Proxies lists the peers allowed to report a client address through
// X-Forwarded-For or X-Real-IP. Headers from any other peer are ignored.
type Proxies []netip.Prefix

// ParseProxies accepts single addresses and CIDR ranges.
func ParseProxies(values []string) (Proxies, error) {
	out := make(Proxies, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			prefix, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", v, err)
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func (p Proxies) trusts(addr netip.Addr) bool {
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the caller address used for rate-limit keys. It starts
// from the direct peer; only when the peer is trusted is X-Forwarded-For
// walked right to left, skipping trusted hops, with X-Real-IP as the
// fallback. A client can therefore never choose its own key.
func (p Proxies) ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	peer, ok := parseAddr(r.RemoteAddr)
	if !ok {
		return strings.TrimSpace(r.RemoteAddr)
	}
	if !p.trusts(peer) {
		return peer.String()
	}
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, ok := parseAddr(hops[i])
			if !ok {
				// an unparseable hop was written by someone we cannot vouch for
				return peer.String()
			}
			if !p.trusts(hop) {
				return hop.String()
			}
		}
	}
	if real, ok := parseAddr(r.Header.Get("X-Real-IP")); ok {
		return real.String()
	}
	return peer.String()
}

// ClientIP is the direct peer address; forwarding headers are ignored.
func ClientIP(r *http.Request) string {
	return Proxies(nil).ClientIP(r)
}

func parseAddr(raw string) (netip.Addr, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return netip.Addr{}, false
	}
	if host, _, err := net.SplitHostPort(raw); err == nil {
		raw = host
	}
	addr, err := netip.ParseAddr(strings.Trim(raw, "[]"))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
