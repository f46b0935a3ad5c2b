package middleware

import (
	"net"
	"net/http"
	"strings"
)

// WithSubnet admits only requests whose X-Real-IP belongs to the trusted
// CIDR. An empty or unparsable subnet rejects every request.
func WithSubnet(subnet string) func(next http.Handler) http.Handler {
	_, trusted, err := net.ParseCIDR(strings.TrimSpace(subnet))
	if err != nil {
		trusted = nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP")))
			if trusted == nil || ip == nil || !trusted.Contains(ip) {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
