package utils

import (
	"net/http"
	"strings"
)

const (
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
)

// ClientIP returns the caller address recorded by the nearest proxy: the first
// X-Forwarded-For entry, trimmed, else X-Real-IP. It returns "" when neither
// header carries a value; the socket address is deliberately not used.
func ClientIP(h http.Header) string {
	if xff := h.Get(HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return strings.TrimSpace(h.Get(HeaderXRealIP))
}
