package utils

import (
	"net/netip"
	"strings"
	"unicode/utf8"
)

// MaskEmail keeps the first letter of the local part and the domain, so an
// order's client stays recognisable in logs: "ana@example.com" -> "a***@example.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || domain == "" {
		return "***"
	}
	first, size := utf8.DecodeRuneInString(local)
	if size == 0 {
		return "***@" + domain
	}
	return string(first) + "***@" + domain
}

// MaskClientIP drops the host part of a client address: the last IPv4 octet,
// or everything past the /48 for IPv6. Anything unparsable is fully masked.
func MaskClientIP(ip string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return "***"
	}
	addr = addr.Unmap()
	if addr.Is4() {
		b := addr.As4()
		return netip.AddrFrom4([4]byte{b[0], b[1], b[2], 0}).String() + "/24"
	}
	prefix, err := addr.Prefix(48)
	if err != nil {
		return "***"
	}
	return prefix.String()
}

// ClientLogFields returns masked key/value pairs for whichever of the order's
// client contact fields are set.
func ClientLogFields(email, ip string) []interface{} {
	var fields []interface{}
	if email != "" {
		fields = append(fields, "client_email", MaskEmail(email))
	}
	if ip != "" {
		fields = append(fields, "client_ip", MaskClientIP(ip))
	}
	return fields
}

// Excerpt shortens provider or user text for a log line: whitespace runs
// collapse to one space and at most maxRunes runes are kept.
func Excerpt(text string, maxRunes int) string {
	s := strings.Join(strings.Fields(text), " ")
	if maxRunes <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}
