package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ana@example.com", "a***@example.com"},
		{" Ada.Lovelace@fylo.cloud ", "A***@fylo.cloud"},
		{"ñandú@correo.es", "ñ***@correo.es"},
		{"@example.com", "***@example.com"},
		{"not-an-email", "***"},
		{"ana@", "***"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.in))
		})
	}
}

func TestMaskClientIP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"203.0.113.9", "203.0.113.0/24"},
		{" 198.51.100.250 ", "198.51.100.0/24"},
		{"::ffff:192.0.2.44", "192.0.2.0/24"},
		{"2001:db8:85a3:8d3:1319:8a2e:370:7348", "2001:db8:85a3::/48"},
		{"unknown", "***"},
		{"", "***"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskClientIP(tt.in))
		})
	}
}

func TestClientLogFields(t *testing.T) {
	assert.Empty(t, ClientLogFields("", ""))
	assert.Equal(t,
		[]interface{}{"client_email", "a***@example.com", "client_ip", "203.0.113.0/24"},
		ClientLogFields("ana@example.com", "203.0.113.9"),
	)
	assert.Equal(t, []interface{}{"client_ip", "203.0.113.0/24"}, ClientLogFields("", "203.0.113.9"))
}

func TestExcerpt(t *testing.T) {
	quota := "Quota exceeded for metric:\n\tgenerate_content_requests   per minute"

	assert.Equal(t, "Quota exceeded for metric: generate_content_requests per minute", Excerpt(quota, 200))
	assert.Equal(t, "Quota exceeded...", Excerpt(quota, 14))
	assert.Equal(t, "¿Qué VPS...", Excerpt("¿Qué VPS me recomiendas?", 8))
	assert.Equal(t, "", Excerpt("   ", 10))
	assert.Equal(t, "...", Excerpt("anything", 0))
}
