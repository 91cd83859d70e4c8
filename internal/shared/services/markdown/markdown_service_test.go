package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTMLSanitized(t *testing.T) {
	svc := NewMarkdownService()

	out, err := svc.ToHTMLSanitized("**4 cores** y 8GB RAM\n- Ubuntu\n- Debian")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>4 cores</strong>")
	assert.Contains(t, out, "<li>Ubuntu</li>")
}

func TestToHTMLSanitized_StripsScripts(t *testing.T) {
	svc := NewMarkdownService()

	out, err := svc.ToHTMLSanitized("hola <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestToHTMLSanitized_ExternalLinks(t *testing.T) {
	svc := NewMarkdownService()

	out, err := svc.ToHTMLSanitized("[Fylo](https://fylo.example)")
	require.NoError(t, err)
	assert.Contains(t, out, `href="https://fylo.example"`)
	assert.Contains(t, out, "nofollow")
}
