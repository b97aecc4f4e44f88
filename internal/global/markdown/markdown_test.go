package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	html, err := Render("**hola**\nline")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>hola</strong>")
	assert.Contains(t, html, "<br")
}

func TestRenderDropsRawHTML(t *testing.T) {
	html, err := Render("<script>alert(1)</script>\n\nok")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "<p>ok</p>")
}
