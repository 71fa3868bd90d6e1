package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullPage(t *testing.T) {
	out := FullPage("notes.md", "<h1>Hi</h1>\n")

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>notes.md</title>")
	assert.Contains(t, out, "<h1>Hi</h1>")
	assert.Contains(t, out, "</html>")
}

func TestFullPageEscapesTitle(t *testing.T) {
	out := FullPage(`<script>"x"</script>`, "")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestFullPageNoTitle(t *testing.T) {
	out := FullPage("", "<p>body</p>\n")
	assert.NotContains(t, out, "<title>")
	assert.Contains(t, out, "<p>body</p>")
}
