package markdown

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeSchemes(t *testing.T) {
	tests := []struct {
		name     string
		dest     string
		wantKept bool
	}{
		{name: "https", dest: "https://example.com", wantKept: true},
		{name: "http", dest: "http://example.com", wantKept: true},
		{name: "mailto", dest: "mailto:a@b.c", wantKept: true},
		{name: "relative path", dest: "docs/readme.md", wantKept: true},
		{name: "fragment", dest: "#section", wantKept: true},
		{name: "path with colon after slash", dest: "/a/b:c", wantKept: true},
		{name: "javascript", dest: "javascript:alert(1)", wantKept: false},
		{name: "data", dest: "data:text/html,x", wantKept: false},
		{name: "vbscript uppercase", dest: "VBScript:x", wantKept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(fmt.Sprintf("[x](%s)\n", tt.dest))
			clean := Sanitize(doc)

			var link *Token
			clean.Walk(func(tok *Token) bool {
				if tok.Kind == KindLink {
					link = tok
				}
				return true
			})
			require.NotNil(t, link)
			if tt.wantKept {
				assert.Equal(t, tt.dest, link.Destination)
			} else {
				assert.Empty(t, link.Destination)
			}
		})
	}
}

func TestSanitizeDropsDisallowedKinds(t *testing.T) {
	policy := DefaultPolicy()
	policy.Kinds[KindImage] = false
	policy.Kinds[KindTable] = false

	doc := Parse("![x](a.png)\n\n| a |\n|---|\n| b |\n")
	clean := SanitizeWith(doc, policy)

	clean.Walk(func(tok *Token) bool {
		assert.NotEqual(t, KindImage, tok.Kind)
		assert.NotEqual(t, KindTable, tok.Kind)
		return true
	})
}

func TestSanitizeIdempotent(t *testing.T) {
	doc := Parse("# H\n\n[a](javascript:x) ![b](data:y)\n\n- item\n")
	once := Sanitize(doc)
	twice := Sanitize(once)
	assert.Equal(t, RenderHTML(once), RenderHTML(twice))
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	doc := Parse("[x](javascript:alert(1))\n")

	var before string
	doc.Walk(func(tok *Token) bool {
		if tok.Kind == KindLink {
			before = tok.Destination
		}
		return true
	})

	_ = Sanitize(doc)

	doc.Walk(func(tok *Token) bool {
		if tok.Kind == KindLink {
			assert.Equal(t, before, tok.Destination)
		}
		return true
	})
}

// Allow-list closure: rendering any sanitized tree only ever contains
// tokens the policy permits.
func TestSanitizeClosure(t *testing.T) {
	sources := []string{
		"# h\n**b** *i* `c`\n",
		"[l](javascript:x)\n",
		"```html\n<script>x</script>\n```\n",
		"> q\n\n---\n\n1. a\n",
	}
	policy := DefaultPolicy()
	for _, src := range sources {
		clean := SanitizeWith(Parse(src), policy)
		clean.Walk(func(tok *Token) bool {
			assert.True(t, policy.Kinds[tok.Kind], "kind %s leaked for %q", tok.Kind, src)
			return true
		})
	}
}
