package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "paragraph",
			src:  "hello world\n",
			want: "<p>hello world</p>\n",
		},
		{
			name: "heading",
			src:  "## Title\n",
			want: "<h2>Title</h2>\n",
		},
		{
			name: "strong and emphasis precedence",
			src:  "***x***\n",
			want: "<p><strong><em>x</em></strong></p>\n",
		},
		{
			name: "strikethrough",
			src:  "~~gone~~\n",
			want: "<p><del>gone</del></p>\n",
		},
		{
			name: "inline code",
			src:  "run `go test` now\n",
			want: "<p>run <code>go test</code> now</p>\n",
		},
		{
			name: "empty code block",
			src:  "```\n```\n",
			want: "<pre><code></code></pre>\n",
		},
		{
			name: "code block with language",
			src:  "```go\nreturn nil\n```\n",
			want: "<pre><code class=\"language-go\"><span class=\"kw\">return</span> <span class=\"kw\">nil</span></code></pre>\n",
		},
		{
			name: "html is escaped",
			src:  "<script>alert(1)</script>\n",
			want: "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>\n",
		},
		{
			name: "link",
			src:  "[docs](https://example.com)\n",
			want: "<p><a href=\"https://example.com\">docs</a></p>\n",
		},
		{
			name: "image",
			src:  "![logo](img.png)\n",
			want: "<p><img src=\"img.png\" alt=\"logo\"></p>\n",
		},
		{
			name: "horizontal rule",
			src:  "---\n",
			want: "<hr>\n",
		},
		{
			name: "blockquote",
			src:  "> wisdom\n",
			want: "<blockquote><p>wisdom</p></blockquote>\n",
		},
		{
			name: "unordered list",
			src:  "- a\n- b\n",
			want: "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n",
		},
		{
			name: "ordered list",
			src:  "1. a\n2. b\n",
			want: "<ol>\n<li>a</li>\n<li>b</li>\n</ol>\n",
		},
		{
			name: "task list",
			src:  "- [x] done\n",
			want: "<ul>\n<li><input type=\"checkbox\" checked disabled> done</li>\n</ul>\n",
		},
		{
			name: "unterminated fence stays literal",
			src:  "```go\ncode here\n",
			want: "<p>```go\ncode here</p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.src))
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	src := "# A\n\n1. one\n2. two\n\n| x | y |\n|---|---|\n| 1 | 2 |\n"
	first := Render(src)
	for range 5 {
		assert.Equal(t, first, Render(src))
	}
}

func TestRenderNestedList(t *testing.T) {
	got := Render("1. a\n  1. b\n2. c\n")
	assert.Contains(t, got, "<ol>")
	assert.Contains(t, got, "<li>a\n<ol>")
	assert.Contains(t, got, "<li>b</li>")
	assert.Contains(t, got, "<li>c</li>")
}

func TestRenderTable(t *testing.T) {
	got := Render("| Name | N |\n|:-----|--:|\n| a | 1 |\n")
	assert.Contains(t, got, "<th align=\"left\">Name</th>")
	assert.Contains(t, got, "<th align=\"right\">N</th>")
	assert.Contains(t, got, "<td align=\"left\">a</td>")
}

func TestRenderFootnotes(t *testing.T) {
	got := Render("claim[^1]\n\n[^1]: source\n")
	assert.Contains(t, got, `<sup class="footnote-ref"><a href="#fn:1">1</a></sup>`)
	assert.Contains(t, got, `id="fn:1"`)
}

func TestHighlightCode(t *testing.T) {
	tests := []struct {
		name string
		lang string
		code string
		want string
	}{
		{
			name: "go keywords",
			lang: "go",
			code: "func x()",
			want: `<span class="kw">func</span> x()`,
		},
		{
			name: "alias resolves",
			lang: "py",
			code: "def f():",
			want: `<span class="kw">def</span> f():`,
		},
		{
			name: "unknown language escapes only",
			lang: "brainfk",
			code: "<+>",
			want: "&lt;+&gt;",
		},
		{
			name: "escaping inside known language",
			lang: "go",
			code: "a < b",
			want: "a &lt; b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, highlightCode(tt.lang, tt.code))
		})
	}
}
