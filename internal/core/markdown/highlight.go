package markdown

import (
	"html"
	"strings"
)

// keywordSets maps a fence language tag to the identifiers highlighted
// inside that fence. Highlighting is lookup-based: anything not in the set
// is emitted as plain escaped text.
var keywordSets = map[string]map[string]bool{
	"go": keywordSet("break case chan const continue default defer else " +
		"fallthrough for func go goto if import interface map package range " +
		"return select struct switch type var nil true false"),
	"js": keywordSet("async await break case catch class const continue " +
		"default delete do else export extends finally for function if import " +
		"in instanceof let new of return static super switch this throw try " +
		"typeof var void while with yield null undefined true false"),
	"python": keywordSet("and as assert async await break class continue def " +
		"del elif else except finally for from global if import in is lambda " +
		"nonlocal not or pass raise return try while with yield None True False"),
	"bash": keywordSet("if then else elif fi for while until do done case esac " +
		"function in select time coproc return exit local export"),
	"rust": keywordSet("as break const continue crate dyn else enum extern fn " +
		"for if impl in let loop match mod move mut pub ref return self static " +
		"struct super trait type unsafe use where while async await"),
	"c": keywordSet("auto break case char const continue default do double " +
		"else enum extern float for goto if int long register return short " +
		"signed sizeof static struct switch typedef union unsigned void " +
		"volatile while"),
}

// languageAliases folds common tag spellings onto one keyword set.
var languageAliases = map[string]string{
	"golang":     "go",
	"javascript": "js",
	"jsx":        "js",
	"ts":         "js",
	"typescript": "js",
	"py":         "python",
	"sh":         "bash",
	"shell":      "bash",
	"zsh":        "bash",
}

func keywordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

// highlightCode escapes a fence body and wraps known keywords in span
// elements. Unknown languages escape only.
func highlightCode(lang, code string) string {
	if alias, ok := languageAliases[strings.ToLower(lang)]; ok {
		lang = alias
	}
	keywords, ok := keywordSets[strings.ToLower(lang)]
	if !ok {
		return html.EscapeString(code)
	}

	var b strings.Builder
	i := 0
	for i < len(code) {
		if !isWordByte(code[i]) {
			start := i
			for i < len(code) && !isWordByte(code[i]) {
				i++
			}
			b.WriteString(html.EscapeString(code[start:i]))
			continue
		}
		start := i
		for i < len(code) && isWordByte(code[i]) {
			i++
		}
		word := code[start:i]
		if keywords[word] {
			b.WriteString(`<span class="kw">`)
			b.WriteString(word)
			b.WriteString(`</span>`)
		} else {
			b.WriteString(html.EscapeString(word))
		}
	}
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
