package markdown

import "strings"

// Policy is an allow-list of render tree constructs. Kinds absent from
// Kinds are dropped wholesale during sanitization; link and image
// destinations must carry an allowed scheme or they are removed.
type Policy struct {
	Kinds   map[Kind]bool
	Schemes []string
}

// DefaultPolicy permits every construct the tokenizer produces and the
// http, https and mailto URL schemes plus relative references.
func DefaultPolicy() Policy {
	kinds := make(map[Kind]bool, len(kindNames))
	for k := range kindNames {
		kinds[k] = true
	}
	return Policy{
		Kinds:   kinds,
		Schemes: []string{"http", "https", "mailto"},
	}
}

// Sanitize filters a render tree through the default policy. The input tree
// is not modified; sanitizing an already-sanitized tree is a no-op.
func Sanitize(doc *Token) *Token {
	return SanitizeWith(doc, DefaultPolicy())
}

// SanitizeWith filters a render tree through an explicit policy. Disallowed
// tokens are dropped, never escaped and kept.
func SanitizeWith(doc *Token, policy Policy) *Token {
	out := *doc
	out.Children = nil
	for _, child := range doc.Children {
		if clean := sanitizeToken(child, policy); clean != nil {
			out.Children = append(out.Children, clean)
		}
	}
	return &out
}

func sanitizeToken(tok *Token, policy Policy) *Token {
	if !policy.Kinds[tok.Kind] {
		return nil
	}

	clean := *tok
	clean.Children = nil

	if clean.Kind == KindLink || clean.Kind == KindImage {
		if !schemeAllowed(clean.Destination, policy.Schemes) {
			clean.Destination = ""
		}
	}

	for _, child := range tok.Children {
		if c := sanitizeToken(child, policy); c != nil {
			clean.Children = append(clean.Children, c)
		}
	}
	return &clean
}

// schemeAllowed accepts relative references, fragments, and any destination
// whose scheme is on the allow list. Everything else (javascript:, data:,
// vbscript:, ...) is rejected.
func schemeAllowed(dest string, schemes []string) bool {
	dest = strings.TrimSpace(strings.ToLower(dest))
	colon := strings.Index(dest, ":")
	if colon < 0 {
		return true
	}
	// A colon after a slash, query or fragment is part of the path.
	if slash := strings.IndexAny(dest, "/?#"); slash >= 0 && slash < colon {
		return true
	}
	scheme := dest[:colon]
	for _, s := range schemes {
		if scheme == s {
			return true
		}
	}
	return false
}
