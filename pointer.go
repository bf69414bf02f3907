package hasprops

import "strings"

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer builds a JSON Pointer (RFC 6901) from unescaped tokens. Pointer()
// is the root "/", matching the path of issues about a whole value.
func Pointer(tokens ...string) string {
	if len(tokens) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(t))
	}
	return b.String()
}

// IssueAt creates an Issue at the pointer built from tokens.
func IssueAt(code, hint string, params map[string]any, tokens ...string) Issue {
	iss := NewIssue(code, hint, params)[0]
	iss.Path = Pointer(tokens...)
	return iss
}
