package tqw

// File listfmt.go has the bracketed list renderers and the
// quoted-string escaping used when emitting TQW documents.

import "strings"

// EscapeQuoted escapes backslash and double-quote characters in s so it
// can be placed between double quotes in a TQW document.
func EscapeQuoted(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// Quoted returns s escaped and wrapped in double quotes.
func Quoted(s string) string {
	return `"` + EscapeQuoted(s) + `"`
}

// InlineList renders items as a bracketed list on a single line. An
// empty list renders as "[]"; otherwise elements are quoted and
// separated by comma-and-space, with no trailing comma.
func InlineList(items []string) string {
	var sb strings.Builder

	sb.WriteString("[")
	for i := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Quoted(items[i]))
	}
	sb.WriteString("]")

	return sb.String()
}

// MultilineList renders items as a bracketed list with one quoted
// element per line. Each element line is indented by one tab and ends
// in a comma, so adding or removing an element touches exactly one
// line.
func MultilineList(items []string) string {
	return MultilineListFunc(len(items), func(i int) string {
		return Quoted(items[i])
	})
}

// MultilineListFunc renders an n-element multi-line bracketed list with
// each element produced by elem. It is used for lists whose elements
// are not plain strings, such as dialog choice pairs rendered as inline
// lists.
func MultilineListFunc(n int, elem func(i int) string) string {
	var sb strings.Builder

	sb.WriteString("[\n")
	for i := 0; i < n; i++ {
		sb.WriteString("\t")
		sb.WriteString(elem(i))
		sb.WriteString(",\n")
	}
	sb.WriteString("]")

	return sb.String()
}
