package creation

// FormatAlternatives strips one leading and one trailing quote (" or ') from
// each suggestion. Whitespace is kept and nested quotes are left alone.
func FormatAlternatives(alternatives []string) []string {
	out := make([]string, 0, len(alternatives))
	for _, alt := range alternatives {
		out = append(out, stripQuotes(alt))
	}
	return out
}

func stripQuotes(s string) string {
	if len(s) > 0 && isQuote(s[0]) {
		s = s[1:]
	}
	if len(s) > 0 && isQuote(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}

func isQuote(b byte) bool {
	return b == '"' || b == '\''
}
