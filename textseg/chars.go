package textseg

// IsWordSpace reports whether r separates words for justification and
// word-width tracking: a space or a no-break space.
func IsWordSpace(r rune) bool {
	return r == ' ' || r == 0x00A0
}

// IsLineEndSpace reports whether r may hang at the end of a line without
// being measured.
func IsLineEndSpace(r rune) bool {
	switch {
	case r == '\n', r == ' ', r == 0x1680, r == 0x205F, r == 0x3000:
		return true
	case r >= 0x2000 && r <= 0x200A:
		return r != 0x2007
	}
	return false
}

// IsMandatoryBreak reports whether r forces a line break: line feed,
// carriage return, next line, vertical tab, form feed and the Unicode line
// and paragraph separators.
func IsMandatoryBreak(r rune) bool {
	switch r {
	case '\n', '\r', 0x0B, 0x0C, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// IsBidiControl reports whether r is an explicit directional formatting
// character. Such characters never get a glyph.
func IsBidiControl(r rune) bool {
	switch {
	case r == 0x061C, r == 0x200E, r == 0x200F:
		return true
	case r >= 0x202A && r <= 0x202E:
		return true
	case r >= 0x2066 && r <= 0x2069:
		return true
	}
	return false
}

// isParagraphSeparator reports whether r has bidi class B.
func isParagraphSeparator(r rune) bool {
	switch r {
	case '\n', '\r', 0x1C, 0x1D, 0x1E, 0x85, 0x2029:
		return true
	}
	return false
}
