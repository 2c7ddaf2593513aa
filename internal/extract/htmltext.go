package extract

import (
	"strconv"
	"strings"
)

// DecodeHTMLText cleans up legacy-escaped message text on a best-effort
// basis. It decodes numeric character references and an octal escape form,
// strips closing anchor tags, unescapes &quot; and &amp;, normalizes line
// separators, and maps control characters to spaces. It never fails: a parse
// error during decoding stops that decoding step and processing continues
// with the string as far as transformed.
func DecodeHTMLText(s string) string {
	s = decodeNumericRefs(s)
	s = decodeOctalEscapes(s)

	s = strings.ReplaceAll(s, "</a>", "")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&amp;", "&")

	var clean strings.Builder
	clean.Grow(len(s) + 5)
	for _, c := range s {
		switch {
		case c == '\u2028' || c == '\u2029' || c == '\n' || c == '\r':
			clean.WriteByte('\n')
		case c < ' ':
			clean.WriteByte(' ')
		default:
			clean.WriteRune(c)
		}
	}

	// One non-exhaustive collapse pass: runs of three or more spaces shrink
	// but may leave a double space behind.
	return strings.ReplaceAll(clean.String(), "  ", " ")
}

// decodeNumericRefs resolves &#NNN; and &#xHHH; references. Codepoints 10
// and 13 become newlines.
func decodeNumericRefs(s string) string {
	for {
		p := strings.Index(s, "&#")
		if p < 0 {
			break
		}
		q := strings.Index(s[p+2:], ";")
		if q < 0 {
			break
		}
		q += p + 2
		charcode := s[p+2 : q]

		var code int64
		var err error
		if strings.HasPrefix(charcode, "x") || strings.HasPrefix(charcode, "X") {
			code, err = strconv.ParseInt(charcode[1:], 16, 32)
		} else {
			code, err = strconv.ParseInt(charcode, 10, 32)
		}
		if err != nil || code < 0 {
			// stop decoding, keep what was transformed so far
			break
		}

		var repl string
		if code == 10 || code == 13 {
			repl = "\n"
		} else {
			repl = string(rune(code))
		}
		s = s[:p] + repl + s[q+1:]
	}
	return s
}

// decodeOctalEscapes resolves the legacy \uNNNN form where the four digits
// are octal. Results below the printable range become a space.
func decodeOctalEscapes(s string) string {
	for {
		p := strings.Index(s, `\u`)
		if p < 0 || len(s) < p+6 {
			break
		}
		code, err := strconv.ParseInt(s[p+2:p+6], 8, 32)
		if err != nil {
			break
		}
		r := rune(code)
		if r < ' ' {
			r = ' '
		}
		s = s[:p] + string(r) + s[p+6:]
	}
	return s
}
