// Package escape turns raw debugger text into values that can be embedded in
// the attribute-delimited XML payloads understood by the debug client.
//
// Two transforms are composed per context: XML entity escaping and percent
// quoting. The client URL-unquotes attribute values after parsing, so the
// quoted character set is part of the wire contract.
package escape

import "strings"

const (
	// SafeDefault is left unquoted in thread names.
	SafeDefault = "/"
	// SafeIO is left unquoted in console output text.
	SafeIO = "/>_= "
	// SafeFile is left unquoted in frame file paths.
	SafeFile = "/>_= \t"
)

const upperhex = "0123456789ABCDEF"

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// XML escapes the five XML metacharacters and drops runes that XML 1.0 does
// not allow in a document.
func XML(s string) string {
	return xmlReplacer.Replace(stripInvalid(s))
}

// Quote percent-encodes every byte of s except ASCII letters, digits, "_.-~"
// and the bytes listed in safe.
func Quote(s string, safe string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i], safe) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c, safe) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// ThreadName renders a thread display name for a thread element.
func ThreadName(name string) string {
	return Quote(XML(name), SafeDefault)
}

// FilePath renders a client file path for a frame element.
func FilePath(path string) string {
	return Quote(XML(path), SafeFile)
}

// IOText renders console output for an io element.
func IOText(text string) string {
	return XML(Quote(text, SafeIO))
}

func unreserved(c byte, safe string) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_' || c == '.' || c == '-' || c == '~':
		return true
	}
	return c < 0x80 && strings.IndexByte(safe, c) >= 0
}

func stripInvalid(s string) string {
	if strings.IndexFunc(s, invalidXMLRune) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if invalidXMLRune(r) {
			return -1
		}
		return r
	}, s)
}

func invalidXMLRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20:
		return true
	case r == 0xFFFE || r == 0xFFFF:
		return true
	}
	return false
}
