package uri

import "strings"

// Reserved characters as defined by RFC 3986 section 2.2, i.e. the
// general delimiters and the subcomponent delimiters together.
const Reserved = ":/?#[]@!$&'()*+,;="

const upperhex = "0123456789ABCDEF"

// unreserved characters (RFC 3986 section 2.3) are never encoded
func isUnreserved(b byte) bool {
	return b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' ||
		b == '-' || b == '.' || b == '_' || b == '~'
}

// PercentEncode encodes all the bytes of data that are neither
// unreserved nor listed in safe.  A percent sign is always encoded,
// whatever safe says.
func PercentEncode(data string, safe string) string {
	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c != '%' && (isUnreserved(c) || strings.IndexByte(safe, c) >= 0) {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xF])
		}
	}
	return b.String()
}

// PercentDecode replaces every valid %XX sequence in data with the byte
// it denotes.  Stray percent signs are left alone.
func PercentDecode(data string) string {
	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '%' && i+2 < len(data) {
			hi, ok1 := unhex(data[i+1])
			lo, ok2 := unhex(data[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
