package query

import "strings"

// Decode resolves percent-encoded triplets in raw.
//
// The triplets %25, %26 and %3D (hex digits in either case) are kept
// encoded. A '%' that is not followed by two hex digits is copied through
// unchanged.
func Decode(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '%' || i+2 >= len(raw) {
			b.WriteByte(c)
			continue
		}

		v, ok := triplet(raw[i+1], raw[i+2])
		if !ok {
			b.WriteByte(c)
			continue
		}

		if reserved(v) {
			b.Write(raw[i : i+3])
		} else {
			b.WriteByte(v)
		}
		i += 2
	}

	return b.String()
}

// Unescape resolves the triplets left encoded by [Decode] in a single key or
// value. It runs in one left-to-right pass so that "%253D" becomes "%3D" and
// not "=".
func Unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) {
			if v, ok := triplet(s[i+1], s[i+2]); ok && reserved(v) {
				b.WriteByte(v)
				i += 2
				continue
			}
		}
		b.WriteByte(c)
	}

	return b.String()
}

// Parse splits a decoded query string into a parameter map.
//
// Pairs are separated by '&' and split on the first '='. A pair without '='
// maps to an empty value. Empty pairs are skipped and the last occurrence of
// a key wins.
func Parse(decoded string) map[string]string {
	params := make(map[string]string)
	if decoded == "" {
		return params
	}

	for _, pair := range strings.Split(decoded, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		params[Unescape(key)] = Unescape(value)
	}

	return params
}

// SplitTarget splits a raw request target on the first '?'. The path is fully
// decoded. The query is returned from [Decode], still holding its %25, %26
// and %3D triplets, ready for [Parse].
func SplitTarget(target []byte) (path, decodedQuery string) {
	p, q, _ := cutByte(target, '?')
	return Unescape(Decode(p)), Decode(q)
}

func cutByte(s []byte, sep byte) (before, after []byte, found bool) {
	for i, c := range s {
		if c == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, nil, false
}

// reserved reports whether v is one of the bytes that must survive the first
// decoding pass.
func reserved(v byte) bool {
	return v == '%' || v == '&' || v == '='
}

func triplet(hi, lo byte) (byte, bool) {
	h, ok := unhex(hi)
	if !ok {
		return 0, false
	}
	l, ok := unhex(lo)
	if !ok {
		return 0, false
	}
	return h<<4 | l, true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
