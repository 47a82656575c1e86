package target

import "strings"

// GlobMatch reports whether str matches pattern, where '*' matches any run of
// bytes (including none) and '?' matches exactly one byte.
// An empty pattern matches only the empty string.
func GlobMatch(pattern, str string) bool {
	if pattern == "" {
		return str == ""
	}
	if strings.Trim(pattern, "*") == "" {
		return true
	}

	if ok, matched := globFastPath(pattern, str); ok {
		return matched
	}
	return globMatchLinear(pattern, str)
}

// globFastPath handles "lit*", "*lit" and "*lit*" when lit has no wildcards.
// ok is false when the pattern needs the general matcher.
func globFastPath(pattern, str string) (ok, matched bool) {
	n := len(pattern)
	leading := pattern[0] == '*'
	trailing := n > 1 && pattern[n-1] == '*'

	inner := pattern
	if leading {
		inner = inner[1:]
	}
	if trailing {
		inner = inner[:len(inner)-1]
	}
	if inner == "" || strings.ContainsAny(inner, "*?") {
		return false, false
	}

	switch {
	case leading && trailing:
		return true, strings.Contains(str, inner)
	case trailing:
		return true, strings.HasPrefix(str, inner)
	case leading:
		return true, strings.HasSuffix(str, inner)
	}
	return false, false
}

// globMatchLinear is the two-pointer matcher: on mismatch it returns to the
// last '*' and lets it absorb one more byte of str.
func globMatchLinear(pattern, str string) bool {
	p, s := 0, 0
	star, mark := -1, 0

	for s < len(str) {
		switch {
		case p < len(pattern) && pattern[p] == '*':
			star = p
			mark = s
			p++
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == str[s]):
			p++
			s++
		case star >= 0:
			p = star + 1
			mark++
			s = mark
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
