// Package version parses free-text application version strings into
// structured, comparable values.
package version

import (
	"strconv"
	"strings"
)

// Token is a single prerelease component, classified numeric or alphabetic.
type Token struct {
	// Text is the token as it appeared (lowercased for alphabetic tokens)
	Text string
	// Num is the parsed value for numeric tokens
	Num int
	// Numeric is true if the token consists of digits
	Numeric bool
}

// Version is the structured form of a version string.
// Parsing never fails: malformed input yields a tagged, still-orderable value.
type Version struct {
	// Numeric holds the dotted numeric components; never empty, a lone 0
	// means no digits were found in the input
	Numeric []int
	// Prerelease holds prerelease tokens, nil for a stable release
	Prerelease []Token
	// Build is the build metadata after "+"; retained for display only
	Build string
	// Malformed is true if the input contained no numeric components
	Malformed bool
}

// Parse converts a raw version string into a Version.
// It is a total function: every input, including garbage, produces a value.
func Parse(raw string) Version {
	s := strings.TrimSpace(raw)

	// Strip a leading "v" or "V" when followed by a digit (v1.2.3)
	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') && isDigit(s[1]) {
		s = s[1:]
	}

	var v Version

	// Build metadata starts at the first "+" and never affects ordering
	if i := strings.IndexByte(s, '+'); i >= 0 {
		v.Build = s[i+1:]
		s = s[:i]
	}

	// A "-" followed by non-numeric content starts the prerelease segment.
	// A "-" followed by a digit separates further numeric components
	// (1.2-4 reads as 1.2.4) and is folded below.
	pre := ""
	for i := 0; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}
		rest := s[i+1:]
		if rest != "" && !isDigit(rest[0]) {
			pre = rest
			s = s[:i]
			break
		}
	}
	s = strings.ReplaceAll(s, "-", ".")

	// Consume dotted segments: wholly numeric segments form the numeric
	// prefix, everything from the first non-numeric segment on is treated
	// as prerelease content
	var trailing []string
	segments := strings.Split(s, ".")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if allDigits(seg) && trailing == nil {
			n, err := strconv.Atoi(seg)
			if err != nil {
				// Overflow on absurdly long digit runs
				n = 0
				v.Malformed = true
			}
			v.Numeric = append(v.Numeric, n)
			continue
		}
		trailing = append(trailing, segments[i:]...)
		break
	}

	for _, seg := range trailing {
		v.Prerelease = append(v.Prerelease, tokenize(seg)...)
	}
	if pre != "" {
		pre = strings.ReplaceAll(pre, "-", ".")
		for _, seg := range strings.Split(pre, ".") {
			v.Prerelease = append(v.Prerelease, tokenize(seg)...)
		}
	}

	if len(v.Numeric) == 0 {
		v.Numeric = []int{0}
		v.Malformed = true
	}

	return v
}

// tokenize splits a prerelease segment at digit boundaries and classifies
// each run: "beta2" yields an alphabetic "beta" and a numeric 2.
func tokenize(seg string) []Token {
	var tokens []Token
	start := 0
	for i := 1; i <= len(seg); i++ {
		if i < len(seg) && isDigit(seg[i]) == isDigit(seg[start]) {
			continue
		}
		run := seg[start:i]
		if isDigit(run[0]) {
			n, _ := strconv.Atoi(run)
			tokens = append(tokens, Token{Text: run, Num: n, Numeric: true})
		} else {
			tokens = append(tokens, Token{Text: strings.ToLower(run)})
		}
		start = i
	}
	return tokens
}

// String serializes the version back to canonical text form.
// Parsing the result of an unambiguous version yields an equal value.
func (v Version) String() string {
	var b strings.Builder
	for i, n := range v.Numeric {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(n))
	}
	for i, t := range v.Prerelease {
		if i == 0 {
			b.WriteByte('-')
		} else {
			b.WriteByte('.')
		}
		b.WriteString(t.Text)
	}
	if v.Build != "" {
		b.WriteByte('+')
		b.WriteString(v.Build)
	}
	return b.String()
}

// IsPrerelease reports whether the version carries a prerelease tag.
func (v Version) IsPrerelease() bool {
	return len(v.Prerelease) > 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}
