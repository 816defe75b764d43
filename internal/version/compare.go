package version

import "strings"

// compareRule is one ordering rule. It returns a decision and true when the
// rule decides the comparison, or false to defer to the next rule.
type compareRule func(a, b Version) (int, bool)

// compareRules apply in strict order; the first deciding rule wins.
// Build metadata is deliberately absent: it never affects ordering.
var compareRules = []compareRule{
	compareMalformed,
	compareNumeric,
	comparePrereleasePresence,
	comparePrereleaseTokens,
}

// Compare imposes a total order over versions.
// Returns -1 if a < b, 0 if equal, 1 if a > b.
func Compare(a, b Version) int {
	for _, rule := range compareRules {
		if r, decided := rule(a, b); decided {
			return r
		}
	}
	return 0
}

// compareMalformed handles the case where both inputs carried no digits:
// their numeric components (a lone 0 each, by construction) compare
// lexicographically and the result is final either way.
func compareMalformed(a, b Version) (int, bool) {
	if !a.Malformed || !b.Malformed {
		return 0, false
	}
	return compareIntSlices(a.Numeric, b.Numeric), true
}

// compareNumeric compares numeric components lexicographically after
// zero-padding to equal length. An unequal result is decisive and
// prerelease tags are ignored entirely.
func compareNumeric(a, b Version) (int, bool) {
	if c := compareIntSlices(a.Numeric, b.Numeric); c != 0 {
		return c, true
	}
	return 0, false
}

// comparePrereleasePresence orders a prerelease before the same numeric
// version without one. Two stable versions with equal numerics are equal.
func comparePrereleasePresence(a, b Version) (int, bool) {
	aPre, bPre := a.IsPrerelease(), b.IsPrerelease()
	switch {
	case aPre && !bPre:
		return -1, true
	case !aPre && bPre:
		return 1, true
	case !aPre && !bPre:
		return 0, true
	}
	return 0, false
}

// comparePrereleaseTokens compares two prerelease sequences token by token.
// Numeric tokens compare by value, alphabetic tokens case-insensitively by
// text, a numeric token sorts below an alphabetic one at the same position,
// and a strict prefix of the other sequence sorts first.
func comparePrereleaseTokens(a, b Version) (int, bool) {
	n := len(a.Prerelease)
	if len(b.Prerelease) < n {
		n = len(b.Prerelease)
	}
	for i := 0; i < n; i++ {
		if c := compareToken(a.Prerelease[i], b.Prerelease[i]); c != 0 {
			return c, true
		}
	}
	switch {
	case len(a.Prerelease) < len(b.Prerelease):
		return -1, true
	case len(a.Prerelease) > len(b.Prerelease):
		return 1, true
	}
	return 0, true
}

// compareToken compares two prerelease tokens at the same position.
func compareToken(x, y Token) int {
	switch {
	case x.Numeric && y.Numeric:
		switch {
		case x.Num < y.Num:
			return -1
		case x.Num > y.Num:
			return 1
		}
		return 0
	case x.Numeric:
		return -1
	case y.Numeric:
		return 1
	}
	return strings.Compare(strings.ToLower(x.Text), strings.ToLower(y.Text))
}

// compareIntSlices compares two integer slices lexicographically,
// zero-padding the shorter one.
func compareIntSlices(a, b []int) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	for i := 0; i < maxLen; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}

		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}
