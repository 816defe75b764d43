package version

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCompareOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "1.2.3", "1.2.3", 0},
		{"patch ahead", "1.2.4", "1.2.3", 1},
		{"major behind", "1.2.3", "2.0.0", -1},
		{"zero padding equivalence", "1.2", "1.2.0", 0},
		{"zero padding with difference", "1.2", "1.2.1", -1},
		{"release after prerelease", "1.2.0", "1.2.0-beta", 1},
		{"prerelease before release", "1.2.0-rc.1", "1.2.0", -1},
		{"numeric prerelease by value", "1.0-rc.2", "1.0-rc.10", -1},
		{"numeric token below alphabetic", "1.0-1", "1.0-alpha", -1},
		{"prerelease prefix sorts first", "1.0-beta", "1.0-beta.2", -1},
		{"prerelease case insensitive", "1.0-BETA", "1.0-beta", 0},
		{"prerelease ignored when numerics differ", "1.2.1-alpha", "1.2.0", 1},
		{"build metadata ignored", "1.2.3+build5", "1.2.3+build9", 0},
		{"build metadata ignored with prerelease", "1.0-rc.1+a", "1.0-rc.1+b", 0},
		{"leading v ignored", "v1.2.3", "1.2.3", 0},
		{"both malformed equal", "latest", "stable", 0},
		{"malformed below release", "latest", "1.0", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(Parse(tt.a), Parse(tt.b))
			if got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestCompareRuleIndependence exercises each comparison rule directly so a
// regression in one rule cannot hide behind an earlier deciding rule.
func TestCompareRuleIndependence(t *testing.T) {
	t.Run("malformed rule defers unless both malformed", func(t *testing.T) {
		if _, decided := compareMalformed(Parse("1.0"), Parse("junk")); decided {
			t.Error("compareMalformed decided with only one malformed input")
		}
		if r, decided := compareMalformed(Parse("junk"), Parse("trash")); !decided || r != 0 {
			t.Errorf("compareMalformed = (%d, %v), want (0, true)", r, decided)
		}
	})

	t.Run("numeric rule defers on equality", func(t *testing.T) {
		if _, decided := compareNumeric(Parse("1.2"), Parse("1.2.0")); decided {
			t.Error("compareNumeric decided on equal components")
		}
		if r, decided := compareNumeric(Parse("1.3"), Parse("1.2")); !decided || r != 1 {
			t.Errorf("compareNumeric = (%d, %v), want (1, true)", r, decided)
		}
	})

	t.Run("presence rule defers only when both have prereleases", func(t *testing.T) {
		if _, decided := comparePrereleasePresence(Parse("1.0-a"), Parse("1.0-b")); decided {
			t.Error("comparePrereleasePresence decided with two prereleases")
		}
		if r, decided := comparePrereleasePresence(Parse("1.0-a"), Parse("1.0")); !decided || r != -1 {
			t.Errorf("comparePrereleasePresence = (%d, %v), want (-1, true)", r, decided)
		}
	})

	t.Run("token rule always decides", func(t *testing.T) {
		if r, decided := comparePrereleaseTokens(Parse("1.0-a"), Parse("1.0-a")); !decided || r != 0 {
			t.Errorf("comparePrereleaseTokens = (%d, %v), want (0, true)", r, decided)
		}
	})
}

// genVersion generates raw version strings covering numerics, prereleases,
// build metadata and malformed inputs.
func genVersion() gopter.Gen {
	numeric := gen.SliceOfN(3, gen.IntRange(0, 40)).Map(func(parts []int) string {
		s := ""
		for i, p := range parts {
			if i > 0 {
				s += "."
			}
			s += itoa(p)
		}
		return s
	})
	suffix := gen.OneConstOf("", "-beta", "-beta.2", "-rc.1", "-alpha", "-1", "+build5", "-rc1+x", "junk")
	return gopter.CombineGens(numeric, suffix).Map(func(vals []interface{}) string {
		return vals[0].(string) + vals[1].(string)
	})
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}

func TestCompareTotalOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("compare(a,a) = 0", prop.ForAll(
		func(a string) bool {
			v := Parse(a)
			return Compare(v, v) == 0
		},
		genVersion(),
	))

	properties.Property("antisymmetry: compare(a,b) = -compare(b,a)", prop.ForAll(
		func(a, b string) bool {
			va, vb := Parse(a), Parse(b)
			return Compare(va, vb) == -Compare(vb, va)
		},
		genVersion(),
		genVersion(),
	))

	properties.Property("transitivity: a<=b and b<=c implies a<=c", prop.ForAll(
		func(a, b, c string) bool {
			va, vb, vc := Parse(a), Parse(b), Parse(c)
			if Compare(va, vb) <= 0 && Compare(vb, vc) <= 0 {
				return Compare(va, vc) <= 0
			}
			return true
		},
		genVersion(),
		genVersion(),
		genVersion(),
	))

	properties.Property("serialization round trip preserves ordering", prop.ForAll(
		func(a, b string) bool {
			va, vb := Parse(a), Parse(b)
			ra, rb := Parse(va.String()), Parse(vb.String())
			return Compare(va, vb) == Compare(ra, rb)
		},
		genVersion(),
		genVersion(),
	))

	properties.TestingRun(t)
}
