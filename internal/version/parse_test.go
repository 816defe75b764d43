package version

import (
	"reflect"
	"testing"
)

func TestParseNumericComponents(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []int
	}{
		{"simple", "1.2.3", []int{1, 2, 3}},
		{"two components", "1.2", []int{1, 2}},
		{"single component", "7", []int{7}},
		{"leading v", "v1.2.3", []int{1, 2, 3}},
		{"leading V", "V2.0", []int{2, 0}},
		{"surrounding whitespace", "  1.2.3  ", []int{1, 2, 3}},
		{"dash separated numeric", "1.2-4", []int{1, 2, 4}},
		{"date style", "2024.01.15", []int{2024, 1, 15}},
		{"empty segment skipped", "1..2", []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Parse(tt.raw)
			if !reflect.DeepEqual(v.Numeric, tt.want) {
				t.Errorf("Parse(%q).Numeric = %v, want %v", tt.raw, v.Numeric, tt.want)
			}
			if v.Malformed {
				t.Errorf("Parse(%q) unexpectedly malformed", tt.raw)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"whitespace only", "   "},
		{"wholly alphabetic", "latest"},
		{"lone v", "v"},
		{"punctuation", "???"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Parse(tt.raw)
			if !v.Malformed {
				t.Errorf("Parse(%q).Malformed = false, want true", tt.raw)
			}
			if !reflect.DeepEqual(v.Numeric, []int{0}) {
				t.Errorf("Parse(%q).Numeric = %v, want [0]", tt.raw, v.Numeric)
			}
		})
	}
}

func TestParsePrerelease(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Token
	}{
		{
			"dashed prerelease",
			"1.2.0-beta.2",
			[]Token{{Text: "beta"}, {Text: "2", Num: 2, Numeric: true}},
		},
		{
			"mixed token splits at digit boundary",
			"1.2.0-rc1",
			[]Token{{Text: "rc"}, {Text: "1", Num: 1, Numeric: true}},
		},
		{
			"trailing dotted segment",
			"1.2.beta",
			[]Token{{Text: "beta"}},
		},
		{
			"alphabetic tokens lowercased",
			"1.0-Beta",
			[]Token{{Text: "beta"}},
		},
		{
			"letter glued to numeric segment",
			"1.0a",
			[]Token{{Text: "0", Numeric: true}, {Text: "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Parse(tt.raw)
			if !reflect.DeepEqual(v.Prerelease, tt.want) {
				t.Errorf("Parse(%q).Prerelease = %v, want %v", tt.raw, v.Prerelease, tt.want)
			}
		})
	}
}

func TestParseBuildMetadata(t *testing.T) {
	v := Parse("1.2.3+build.5")
	if v.Build != "build.5" {
		t.Errorf("Build = %q, want %q", v.Build, "build.5")
	}
	if !reflect.DeepEqual(v.Numeric, []int{1, 2, 3}) {
		t.Errorf("Numeric = %v, want [1 2 3]", v.Numeric)
	}

	// Build metadata splits before prerelease detection
	v = Parse("1.2.3-beta+20230501")
	if v.Build != "20230501" {
		t.Errorf("Build = %q, want %q", v.Build, "20230501")
	}
	if len(v.Prerelease) != 1 || v.Prerelease[0].Text != "beta" {
		t.Errorf("Prerelease = %v, want [beta]", v.Prerelease)
	}
}

func TestStringRoundTrip(t *testing.T) {
	tests := []string{
		"1.2.3",
		"1.2.0-beta.2",
		"1.2.3+build5",
		"2.0-rc.1+0501",
		"0",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			v := Parse(raw)
			again := Parse(v.String())
			if !reflect.DeepEqual(v, again) {
				t.Errorf("round trip of %q: parsed %+v, reparsed %+v", raw, v, again)
			}
		})
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"", "-", "+", "-+", "v", "....", "1.2.3-", "1.2.3+", "-beta", "+x",
		"v-1", "1-", "a-b-c", "1.2.3-beta-2",
	}
	for _, raw := range inputs {
		v := Parse(raw)
		if len(v.Numeric) == 0 {
			t.Errorf("Parse(%q) produced empty numeric components", raw)
		}
	}
}
