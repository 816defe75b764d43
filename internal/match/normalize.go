// Package match canonicalizes application names and ranks catalog entries
// by similarity to an installed application.
package match

import (
	"regexp"
	"strings"
)

// defaultAliases maps well-known shorthand to the canonical application name.
// Keys and values are in normalized form.
var defaultAliases = map[string]string{
	"vscode":   "visual studio code",
	"vs code":  "visual studio code",
	"chrome":   "google chrome",
	"ff":       "firefox",
	"iterm":    "iterm2",
	"idea":     "intellij idea",
	"pycharm ce": "pycharm community edition",
	"sublime":  "sublime text",
	"vlc media player": "vlc",
}

var (
	// bundleSuffixRegex strips bundle-type suffixes like ".app"
	bundleSuffixRegex = regexp.MustCompile(`(?i)\.(app|pkg|dmg)$`)
	// archSuffixRegex strips architecture and bitness qualifiers
	archSuffixRegex = regexp.MustCompile(`(?i)\s*\((?:64|32)[ -]?bit\)$|\s*\((?:x86_64|arm64|intel|apple silicon|universal)\)$`)
	// trailingVersionRegex strips version-number-like suffixes ("Firefox 128")
	trailingVersionRegex = regexp.MustCompile(`[\s_-]+v?\d+(\.\d+)*$`)
	// punctRegex collapses punctuation runs into separators
	punctRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalizer canonicalizes display names so installed applications and
// catalog entries score against the same representation.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer creates a Normalizer with the built-in alias table.
// Entries in overrides extend or replace built-in aliases; keys and values
// are normalized before use so config files can hold display names.
func NewNormalizer(overrides map[string]string) *Normalizer {
	n := &Normalizer{aliases: make(map[string]string, len(defaultAliases)+len(overrides))}
	for k, v := range defaultAliases {
		n.aliases[k] = v
	}
	for k, v := range overrides {
		n.aliases[n.scrub(k)] = n.scrub(v)
	}
	return n
}

// Normalize canonicalizes a name: lowercase, suffixes stripped, punctuation
// and whitespace collapsed, aliases applied. Deterministic and pure.
func (n *Normalizer) Normalize(name string) string {
	s := n.scrub(name)
	if alias, ok := n.aliases[s]; ok {
		return alias
	}
	return s
}

// IsAlias reports whether a name resolves through the alias table.
func (n *Normalizer) IsAlias(name string) bool {
	_, ok := n.aliases[n.scrub(name)]
	return ok
}

// scrub applies every normalization step except alias resolution.
func (n *Normalizer) scrub(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = bundleSuffixRegex.ReplaceAllString(s, "")
	s = archSuffixRegex.ReplaceAllString(s, "")
	s = trailingVersionRegex.ReplaceAllString(s, "")
	s = punctRegex.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
