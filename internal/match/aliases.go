package match

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrAliasFileNotFound is returned when the configured alias file is missing
var ErrAliasFileNotFound = errors.New("alias file not found")

// aliasFile is the on-disk TOML structure:
//
//	[aliases]
//	vscode = "Visual Studio Code"
type aliasFile struct {
	Aliases map[string]string `toml:"aliases"`
}

// LoadAliases reads alias overrides from a TOML file.
// Returned keys and values are raw; the Normalizer scrubs them on ingest.
func LoadAliases(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrAliasFileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	var f aliasFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}

	return f.Aliases, nil
}
