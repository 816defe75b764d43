// Package catalog talks to the external package catalog (Homebrew casks)
// and coordinates batched, cached, rate-limited version lookups.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Error variables for catalog tool errors
var (
	// ErrCatalogCommand is returned when the catalog tool exits non-zero
	ErrCatalogCommand = errors.New("catalog command failed")
	// ErrMalformedOutput is returned when the tool's stdout cannot be decoded
	ErrMalformedOutput = errors.New("malformed catalog output")
)

// Runner invokes the external catalog tool. Its stdout is untrusted text;
// implementations decode it but never interpret versions structurally.
type Runner interface {
	// ListCasks returns every cask token the catalog knows
	ListCasks(ctx context.Context) ([]string, error)
	// Info returns the current catalog version per requested token.
	// Tokens unknown to the catalog are simply absent from the result.
	Info(ctx context.Context, tokens []string) (map[string]string, error)
}

// BrewRunner shells out to the brew command.
type BrewRunner struct {
	brewPath string
}

// NewBrewRunner creates a runner for the given brew binary.
// An empty path falls back to "brew" on PATH.
func NewBrewRunner(brewPath string) *BrewRunner {
	if brewPath == "" {
		brewPath = "brew"
	}
	return &BrewRunner{brewPath: brewPath}
}

// ListCasks implements Runner.
func (r *BrewRunner) ListCasks(ctx context.Context) ([]string, error) {
	stdout, err := r.run(ctx, "search", "--casks", "")
	if err != nil {
		return nil, err
	}

	var tokens []string
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "==>") {
			continue
		}
		tokens = append(tokens, line)
	}
	return tokens, nil
}

// brewInfo mirrors the subset of `brew info --json=v2` this tool reads.
type brewInfo struct {
	Casks []struct {
		Token   string   `json:"token"`
		Name    []string `json:"name"`
		Version string   `json:"version"`
	} `json:"casks"`
}

// Info implements Runner with a single `brew info --json=v2 --cask` call
// covering the whole batch.
func (r *BrewRunner) Info(ctx context.Context, tokens []string) (map[string]string, error) {
	if len(tokens) == 0 {
		return map[string]string{}, nil
	}

	args := append([]string{"info", "--json=v2", "--cask"}, tokens...)
	stdout, err := r.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var info brewInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	versions := make(map[string]string, len(info.Casks))
	for _, cask := range info.Casks {
		if cask.Token == "" {
			continue
		}
		versions[cask.Token] = cask.Version
	}
	return versions, nil
}

// run executes brew and returns stdout, wrapping stderr into the error on
// non-zero exit.
func (r *BrewRunner) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.brewPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		stderr := strings.TrimSpace(stderrBuf.String())
		if stderr != "" {
			return "", fmt.Errorf("%w: %s", ErrCatalogCommand, stderr)
		}
		return "", fmt.Errorf("%w: %v", ErrCatalogCommand, err)
	}

	return stdoutBuf.String(), nil
}
