package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Error variables for profiler errors
var (
	// ErrProfilerCommand is returned when system_profiler exits non-zero
	ErrProfilerCommand = errors.New("system_profiler command failed")
	// ErrProfilerOutput is returned when the profiler's JSON cannot be decoded
	ErrProfilerOutput = errors.New("malformed system_profiler output")
)

// ProfilerProvider enumerates installed applications on macOS via
// `system_profiler -json SPApplicationsDataType`.
type ProfilerProvider struct {
	profilerPath string
}

// NewProfilerProvider creates a provider for the given system_profiler
// binary. An empty path falls back to "system_profiler" on PATH.
func NewProfilerProvider(profilerPath string) *ProfilerProvider {
	if profilerPath == "" {
		profilerPath = "system_profiler"
	}
	return &ProfilerProvider{profilerPath: profilerPath}
}

// profilerReport mirrors the subset of the profiler's JSON this tool reads.
type profilerReport struct {
	Applications []struct {
		Name       string `json:"_name"`
		Version    string `json:"version"`
		ObtainedBy string `json:"obtained_from"`
	} `json:"SPApplicationsDataType"`
}

// Applications implements Provider.
func (p *ProfilerProvider) Applications(ctx context.Context) ([]Application, error) {
	cmd := exec.CommandContext(ctx, p.profilerPath, "-json", "SPApplicationsDataType")

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		stderr := strings.TrimSpace(stderrBuf.String())
		if stderr != "" {
			return nil, fmt.Errorf("%w: %s", ErrProfilerCommand, stderr)
		}
		return nil, fmt.Errorf("%w: %v", ErrProfilerCommand, err)
	}

	return ParseProfilerOutput(stdoutBuf.Bytes())
}

// ParseProfilerOutput decodes the profiler's JSON into application records.
// Exported for testing against captured fixtures.
func ParseProfilerOutput(data []byte) ([]Application, error) {
	var report profilerReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfilerOutput, err)
	}

	apps := make([]Application, 0, len(report.Applications))
	for _, a := range report.Applications {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		source := SourceSystem
		if strings.EqualFold(a.ObtainedBy, "mac_app_store") {
			// App Store installs update through the store, not the catalog
			source = SourceCatalog
		}
		apps = append(apps, Application{
			Name:    name,
			Version: strings.TrimSpace(a.Version),
			Source:  source,
		})
	}
	return apps, nil
}
