// Package inventory supplies the installed-application records the
// recommendation engine consumes. The engine performs no OS enumeration
// itself; it only sees this package's interface.
package inventory

import "context"

// Source identifies where an application record came from.
type Source string

const (
	// SourceSystem marks applications enumerated from the OS
	SourceSystem Source = "system"
	// SourceCatalog marks applications already managed by the catalog
	SourceCatalog Source = "catalog"
)

// Application is one installed application record. Records are immutable:
// the core reads them and never writes back.
type Application struct {
	// Name is the display name as the OS reports it
	Name string
	// Version is the raw, unparsed version string
	Version string
	// Source tags the record's origin
	Source Source
}

// Provider supplies an ordered sequence of installed applications.
type Provider interface {
	Applications(ctx context.Context) ([]Application, error)
}

// StaticProvider serves a fixed list. Useful for tests and file-driven runs.
type StaticProvider struct {
	Apps []Application
}

// Applications implements Provider.
func (p *StaticProvider) Applications(ctx context.Context) ([]Application, error) {
	out := make([]Application, len(p.Apps))
	copy(out, p.Apps)
	return out, nil
}
