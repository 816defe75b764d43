package catalog

import (
	"context"
	"sync"
	"sync/atomic"
)

// MockRunner is a scripted Runner for tests. Responses are configured per
// call; call counts are tracked for coalescing assertions.
type MockRunner struct {
	mu sync.Mutex

	// Casks is returned by ListCasks
	Casks []string
	// ListErr, when set, fails ListCasks
	ListErr error

	// Versions is returned by Info for known tokens
	Versions map[string]string
	// InfoErrs fail the first len(InfoErrs) Info calls in order, letting
	// tests script fail-then-succeed sequences
	InfoErrs []error

	listCalls atomic.Int64
	infoCalls atomic.Int64

	// InfoDelay, when set, blocks each Info call until released
	InfoDelay chan struct{}
}

// ListCasks implements Runner.
func (m *MockRunner) ListCasks(ctx context.Context) ([]string, error) {
	m.listCalls.Add(1)
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Casks, nil
}

// Info implements Runner.
func (m *MockRunner) Info(ctx context.Context, tokens []string) (map[string]string, error) {
	call := m.infoCalls.Add(1)

	if m.InfoDelay != nil {
		select {
		case <-m.InfoDelay:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	var scripted error
	if int(call) <= len(m.InfoErrs) {
		scripted = m.InfoErrs[call-1]
	}
	versions := make(map[string]string, len(tokens))
	for _, token := range tokens {
		if v, ok := m.Versions[token]; ok {
			versions[token] = v
		}
	}
	m.mu.Unlock()

	if scripted != nil {
		return nil, scripted
	}
	return versions, nil
}

// InfoCalls returns how many Info invocations happened.
func (m *MockRunner) InfoCalls() int {
	return int(m.infoCalls.Load())
}

// ListCalls returns how many ListCasks invocations happened.
func (m *MockRunner) ListCalls() int {
	return int(m.listCalls.Load())
}
