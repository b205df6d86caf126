package process

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"time"
)

// Call records one invocation of a MockRunner.
type Call struct {
	Path     string
	Args     []string
	Detached bool
}

// MockRunner is a Runner for tests. It is safe for concurrent use.
type MockRunner struct {
	// RunFunc allows tests to provide custom behaviour for Run.
	RunFunc func(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)

	// StartFunc allows tests to provide custom behaviour for Start.
	StartFunc func(path string, args []string) error

	// Delay simulates slow process execution.
	Delay time.Duration

	mu    sync.Mutex
	calls []Call
}

// NewMockRunner creates a mock runner that succeeds with empty output.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// NewErrorMockRunner creates a mock whose Run and Start always fail.
func NewErrorMockRunner(errMsg string) *MockRunner {
	err := errors.New(errMsg)
	return &MockRunner{
		RunFunc: func(context.Context, string, []string, io.Reader) ([]byte, []byte, error) {
			return nil, []byte(errMsg), err
		},
		StartFunc: func(string, []string) error {
			return err
		},
	}
}

func (m *MockRunner) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

// Run records the call and executes the mock behaviour.
func (m *MockRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	m.record(Call{Path: path, Args: slices.Clone(args)})

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}

	if m.RunFunc != nil {
		return m.RunFunc(ctx, path, args, stdin)
	}
	return nil, nil, nil
}

// Start records a detached call.
func (m *MockRunner) Start(path string, args []string) error {
	m.record(Call{Path: path, Args: slices.Clone(args), Detached: true})
	if m.StartFunc != nil {
		return m.StartFunc(path, args)
	}
	return nil
}

// Calls returns a copy of every recorded call.
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// CallCount returns the number of recorded calls.
func (m *MockRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// CallsTo returns the calls made to path.
func (m *MockRunner) CallsTo(path string) []Call {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Call
	for _, c := range m.calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears the recorded calls.
func (m *MockRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
