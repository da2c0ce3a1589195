package engine

import (
	"sync/atomic"
	"time"
)

// MockTimeProvider is a manually advanced clock for tests
type MockTimeProvider struct {
	base    time.Time
	elapsed atomic.Int64 // nanoseconds since base
}

// NewMockTimeProvider creates a mock clock reading startTime
func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{base: startTime}
}

func (m *MockTimeProvider) Now() time.Time {
	return m.base.Add(time.Duration(m.elapsed.Load()))
}

// Advance moves the mocked time forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.elapsed.Add(int64(d))
}
