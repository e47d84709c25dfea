package tunnel

import (
	context "context"

	backend "github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
	tunnel "github.com/amirhossein-jamali/atm-console/internal/domain/port/tunnel"
	mock "github.com/stretchr/testify/mock"
)

// MockTunnel is a mock type for the Tunnel type
type MockTunnel struct {
	mock.Mock
}

// Open provides a mock function with given fields: ctx, settings
func (_m *MockTunnel) Open(ctx context.Context, settings tunnel.Settings) error {
	ret := _m.Called(ctx, settings)
	return ret.Error(0)
}

// Close provides a mock function with no fields
func (_m *MockTunnel) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

// Ping provides a mock function with given fields: ctx
func (_m *MockTunnel) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// LocalAddr provides a mock function with no fields
func (_m *MockTunnel) LocalAddr() string {
	ret := _m.Called()
	return ret.String(0)
}

// Events provides a mock function with no fields
func (_m *MockTunnel) Events() <-chan backend.TunnelEvent {
	ret := _m.Called()
	if ret.Get(0) == nil {
		return nil
	}
	switch ch := ret.Get(0).(type) {
	case chan backend.TunnelEvent:
		return ch
	default:
		return ret.Get(0).(<-chan backend.TunnelEvent)
	}
}

// NewMockTunnel creates a new instance of MockTunnel. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTunnel(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTunnel {
	m := &MockTunnel{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
