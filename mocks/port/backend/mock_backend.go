package backend

import (
	context "context"

	entity "github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	backend "github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
	mock "github.com/stretchr/testify/mock"
)

// MockBackend is a mock type for the Backend type
type MockBackend struct {
	mock.Mock
}

// SubmitMessage provides a mock function with given fields: ctx, message
func (_m *MockBackend) SubmitMessage(ctx context.Context, message entity.Message) (entity.AtmResponse, error) {
	ret := _m.Called(ctx, message)
	if rf, ok := ret.Get(0).(func(context.Context, entity.Message) (entity.AtmResponse, error)); ok {
		return rf(ctx, message)
	}
	return ret.Get(0).(entity.AtmResponse), ret.Error(1)
}

// SubmitReversal provides a mock function with given fields: ctx, id
func (_m *MockBackend) SubmitReversal(ctx context.Context, id uint64) (entity.AtmResponse, error) {
	ret := _m.Called(ctx, id)
	if rf, ok := ret.Get(0).(func(context.Context, uint64) (entity.AtmResponse, error)); ok {
		return rf(ctx, id)
	}
	return ret.Get(0).(entity.AtmResponse), ret.Error(1)
}

// ListMessages provides a mock function with given fields: ctx, page
func (_m *MockBackend) ListMessages(ctx context.Context, page int) ([]entity.Message, error) {
	ret := _m.Called(ctx, page)
	if rf, ok := ret.Get(0).(func(context.Context, int) ([]entity.Message, error)); ok {
		return rf(ctx, page)
	}
	var r0 []entity.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]entity.Message)
	}
	return r0, ret.Error(1)
}

// GetConfig provides a mock function with given fields: ctx
func (_m *MockBackend) GetConfig(ctx context.Context) ([]entity.ConfigEntry, error) {
	ret := _m.Called(ctx)
	var r0 []entity.ConfigEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]entity.ConfigEntry)
	}
	return r0, ret.Error(1)
}

// SetConfig provides a mock function with given fields: ctx, entries
func (_m *MockBackend) SetConfig(ctx context.Context, entries []entity.ConfigEntry) error {
	ret := _m.Called(ctx, entries)
	return ret.Error(0)
}

// ConnectTunnel provides a mock function with given fields: ctx
func (_m *MockBackend) ConnectTunnel(ctx context.Context) error {
	ret := _m.Called(ctx)
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}
	return ret.Error(0)
}

// DisconnectTunnel provides a mock function with given fields: ctx
func (_m *MockBackend) DisconnectTunnel(ctx context.Context) error {
	ret := _m.Called(ctx)
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}
	return ret.Error(0)
}

// CheckTunnel provides a mock function with given fields: ctx
func (_m *MockBackend) CheckTunnel(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// PickFile provides a mock function with given fields: ctx
func (_m *MockBackend) PickFile(ctx context.Context) (string, bool, error) {
	ret := _m.Called(ctx)
	return ret.String(0), ret.Bool(1), ret.Error(2)
}

// TunnelEvents provides a mock function with no fields
func (_m *MockBackend) TunnelEvents() <-chan backend.TunnelEvent {
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

// NewMockBackend creates a new instance of MockBackend. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockBackend(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBackend {
	m := &MockBackend{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
