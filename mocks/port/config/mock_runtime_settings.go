package config

import (
	entity "github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	mock "github.com/stretchr/testify/mock"
)

// MockRuntimeSettings is a mock type for the RuntimeSettings type
type MockRuntimeSettings struct {
	mock.Mock
}

// Apply provides a mock function with given fields: entries
func (_m *MockRuntimeSettings) Apply(entries []entity.ConfigEntry) {
	_m.Called(entries)
}

// Value provides a mock function with given fields: key
func (_m *MockRuntimeSettings) Value(key string) string {
	ret := _m.Called(key)
	return ret.String(0)
}

// NewMockRuntimeSettings creates a new instance of MockRuntimeSettings. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockRuntimeSettings(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRuntimeSettings {
	m := &MockRuntimeSettings{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
