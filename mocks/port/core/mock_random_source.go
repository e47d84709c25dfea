package core

import (
	mock "github.com/stretchr/testify/mock"
)

// MockRandomSource is a mock type for the RandomSource type
type MockRandomSource struct {
	mock.Mock
}

// Int63n provides a mock function with given fields: n
func (_m *MockRandomSource) Int63n(n int64) int64 {
	ret := _m.Called(n)
	return ret.Get(0).(int64)
}

// NewMockRandomSource creates a new instance of MockRandomSource. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockRandomSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRandomSource {
	m := &MockRandomSource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
