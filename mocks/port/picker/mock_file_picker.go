package picker

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// MockFilePicker is a mock type for the FilePicker type
type MockFilePicker struct {
	mock.Mock
}

// PickFile provides a mock function with given fields: ctx
func (_m *MockFilePicker) PickFile(ctx context.Context) (string, bool, error) {
	ret := _m.Called(ctx)
	return ret.String(0), ret.Bool(1), ret.Error(2)
}

// NewMockFilePicker creates a new instance of MockFilePicker. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockFilePicker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFilePicker {
	m := &MockFilePicker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
