package switching

import (
	context "context"
	io "io"

	entity "github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	mock "github.com/stretchr/testify/mock"
)

// MockCodec is a mock type for the Codec type
type MockCodec struct {
	mock.Mock
}

// Pack provides a mock function with given fields: message
func (_m *MockCodec) Pack(message entity.Message) ([]byte, error) {
	ret := _m.Called(message)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

// Unpack provides a mock function with given fields: r
func (_m *MockCodec) Unpack(r io.Reader) (entity.AtmResponse, error) {
	ret := _m.Called(r)
	return ret.Get(0).(entity.AtmResponse), ret.Error(1)
}

// NewMockCodec creates a new instance of MockCodec. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockCodec(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCodec {
	m := &MockCodec{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockTransport is a mock type for the Transport type
type MockTransport struct {
	mock.Mock
}

// Exchange provides a mock function with given fields: ctx, frame, decode
func (_m *MockTransport) Exchange(ctx context.Context, frame []byte, decode func(io.Reader) (entity.AtmResponse, error)) (entity.AtmResponse, error) {
	ret := _m.Called(ctx, frame, decode)
	return ret.Get(0).(entity.AtmResponse), ret.Error(1)
}

// NewMockTransport creates a new instance of MockTransport. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTransport(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTransport {
	m := &MockTransport{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
