package persistence

import (
	context "context"

	entity "github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	mock "github.com/stretchr/testify/mock"
)

// MockMessageRepository is a mock type for the MessageRepository type
type MockMessageRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, message
func (_m *MockMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	ret := _m.Called(ctx, message)
	if rf, ok := ret.Get(0).(func(context.Context, *entity.Message) error); ok {
		return rf(ctx, message)
	}
	return ret.Error(0)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockMessageRepository) GetByID(ctx context.Context, id uint64) (*entity.Message, error) {
	ret := _m.Called(ctx, id)
	var r0 *entity.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Message)
	}
	return r0, ret.Error(1)
}

// List provides a mock function with given fields: ctx, offset, limit
func (_m *MockMessageRepository) List(ctx context.Context, offset int, limit int) ([]entity.Message, error) {
	ret := _m.Called(ctx, offset, limit)
	var r0 []entity.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]entity.Message)
	}
	return r0, ret.Error(1)
}

// TraceNumberExists provides a mock function with given fields: ctx, traceNumber
func (_m *MockMessageRepository) TraceNumberExists(ctx context.Context, traceNumber string) (bool, error) {
	ret := _m.Called(ctx, traceNumber)
	return ret.Bool(0), ret.Error(1)
}

// RrnExists provides a mock function with given fields: ctx, rrn
func (_m *MockMessageRepository) RrnExists(ctx context.Context, rrn string) (bool, error) {
	ret := _m.Called(ctx, rrn)
	return ret.Bool(0), ret.Error(1)
}

// NewMockMessageRepository creates a new instance of MockMessageRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockMessageRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMessageRepository {
	m := &MockMessageRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
