package persistence

import (
	context "context"

	entity "github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	mock "github.com/stretchr/testify/mock"
)

// MockConfigRepository is a mock type for the ConfigRepository type
type MockConfigRepository struct {
	mock.Mock
}

// List provides a mock function with given fields: ctx
func (_m *MockConfigRepository) List(ctx context.Context) ([]entity.ConfigEntry, error) {
	ret := _m.Called(ctx)
	var r0 []entity.ConfigEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]entity.ConfigEntry)
	}
	return r0, ret.Error(1)
}

// Update provides a mock function with given fields: ctx, entry
func (_m *MockConfigRepository) Update(ctx context.Context, entry entity.ConfigEntry) error {
	ret := _m.Called(ctx, entry)
	return ret.Error(0)
}

// EnsureKeys provides a mock function with given fields: ctx, keys
func (_m *MockConfigRepository) EnsureKeys(ctx context.Context, keys []string) error {
	ret := _m.Called(ctx, keys)
	return ret.Error(0)
}

// NewMockConfigRepository creates a new instance of MockConfigRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockConfigRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockConfigRepository {
	m := &MockConfigRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
