package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

// MockHealthRegistry is a mock of ports.HealthRegistry.
type MockHealthRegistry struct {
	mock.Mock
}

// NewMockHealthRegistry creates a mock and asserts its expectations on cleanup.
func NewMockHealthRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHealthRegistry {
	m := &MockHealthRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Register mocks ports.HealthRegistry.Register.
func (m *MockHealthRegistry) Register(checker ports.HealthChecker) error {
	return m.Called(checker).Error(0)
}

// CheckAll mocks ports.HealthRegistry.CheckAll.
func (m *MockHealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	res, _ := m.Called(ctx).Get(0).(*ports.HealthResult)
	return res
}
