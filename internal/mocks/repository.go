package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/wine-catalog/internal/domain"
	"github.com/jsamuelsen/wine-catalog/internal/ports"
)

// MockWineRepository is a mock of ports.WineRepository.
type MockWineRepository struct {
	mock.Mock
}

// NewMockWineRepository creates a mock and asserts its expectations on cleanup.
func NewMockWineRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWineRepository {
	m := &MockWineRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// GetAll mocks ports.WineRepository.GetAll.
func (m *MockWineRepository) GetAll(ctx context.Context) []*domain.Wine {
	args := m.Called(ctx)

	wines, _ := args.Get(0).([]*domain.Wine)

	return wines
}

// GetByID mocks ports.WineRepository.GetByID.
func (m *MockWineRepository) GetByID(ctx context.Context, id int) (*domain.Wine, bool) {
	args := m.Called(ctx, id)

	wine, _ := args.Get(0).(*domain.Wine)

	return wine, args.Bool(1)
}

// Add mocks ports.WineRepository.Add.
func (m *MockWineRepository) Add(ctx context.Context, entity *domain.Wine) {
	m.Called(ctx, entity)
}

// Update mocks ports.WineRepository.Update.
func (m *MockWineRepository) Update(ctx context.Context, entity *domain.Wine) {
	m.Called(ctx, entity)
}

// Delete mocks ports.WineRepository.Delete.
func (m *MockWineRepository) Delete(ctx context.Context, id int) {
	m.Called(ctx, id)
}

// Save mocks ports.WineRepository.Save.
func (m *MockWineRepository) Save(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// StaticWineRepositoryFactory hands out the same repository for every unit of work.
type StaticWineRepositoryFactory struct {
	Repo ports.WineRepository
}

// Begin implements ports.WineRepositoryFactory.
func (f StaticWineRepositoryFactory) Begin(context.Context) ports.WineRepository {
	return f.Repo
}
