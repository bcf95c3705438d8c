package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/wine-catalog/internal/domain"
)

// MockTokenIssuer is a mock of ports.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a mock and asserts its expectations on cleanup.
func NewMockTokenIssuer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Issue mocks ports.TokenIssuer.Issue.
func (m *MockTokenIssuer) Issue(ctx context.Context, subject, role string) (*domain.AccessToken, error) {
	args := m.Called(ctx, subject, role)

	tok, _ := args.Get(0).(*domain.AccessToken)

	return tok, args.Error(1)
}

// MockTokenVerifier is a mock of ports.TokenVerifier.
type MockTokenVerifier struct {
	mock.Mock
}

// NewMockTokenVerifier creates a mock and asserts its expectations on cleanup.
func NewMockTokenVerifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenVerifier {
	m := &MockTokenVerifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Verify mocks ports.TokenVerifier.Verify.
func (m *MockTokenVerifier) Verify(ctx context.Context, raw string) (*domain.Principal, error) {
	args := m.Called(ctx, raw)

	p, _ := args.Get(0).(*domain.Principal)

	return p, args.Error(1)
}
