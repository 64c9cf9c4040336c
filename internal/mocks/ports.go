// Package mocks provides testify mocks for the port interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/quotation-wall/internal/domain"
	"github.com/jsamuelsen/quotation-wall/internal/ports"
)

var (
	_ ports.QuotationStore = (*MockQuotationStore)(nil)
	_ ports.ImageStore     = (*MockImageStore)(nil)
	_ ports.HealthChecker  = (*MockHealthChecker)(nil)
)

// MockQuotationStore is a mock ports.QuotationStore.
type MockQuotationStore struct {
	mock.Mock
}

// NewMockQuotationStore creates a mock that asserts its expectations on cleanup.
func NewMockQuotationStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuotationStore {
	m := &MockQuotationStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQuotationStore) List(ctx context.Context) ([]domain.Quotation, error) {
	args := m.Called(ctx)

	quotations, _ := args.Get(0).([]domain.Quotation)

	return quotations, args.Error(1)
}

func (m *MockQuotationStore) Prepend(ctx context.Context, entry *domain.Quotation) error {
	return m.Called(ctx, entry).Error(0)
}

// MockImageStore is a mock ports.ImageStore.
type MockImageStore struct {
	mock.Mock
}

// NewMockImageStore creates a mock that asserts its expectations on cleanup.
func NewMockImageStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockImageStore {
	m := &MockImageStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockImageStore) Stage(ctx context.Context, src io.Reader, ext string) (string, error) {
	args := m.Called(ctx, src, ext)

	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Promote(ctx context.Context, staged, name string) error {
	return m.Called(ctx, staged, name).Error(0)
}

func (m *MockImageStore) Remove(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockImageStore) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)

	return args.Bool(0), args.Error(1)
}

// MockHealthChecker is a mock ports.HealthChecker.
type MockHealthChecker struct {
	mock.Mock
}

// NewMockHealthChecker creates a mock that asserts its expectations on cleanup.
func NewMockHealthChecker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHealthChecker {
	m := &MockHealthChecker{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockHealthChecker) Name() string {
	return m.Called().String(0)
}

func (m *MockHealthChecker) Check(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
