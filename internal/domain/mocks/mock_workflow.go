// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"k6lint.dev/pkg/k6lint/internal/domain"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

var _ domain.Workflow = (*MockWorkflow)(nil)

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted
// when the test ends.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	w := &MockWorkflow{}
	w.Test(t)

	t.Cleanup(func() { w.AssertExpectations(t) })

	return w
}

// Scan records the call.
func (w *MockWorkflow) Scan(ctx context.Context, args domain.ScanArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Watch records the call.
func (w *MockWorkflow) Watch(ctx context.Context, args domain.ScanArgs) error {
	return w.Called(ctx, args).Error(0)
}

// View records the call.
func (w *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Diff records the call.
func (w *MockWorkflow) Diff(ctx context.Context, args domain.DiffArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Inspect records the call.
func (w *MockWorkflow) Inspect(ctx context.Context, args domain.InspectArgs) error {
	return w.Called(ctx, args).Error(0)
}

// ListRules records the call.
func (w *MockWorkflow) ListRules(ctx context.Context) error {
	return w.Called(ctx).Error(0)
}
