package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingoflash/internal/analysis"
)

// MockAnalyzer is a mock implementation of analysis.Analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, p analysis.Payload) analysis.Outcome {
	args := m.Called(ctx, p)
	return args.Get(0).(analysis.Outcome)
}

// MockTxManager runs the callback directly unless RunInTx is given an error
// to return through On(...).Return(err).
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
