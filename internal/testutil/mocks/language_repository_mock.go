package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingoflash/internal/models"
)

// MockLanguageRepository is a mock implementation of repository.LanguageRepository
type MockLanguageRepository struct {
	mock.Mock
}

func (m *MockLanguageRepository) List(ctx context.Context) ([]models.Language, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Language), args.Error(1)
}

func (m *MockLanguageRepository) FindByID(ctx context.Context, id int64) (*models.Language, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Language), args.Error(1)
}

func (m *MockLanguageRepository) FindByCode(ctx context.Context, code string) (*models.Language, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Language), args.Error(1)
}
