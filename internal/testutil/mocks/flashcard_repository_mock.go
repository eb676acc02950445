package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingoflash/internal/models"
)

// MockFlashcardRepository is a mock implementation of repository.FlashcardRepository
type MockFlashcardRepository struct {
	mock.Mock
}

func (m *MockFlashcardRepository) Create(ctx context.Context, flashcard *models.Flashcard) error {
	args := m.Called(ctx, flashcard)
	return args.Error(0)
}

func (m *MockFlashcardRepository) Update(ctx context.Context, id string, patch models.FlashcardPatch, updatedAt time.Time) error {
	args := m.Called(ctx, id, patch, updatedAt)
	return args.Error(0)
}

func (m *MockFlashcardRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlashcardRepository) FindByID(ctx context.Context, id string) (*models.Flashcard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flashcard), args.Error(1)
}

func (m *MockFlashcardRepository) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flashcard), args.Error(1)
}

func (m *MockFlashcardRepository) TouchLastStudied(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
