package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingoflash/internal/models"
)

// MockStudySessionRepository is a mock implementation of repository.StudySessionRepository
type MockStudySessionRepository struct {
	mock.Mock
}

func (m *MockStudySessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStudySessionRepository) ListByFlashcard(ctx context.Context, flashcardID string, limit int) ([]models.StudySession, error) {
	args := m.Called(ctx, flashcardID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudySession), args.Error(1)
}

// MockWordAnalyticsRepository is a mock implementation of repository.WordAnalyticsRepository
type MockWordAnalyticsRepository struct {
	mock.Mock
}

func (m *MockWordAnalyticsRepository) Upsert(ctx context.Context, flashcardID string, entry models.WordAnalysis, at time.Time) (*models.WordAnalytics, error) {
	args := m.Called(ctx, flashcardID, entry, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordAnalytics), args.Error(1)
}

func (m *MockWordAnalyticsRepository) ListByFlashcard(ctx context.Context, flashcardID string) ([]models.WordAnalytics, error) {
	args := m.Called(ctx, flashcardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WordAnalytics), args.Error(1)
}
