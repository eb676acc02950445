package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/lingoflash/internal/analysis"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/flashcard"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

const defaultSessionListLimit = 50

// StudyRun is a server-side replay of a study session.
type StudyRun struct {
	Steps   []flashcard.Step `json:"actions"`
	Finish  bool             `json:"finish"`
	Analyze bool             `json:"analyze"`
}

type StudyRunResult struct {
	Tallies      models.SessionTallies  `json:"tallies"`
	StudySession *models.StudySession   `json:"studySession"`
	AIAnalysis   *models.AnalysisResult `json:"aiAnalysis"`
}

// StudyService records finished study sessions and their analysis.
type StudyService interface {
	SaveSession(ctx context.Context, flashcardID string, tallies *models.SessionTallies) (*models.StudySession, error)
	AnalyzeSession(ctx context.Context, flashcardID string, tallies *models.SessionTallies) (*models.AnalyzeSessionResult, error)
	RunSession(ctx context.Context, flashcardID string, run StudyRun) (*StudyRunResult, error)
	ListSessions(ctx context.Context, flashcardID string, limit int) ([]models.StudySession, error)
	WordAnalytics(ctx context.Context, flashcardID string) ([]models.WordAnalytics, error)
}

type studyService struct {
	flashcards repository.FlashcardRepository
	sessions   repository.StudySessionRepository
	analytics  repository.WordAnalyticsRepository
	tx         repository.TxManager
	analyzer   analysis.Analyzer
	now        func() time.Time
}

// NewStudyService creates a new StudyService
func NewStudyService(
	flashcards repository.FlashcardRepository,
	sessions repository.StudySessionRepository,
	analytics repository.WordAnalyticsRepository,
	tx repository.TxManager,
	analyzer analysis.Analyzer,
) StudyService {
	return &studyService{
		flashcards: flashcards,
		sessions:   sessions,
		analytics:  analytics,
		tx:         tx,
		analyzer:   analyzer,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *studyService) SaveSession(ctx context.Context, flashcardID string, tallies *models.SessionTallies) (*models.StudySession, error) {
	log := logger.FromContext(ctx).WithField("flashcard_id", flashcardID)
	log.Debug("saving study session")

	if err := validateTallies(flashcardID, tallies); err != nil {
		return nil, err
	}
	if _, err := s.loadFlashcard(ctx, flashcardID); err != nil {
		return nil, err
	}

	session, err := s.persist(ctx, flashcardID, *tallies, nil, nil)
	if err != nil {
		return nil, err
	}

	log.Info("study session saved: id=%s, known=%d, unknown=%d, skipped=%d",
		session.ID, session.KnownCount, session.UnknownCount, session.SkippedCount)
	return session, nil
}

func (s *studyService) AnalyzeSession(ctx context.Context, flashcardID string, tallies *models.SessionTallies) (*models.AnalyzeSessionResult, error) {
	log := logger.FromContext(ctx).WithField("flashcard_id", flashcardID)
	log.Debug("analyzing study session")

	if err := validateTallies(flashcardID, tallies); err != nil {
		return nil, err
	}
	card, err := s.loadFlashcard(ctx, flashcardID)
	if err != nil {
		return nil, err
	}

	// The webhook runs before the transaction so no connection is held while waiting.
	outcome := s.analyzer.Analyze(ctx, analysis.NewPayload(card, *tallies, s.now()))

	var (
		feedback *string
		entries  []models.WordAnalysis
		result   *models.AnalysisResult
	)
	switch outcome.Status {
	case analysis.StatusSucceeded:
		result = outcome.Result
		if result.WordAnalysis == nil {
			result.WordAnalysis = []models.WordAnalysis{}
		}
		if result.AIFeedback != "" {
			fb := result.AIFeedback
			feedback = &fb
		}
		entries = result.WordAnalysis
	case analysis.StatusSkipped:
		log.Debug("analysis skipped: %s", outcome.SkipReason)
	default:
		log.Warn("continuing without analysis: %v", outcome.Err)
	}

	session, err := s.persist(ctx, flashcardID, *tallies, feedback, entries)
	if err != nil {
		return nil, err
	}

	log.Info("study session analyzed: id=%s, analysis=%s", session.ID, outcome.Status)
	return &models.AnalyzeSessionResult{StudySession: session, AIAnalysis: result}, nil
}

func (s *studyService) RunSession(ctx context.Context, flashcardID string, run StudyRun) (*StudyRunResult, error) {
	log := logger.FromContext(ctx).WithField("flashcard_id", flashcardID)
	log.Debug("replaying study run: steps=%d, finish=%v, analyze=%v", len(run.Steps), run.Finish, run.Analyze)

	if strings.TrimSpace(flashcardID) == "" {
		return nil, errors.NewValidationError("id", "is required")
	}
	card, err := s.loadFlashcard(ctx, flashcardID)
	if err != nil {
		return nil, err
	}

	deck, err := flashcard.Replay(card.Words, run.Steps, run.Finish)
	if err != nil {
		return nil, errors.NewValidationError("actions", err.Error())
	}
	if !deck.Completed() {
		return nil, errors.NewValidationError("finish",
			fmt.Sprintf("run stopped at card %d of %d; set finish to end it early", deck.Current(), deck.Len()))
	}

	tallies := deck.Tallies()
	out := &StudyRunResult{Tallies: tallies}
	if run.Analyze {
		res, err := s.AnalyzeSession(ctx, flashcardID, &tallies)
		if err != nil {
			return nil, err
		}
		out.StudySession = res.StudySession
		out.AIAnalysis = res.AIAnalysis
		return out, nil
	}

	session, err := s.SaveSession(ctx, flashcardID, &tallies)
	if err != nil {
		return nil, err
	}
	out.StudySession = session
	return out, nil
}

func (s *studyService) ListSessions(ctx context.Context, flashcardID string, limit int) ([]models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing study sessions: flashcard_id=%s, limit=%d", flashcardID, limit)

	if _, err := s.loadFlashcard(ctx, flashcardID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSessionListLimit
	}

	sessions, err := s.sessions.ListByFlashcard(ctx, flashcardID, limit)
	if err != nil {
		log.Error("failed to list study sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if sessions == nil {
		sessions = []models.StudySession{}
	}
	return sessions, nil
}

func (s *studyService) WordAnalytics(ctx context.Context, flashcardID string) ([]models.WordAnalytics, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing word analytics: flashcard_id=%s", flashcardID)

	if _, err := s.loadFlashcard(ctx, flashcardID); err != nil {
		return nil, err
	}

	rows, err := s.analytics.ListByFlashcard(ctx, flashcardID)
	if err != nil {
		log.Error("failed to list word analytics: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if rows == nil {
		rows = []models.WordAnalytics{}
	}
	for i := range rows {
		rows[i].DifficultyBand = models.DifficultyBand(rows[i].DifficultyLevel)
	}
	return rows, nil
}

func (s *studyService) loadFlashcard(ctx context.Context, id string) (*models.Flashcard, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewValidationError("id", "is required")
	}
	card, err := s.flashcards.FindByID(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load flashcard %s: %v", id, err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("flashcard", id)
	}
	return card, nil
}

// persist writes the session row, the analytics entries and the flashcard's
// lastStudiedAt in one transaction.
func (s *studyService) persist(ctx context.Context, flashcardID string, tallies models.SessionTallies, feedback *string, entries []models.WordAnalysis) (*models.StudySession, error) {
	now := s.now()
	session := &models.StudySession{
		ID:           uuid.NewString(),
		FlashcardID:  flashcardID,
		KnownCount:   tallies.KnownCount,
		UnknownCount: tallies.UnknownCount,
		SkippedCount: tallies.SkippedCount,
		AIFeedback:   feedback,
		CreatedAt:    now,
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.sessions.Create(ctx, session); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		if err := reconcileWordAnalytics(ctx, s.analytics, flashcardID, entries, now); err != nil {
			return err
		}
		if err := s.flashcards.TouchLastStudied(ctx, flashcardID, now); err != nil {
			return fmt.Errorf("touch last studied: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to persist study session: %v", err)
		return nil, errors.NewPersistenceError("save study session", err)
	}
	return session, nil
}

func validateTallies(flashcardID string, t *models.SessionTallies) error {
	if strings.TrimSpace(flashcardID) == "" {
		return errors.NewValidationError("id", "is required")
	}
	if t == nil {
		return errors.NewValidationError("session", "is required")
	}
	switch {
	case t.KnownCount < 0:
		return errors.NewValidationError("knownCount", "cannot be negative")
	case t.UnknownCount < 0:
		return errors.NewValidationError("unknownCount", "cannot be negative")
	case t.SkippedCount < 0:
		return errors.NewValidationError("skippedCount", "cannot be negative")
	}
	return nil
}
