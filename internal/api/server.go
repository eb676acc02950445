package api

import (
	"context"

	"github.com/vytor/lingoflash/internal/services"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Flashcards services.FlashcardService
	Languages  services.LanguageService
	Study      services.StudyService
	Import     services.ImportService
	DB         Pinger

	AllowedOrigins []string
	ImportMaxBytes int64
}
