package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/services"
)

const defaultImportMaxBytes = 5 << 20

func (s *Server) handleImportFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	maxBytes := s.ImportMaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultImportMaxBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		log.Warn("failed to parse import form: %v", err)
		handleError(w, r, errors.NewBadRequestError("expected a multipart form within the upload size limit"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewValidationError("file", "is required"))
		return
	}
	defer file.Close()

	in := services.ImportInput{
		Filename: header.Filename,
		Title:    r.FormValue("title"),
	}
	if v := strings.TrimSpace(r.FormValue("languageId")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handleError(w, r, errors.NewValidationError("languageId", "must be a positive integer"))
			return
		}
		in.LanguageID = id
	}
	if desc := strings.TrimSpace(r.FormValue("description")); desc != "" {
		in.Description = &desc
	}

	res, err := s.Import.ImportFlashcard(r.Context(), file, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, res)
}
