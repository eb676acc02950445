package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/lingoflash/internal/analysis"
	"github.com/vytor/lingoflash/internal/api"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/repository/sqlstore"
	"github.com/vytor/lingoflash/internal/services"
	"github.com/vytor/lingoflash/internal/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

type APISuite struct {
	suite.Suite
	db      *sqlx.DB
	webhook *httptest.Server
	reply   string
	hits    int
	handler http.Handler
	langID  int64
}

func (s *APISuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.langID = testutil.LanguageID(s.T(), s.db, "en")
	s.hits = 0
	s.reply = `{"output":{"aiFeedback":"Good job","wordAnalysis":[{"wordKey":"red","aiMnemonic":"a red rose","difficultyLevel":0.8}]}}`

	s.webhook = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s.reply))
	}))

	cards := sqlstore.NewFlashcardRepository(s.db)
	langs := sqlstore.NewLanguageRepository(s.db)
	flashcards := services.NewFlashcardService(cards, langs)

	srv := &api.Server{
		Flashcards: flashcards,
		Languages:  services.NewLanguageService(langs),
		Study: services.NewStudyService(
			cards,
			sqlstore.NewStudySessionRepository(s.db),
			sqlstore.NewWordAnalyticsRepository(s.db),
			db.NewTxManager(s.db),
			analysis.NewClient(s.webhook.URL, time.Second),
		),
		Import: services.NewImportService(flashcards),
		DB:     s.db,
	}
	s.handler = srv.Routes()
}

func (s *APISuite) TearDownTest() {
	s.webhook.Close()
	testutil.MustClose(s.T(), s.db)
}

func (s *APISuite) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			s.Require().NoError(json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.serve(req)
}

func (s *APISuite) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (s *APISuite) createFlashcard() string {
	rec, env := s.do(http.MethodPost, "/api/flashcards", map[string]any{
		"title":      "Colors",
		"languageId": s.langID,
		"words": []map[string]string{
			{"front": "red", "back": "kırmızı"},
			{"front": "blue", "back": "mavi"},
			{"front": "green", "back": "yeşil"},
		},
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.Require().True(env.Success)

	var card struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &card))
	return card.ID
}

func (s *APISuite) TestHealthAndReady() {
	rec, env := s.do(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, string(env.Data))
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	rec, _ = s.do(http.MethodGet, "/api/ready", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestLanguages() {
	rec, env := s.do(http.MethodGet, "/api/languages", nil)
	s.Equal(http.StatusOK, rec.Code)

	var langs []struct {
		Code string `json:"code"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &langs))
	s.Len(langs, 3)

	rec, env = s.do(http.MethodGet, "/api/languages/xx", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.False(env.Success)
	s.Equal("NOT_FOUND", env.Code)
}

func (s *APISuite) TestFlashcardCRUD() {
	id := s.createFlashcard()

	rec, env := s.do(http.MethodGet, "/api/flashcards/"+id, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Data), `"title":"Colors"`)
	s.Contains(string(env.Data), `"lastStudiedAt":null`)

	rec, env = s.do(http.MethodPut, "/api/flashcards/"+id, map[string]any{"title": "Renkler"})
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Data), `"title":"Renkler"`)

	rec, env = s.do(http.MethodGet, "/api/flashcards/language/"+jsonInt(s.langID), nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Data), id)

	rec, _ = s.do(http.MethodDelete, "/api/flashcards/"+id, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/flashcards/"+id, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("NOT_FOUND", env.Code)
}

func (s *APISuite) TestCreateFlashcardValidation() {
	rec, env := s.do(http.MethodPost, "/api/flashcards", map[string]any{"title": "", "languageId": s.langID})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.False(env.Success)
	s.Equal("VALIDATION_ERROR", env.Code)

	rec, env = s.do(http.MethodPost, "/api/flashcards", `{"title":`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("BAD_REQUEST", env.Code)
}

func (s *APISuite) TestSaveSession() {
	id := s.createFlashcard()

	rec, env := s.do(http.MethodPost, "/api/flashcards/"+id+"/save-session", map[string]int{
		"knownCount": 2, "unknownCount": 0, "skippedCount": 1,
	})
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(string(env.Data), `"knownCount":2`)
	s.Contains(string(env.Data), `"aiFeedback":null`)
	s.Equal(0, s.hits)

	rec, env = s.do(http.MethodPost, "/api/flashcards/"+id+"/save-session", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", env.Code)

	rec, env = s.do(http.MethodPost, "/api/flashcards/missing/save-session", map[string]int{"knownCount": 1})
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("NOT_FOUND", env.Code)
}

func (s *APISuite) TestAnalyzeSession() {
	id := s.createFlashcard()

	body := map[string]any{
		"knownCount": 2, "unknownCount": 1, "skippedCount": 0,
		"unknownWords": []map[string]string{{"front": "red", "back": "kırmızı"}},
	}
	rec, env := s.do(http.MethodPost, "/api/flashcards/"+id+"/analyze", body)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal(1, s.hits)

	var res struct {
		StudySession struct {
			AIFeedback *string `json:"aiFeedback"`
		} `json:"studySession"`
		AIAnalysis *struct {
			AIFeedback   string            `json:"aiFeedback"`
			WordAnalysis []json.RawMessage `json:"wordAnalysis"`
		} `json:"aiAnalysis"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	s.Require().NotNil(res.AIAnalysis)
	s.Equal("Good job", res.AIAnalysis.AIFeedback)
	s.Len(res.AIAnalysis.WordAnalysis, 1)
	s.Require().NotNil(res.StudySession.AIFeedback)
	s.Equal("Good job", *res.StudySession.AIFeedback)

	rec, env = s.do(http.MethodGet, "/api/flashcards/"+id+"/analytics", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Data), `"wordKey":"red"`)
	s.Contains(string(env.Data), `"wrongCount":1`)
	s.Contains(string(env.Data), `"difficultyBand":"hard"`)
}

func (s *APISuite) TestAnalyzeSessionUnrecognizedReply() {
	id := s.createFlashcard()
	s.reply = `{"randomField":1}`

	rec, env := s.do(http.MethodPost, "/api/flashcards/"+id+"/analyze", map[string]any{
		"unknownCount": 1,
		"unknownWords": []map[string]string{{"front": "red", "back": "kırmızı"}},
	})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Data), `"aiAnalysis":null`)
	s.Contains(string(env.Data), `"aiFeedback":null`)
}

func (s *APISuite) TestAnalyzeResponseKeepsAbsentEntryFields() {
	id := s.createFlashcard()
	s.reply = `{"output":{"aiFeedback":"Almost","wordAnalysis":[{"wordKey":"blue"}]}}`

	rec, env := s.do(http.MethodPost, "/api/flashcards/"+id+"/analyze", map[string]any{
		"unknownCount": 1,
		"unknownWords": []map[string]string{{"front": "blue", "back": "mavi"}},
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		AIAnalysis struct {
			WordAnalysis []map[string]json.RawMessage `json:"wordAnalysis"`
		} `json:"aiAnalysis"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	s.Require().Len(res.AIAnalysis.WordAnalysis, 1)

	entry := res.AIAnalysis.WordAnalysis[0]
	s.Require().Contains(entry, "aiMnemonic")
	s.Require().Contains(entry, "difficultyLevel")
	s.Equal("null", string(entry["aiMnemonic"]))
	s.Equal("null", string(entry["difficultyLevel"]))
}

func (s *APISuite) TestAnalyzeWithoutUnknownWordsSkipsWebhook() {
	id := s.createFlashcard()

	rec, env := s.do(http.MethodPost, "/api/flashcards/"+id+"/analyze", map[string]any{"knownCount": 3, "unknownWords": []any{}})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(0, s.hits)
	s.Contains(string(env.Data), `"aiAnalysis":null`)
}

func (s *APISuite) TestStudyRun() {
	id := s.createFlashcard()

	rec, env := s.do(http.MethodPost, "/api/flashcards/"+id+"/study-run", map[string]any{
		"actions": []map[string]any{{"type": "swipeRight", "index": 0}},
		"finish":  true,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.Contains(string(env.Data), `"knownCount":1`)
	s.Contains(string(env.Data), `"skippedCount":2`)

	rec, env = s.do(http.MethodPost, "/api/flashcards/"+id+"/study-run", map[string]any{
		"actions": []map[string]any{{"type": "swipeRight", "index": 2}},
		"finish":  true,
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", env.Code)

	rec, env = s.do(http.MethodGet, "/api/flashcards/"+id+"/sessions", nil)
	s.Equal(http.StatusOK, rec.Code)
	var sessions []json.RawMessage
	s.Require().NoError(json.Unmarshal(env.Data, &sessions))
	s.Len(sessions, 1)
}

func (s *APISuite) TestImport() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	s.Require().NoError(mw.WriteField("title", "Animals"))
	s.Require().NoError(mw.WriteField("languageId", jsonInt(s.langID)))
	fw, err := mw.CreateFormFile("file", "animals.csv")
	s.Require().NoError(err)
	_, err = fw.Write([]byte("front,back\ncat,kedi\ndog,köpek\n"))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/flashcards/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec, env := s.serve(req)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.Contains(string(env.Data), `"imported":2`)
	s.Contains(string(env.Data), `"front":"cat"`)
}

func (s *APISuite) TestImportWithoutFile() {
	req := httptest.NewRequest(http.MethodPost, "/api/flashcards/import", strings.NewReader("nope"))
	req.Header.Set("Content-Type", "text/plain")

	rec, env := s.serve(req)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.False(env.Success)
}

func (s *APISuite) TestUnknownRoute() {
	rec, env := s.do(http.MethodGet, "/api/nothing-here", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.False(env.Success)
}

func (s *APISuite) TestReadyReportsDatabaseFailure() {
	srv := &api.Server{DB: failingPinger{}}
	req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return context.DeadlineExceeded }

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
