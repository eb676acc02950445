// Package analysis talks to the external AI workflow that comments on a
// finished study session.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
)

const maxResponseBytes = 1 << 20

var (
	// ErrTransport covers network errors, timeouts, non-2xx statuses and unreadable bodies.
	ErrTransport = errors.New("analysis webhook transport failure")
	// ErrUnrecognizedResponse means the body matched none of the known shapes.
	ErrUnrecognizedResponse = errors.New("analysis webhook returned an unrecognized response")
)

// Status classifies how a webhook call ended.
type Status string

const (
	StatusSkipped      Status = "skipped"
	StatusFailed       Status = "failed"
	StatusUnrecognized Status = "unrecognized"
	StatusSucceeded    Status = "succeeded"
)

// Outcome is the result of one analysis attempt. Result is set only when
// Status is StatusSucceeded; Err is set for failed and unrecognized calls.
type Outcome struct {
	Status     Status
	Result     *models.AnalysisResult
	Err        error
	SkipReason string
	HTTPStatus int
	Duration   time.Duration
}

type Results struct {
	KnownCount   int `json:"knownCount"`
	UnknownCount int `json:"unknownCount"`
	SkippedCount int `json:"skippedCount"`
	Total        int `json:"total"`
}

// Payload is the JSON body posted to the webhook.
type Payload struct {
	FlashcardID    string            `json:"flashcardId"`
	FlashcardTitle string            `json:"flashcardTitle"`
	Language       *models.Language  `json:"language"`
	Results        Results           `json:"results"`
	UnknownWords   []models.WordPair `json:"unknownWords"`
	Timestamp      string            `json:"timestamp"`
}

// NewPayload builds the webhook body for a finished session.
func NewPayload(card *models.Flashcard, tallies models.SessionTallies, now time.Time) Payload {
	unknown := tallies.UnknownWords
	if unknown == nil {
		unknown = []models.WordPair{}
	}
	return Payload{
		FlashcardID:    card.ID,
		FlashcardTitle: card.Title,
		Language:       card.Language,
		Results: Results{
			KnownCount:   tallies.KnownCount,
			UnknownCount: tallies.UnknownCount,
			SkippedCount: tallies.SkippedCount,
			Total:        tallies.Total(),
		},
		UnknownWords: unknown,
		Timestamp:    now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

type Client struct {
	httpClient *http.Client
	url        string
	log        *logger.Logger
}

// NewClient returns a webhook client. An empty url disables every call.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		log:        logger.Default().WithPrefix("analysis"),
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *Client) Enabled() bool {
	return c.url != ""
}

// Analyze posts the session to the webhook and normalizes the reply. It
// never returns an error; failures are reported through the Outcome.
func (c *Client) Analyze(ctx context.Context, p Payload) Outcome {
	log := logger.FromContext(ctx).WithPrefix("analysis").WithField("flashcard_id", p.FlashcardID)

	if !c.Enabled() {
		log.Debug("webhook not configured, skipping analysis")
		return Outcome{Status: StatusSkipped, SkipReason: "webhook not configured"}
	}
	if len(p.UnknownWords) == 0 {
		log.Debug("no unknown words, skipping analysis")
		return Outcome{Status: StatusSkipped, SkipReason: "no unknown words"}
	}

	start := time.Now()
	out := c.post(ctx, log, p)
	out.Duration = time.Since(start)

	switch out.Status {
	case StatusSucceeded:
		log.Info("analysis received in %v: %d word entries", out.Duration, len(out.Result.WordAnalysis))
	case StatusUnrecognized:
		log.Warn("analysis response not recognized after %v", out.Duration)
	case StatusFailed:
		log.Error("analysis webhook failed after %v: %v", out.Duration, out.Err)
	}
	return out
}

func (c *Client) post(ctx context.Context, log *logger.Logger, p Payload) Outcome {
	body, err := json.Marshal(p)
	if err != nil {
		return failed(fmt.Errorf("%w: encode payload: %v", ErrTransport, err), 0)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return failed(fmt.Errorf("%w: create request: %v", ErrTransport, err), 0)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug("posting session to webhook: unknown_words=%d", len(p.UnknownWords))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failed(fmt.Errorf("%w: %v", ErrTransport, err), 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return failed(fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, string(snippet)), resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return failed(fmt.Errorf("%w: read body: %v", ErrTransport, err), resp.StatusCode)
	}
	if !json.Valid(raw) {
		return failed(fmt.Errorf("%w: body is not valid JSON", ErrTransport), resp.StatusCode)
	}

	result, shape, ok := normalize(raw)
	if !ok {
		return Outcome{Status: StatusUnrecognized, Err: ErrUnrecognizedResponse, HTTPStatus: resp.StatusCode}
	}
	log.Debug("response matched shape %q", shape)
	return Outcome{Status: StatusSucceeded, Result: result, HTTPStatus: resp.StatusCode}
}

func failed(err error, status int) Outcome {
	return Outcome{Status: StatusFailed, Err: err, HTTPStatus: status}
}
