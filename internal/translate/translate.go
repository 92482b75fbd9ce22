// Package translate fetches translations from a web translation service.
package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultEndpoint is the mobile Google Translate page.
const DefaultEndpoint = "https://translate.google.com/m"

// maxPageSize bounds how much of a response page is read.
const maxPageSize = 4 << 20

// ErrNoTranslation is returned when the response page has no result container.
var ErrNoTranslation = errors.New("no translation found in page")

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("translation request failed: %s", e.Status)
}

// Translator translates text between two languages.
type Translator interface {
	Translate(ctx context.Context, from, to, text string) (string, error)
}

// Options configures a GoogleTranslator.
type Options struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
	Logger    *slog.Logger
}

// GoogleTranslator scrapes the result from the Google Translate mobile page.
type GoogleTranslator struct {
	endpoint  string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

// NewGoogleTranslator creates a translator from opts, filling in defaults.
func NewGoogleTranslator(opts Options) *GoogleTranslator {
	t := &GoogleTranslator{
		endpoint:  opts.Endpoint,
		userAgent: opts.UserAgent,
		client:    opts.Client,
		logger:    opts.Logger,
	}
	if t.endpoint == "" {
		t.endpoint = DefaultEndpoint
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: opts.Timeout}
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// Translate implements Translator.
func (t *GoogleTranslator) Translate(ctx context.Context, from, to, text string) (string, error) {
	reqURL, err := t.requestURL(from, to, text)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	t.logger.Debug("requesting translation", "from", from, "to", to, "chars", len(text))

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request translation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageSize))
		return "", &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	result, err := ExtractResult(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", err
	}
	return result, nil
}

func (t *GoogleTranslator) requestURL(from, to, text string) (string, error) {
	u, err := url.Parse(t.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", t.endpoint, err)
	}
	q := u.Query()
	q.Set("sl", from)
	q.Set("tl", to)
	q.Set("q", text)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
