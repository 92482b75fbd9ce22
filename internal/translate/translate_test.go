package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html><head><title>Google Translate</title></head>
<body>
<div class="header">Translate</div>
<div class="result-container"><span class="hps">Hello</span> world<br>second &amp; line</div>
<div class="result-container">ignored</div>
</body></html>`

func TestExtractResult(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		want    string
		wantErr error
	}{
		{
			name: "spans dropped and br becomes newline",
			page: samplePage,
			want: "Hello world\nsecond & line",
		},
		{
			name: "extra classes on container",
			page: `<div class="foo result-container bar">Bonjour</div>`,
			want: "Bonjour",
		},
		{
			name:    "no container",
			page:    `<html><body><div class="other">x</div></body></html>`,
			wantErr: ErrNoTranslation,
		},
		{
			name: "empty container",
			page: `<div class="result-container"></div>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractResult(strings.NewReader(tt.page))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGoogleTranslator_Translate(t *testing.T) {
	var gotQuery map[string][]string
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	tr := NewGoogleTranslator(Options{
		Endpoint:  srv.URL + "/m",
		UserAgent: "wltrans-test",
		Timeout:   5 * time.Second,
	})

	got, err := tr.Translate(context.Background(), "de", "en", "Hallo Welt & mehr?")
	require.NoError(t, err)
	assert.Equal(t, "Hello world\nsecond & line", got)

	assert.Equal(t, []string{"de"}, gotQuery["sl"])
	assert.Equal(t, []string{"en"}, gotQuery["tl"])
	assert.Equal(t, []string{"Hallo Welt & mehr?"}, gotQuery["q"], "text must survive query escaping")
	assert.Equal(t, "wltrans-test", gotUA)
}

func TestGoogleTranslator_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tr := NewGoogleTranslator(Options{Endpoint: srv.URL})
	_, err := tr.Translate(context.Background(), "auto", "en", "x")
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Contains(t, err.Error(), "429")
}

func TestGoogleTranslator_NoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>captcha</body></html>"))
	}))
	defer srv.Close()

	tr := NewGoogleTranslator(Options{Endpoint: srv.URL})
	_, err := tr.Translate(context.Background(), "auto", "en", "x")
	assert.ErrorIs(t, err, ErrNoTranslation)
}

func TestGoogleTranslator_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="result-container"><span></span></div></body></html>`))
	}))
	defer srv.Close()

	tr := NewGoogleTranslator(Options{Endpoint: srv.URL})
	got, err := tr.Translate(context.Background(), "auto", "en", "x")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGoogleTranslator_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := NewGoogleTranslator(Options{Endpoint: srv.URL})
	_, err := tr.Translate(ctx, "auto", "en", "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGoogleTranslator_Defaults(t *testing.T) {
	tr := NewGoogleTranslator(Options{})
	assert.Equal(t, DefaultEndpoint, tr.endpoint)
	assert.NotNil(t, tr.client)
	assert.NotNil(t, tr.logger)

	u, err := tr.requestURL("auto", "en", "a b")
	require.NoError(t, err)
	assert.Equal(t, "https://translate.google.com/m?q=a+b&sl=auto&tl=en", u)
}
