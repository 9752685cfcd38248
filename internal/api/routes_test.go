package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/savoria/tavola/domain/entities"
	"github.com/savoria/tavola/domain/repositories"
	"github.com/savoria/tavola/internal/auth"
	"github.com/savoria/tavola/internal/voice"
	"github.com/savoria/tavola/usecase"
)

type fakeMenuRepo struct {
	items []entities.MenuItem
}

func (f *fakeMenuRepo) List(ctx context.Context) ([]entities.MenuItem, error) { return f.items, nil }
func (f *fakeMenuRepo) Seed(ctx context.Context, items []entities.MenuItem) error {
	f.items = items
	return nil
}

type fakeModel struct {
	response string
	err      error
}

func (f *fakeModel) Ask(ctx context.Context, query string, menuContext string) (string, error) {
	return f.response, f.err
}

type fakeSpeech struct {
	transcript string
	err        error
}

func (f *fakeSpeech) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	return f.transcript, f.err
}

func newTestServer(model *fakeModel, speech *fakeSpeech) *echo.Echo {
	logger := zap.NewNop()
	repo := &fakeMenuRepo{items: []entities.MenuItem{
		{Name: "Bruschetta", Description: "Toasted bread", Price: 5.99, Category: "Appetizer"},
		{Name: "BBQ Ribs", Description: "Slow-cooked ribs", Price: 24.00, Category: "Main Course"},
	}}
	assistant := usecase.NewAssistantService(repo, model, speech, logger)
	hub := voice.NewHub(assistant, logger)

	e := echo.New()
	InitRoutes(e, assistant, hub, logger)
	return e
}

func postJSON(e *echo.Echo, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(&fakeModel{}, &fakeSpeech{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestQueryEndpoint(t *testing.T) {
	e := newTestServer(&fakeModel{}, &fakeSpeech{})

	rec := postJSON(e, "/api/query", `{"query":"show me the menu"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if !strings.HasPrefix(resp.Response, "Here is our menu:") {
		t.Errorf("unexpected response %q", resp.Response)
	}
}

func TestQueryEndpointRejectsMissingQuery(t *testing.T) {
	e := newTestServer(&fakeModel{}, &fakeSpeech{})

	for _, body := range []string{``, `{}`, `{"query":"  "}`, `not json`} {
		rec := postJSON(e, "/api/query", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestQueryEndpointResolutionFailure(t *testing.T) {
	e := newTestServer(&fakeModel{err: errors.New("quota exceeded")}, &fakeSpeech{})

	rec := postJSON(e, "/api/query", `{"query":"tell me about your chef"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Error != "no response generated" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}

func postAudio(e *echo.Echo, filename string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("audio", filename)
	part.Write([]byte("fake-audio-bytes"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/audio", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAudioEndpoint(t *testing.T) {
	speech := &fakeSpeech{transcript: "what is the cost of bruschetta"}
	e := newTestServer(&fakeModel{}, speech)

	rec := postAudio(e, "recording.webm")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AudioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Transcript != "what is the cost of bruschetta" {
		t.Errorf("unexpected transcript %q", resp.Transcript)
	}
	if resp.Response != "Bruschetta costs $5.99" {
		t.Errorf("unexpected response %q", resp.Response)
	}
}

func TestAudioEndpointWithoutFile(t *testing.T) {
	e := newTestServer(&fakeModel{}, &fakeSpeech{})

	req := httptest.NewRequest(http.MethodPost, "/api/audio", strings.NewReader(""))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAudioEndpointTranscriptionFailure(t *testing.T) {
	speech := &fakeSpeech{err: errors.New("no speech detected in audio")}
	e := newTestServer(&fakeModel{}, speech)

	rec := postAudio(e, "recording.webm")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Error != "could not transcribe audio" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}

func TestWelcomeEndpoint(t *testing.T) {
	e := newTestServer(&fakeModel{response: "Welcome to Tavola!"}, &fakeSpeech{})

	req := httptest.NewRequest(http.MethodGet, "/api/welcome", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Response != "Welcome to Tavola!" {
		t.Errorf("unexpected response %q", resp.Response)
	}
}

func TestVoiceTokenEndpoint(t *testing.T) {
	e := newTestServer(&fakeModel{}, &fakeSpeech{})

	rec := postJSON(e, "/api/voice/token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp VoiceTokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	claims, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.ClientID != resp.ClientID {
		t.Errorf("token client ID %q does not match response %q", claims.ClientID, resp.ClientID)
	}
}

func TestWebSocketRequiresToken(t *testing.T) {
	e := newTestServer(&fakeModel{}, &fakeSpeech{})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAudioConfigFor(t *testing.T) {
	cases := []struct {
		filename   string
		sampleRate string
		encoding   string
		rate       int
	}{
		{"clip.webm", "", "WEBM_OPUS", 48000},
		{"clip.wav", "", "LINEAR16", 16000},
		{"clip.ogg", "", "OGG_OPUS", 48000},
		{"clip.flac", "", "FLAC", 16000},
		{"clip.webm", "44100", "WEBM_OPUS", 44100},
		{"unknown.bin", "", "WEBM_OPUS", 48000},
	}

	for _, tc := range cases {
		config := audioConfigFor(tc.filename, tc.sampleRate)
		if config.Encoding != tc.encoding {
			t.Errorf("%s: expected encoding %s, got %s", tc.filename, tc.encoding, config.Encoding)
		}
		if config.SampleRate != tc.rate {
			t.Errorf("%s: expected sample rate %d, got %d", tc.filename, tc.rate, config.SampleRate)
		}
	}
}
