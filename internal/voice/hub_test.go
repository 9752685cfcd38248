package voice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/savoria/tavola/domain/entities"
	"github.com/savoria/tavola/domain/repositories"
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

type fakeModel struct{}

func (f *fakeModel) Ask(ctx context.Context, query string, menuContext string) (string, error) {
	return "model answer", nil
}

type fakeSpeech struct {
	transcript string
}

func (f *fakeSpeech) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	return f.transcript, nil
}

func newTestClient(speech repositories.SpeechToText) *Client {
	logger := zap.NewNop()
	repo := &fakeMenuRepo{items: []entities.MenuItem{
		{Name: "Bruschetta", Description: "Toasted bread", Price: 5.99, Category: "Appetizer"},
	}}
	assistant := usecase.NewAssistantService(repo, &fakeModel{}, speech, logger)
	hub := NewHub(assistant, logger)

	return &Client{
		hub:      hub,
		send:     make(chan []byte, 16),
		clientID: "test-client",
		logger:   logger,
	}
}

func receive(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case payload := <-c.send:
		var msg map[string]interface{}
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("invalid outbound JSON: %v", err)
		}
		return msg
	default:
		t.Fatal("no outbound message")
		return nil
	}
}

func TestProcessTextQuery(t *testing.T) {
	c := newTestClient(&fakeSpeech{})

	c.processMessage([]byte(`{"type":"text_query","query":"what is the price of bruschetta"}`))

	msg := receive(t, c)
	if msg["type"] != string(MessageTypeAssistantResponse) {
		t.Fatalf("expected assistant_response, got %v", msg["type"])
	}
	if msg["response"] != "Bruschetta costs $5.99" {
		t.Errorf("unexpected response %v", msg["response"])
	}
}

func TestProcessTextQueryWithoutQuery(t *testing.T) {
	c := newTestClient(&fakeSpeech{})

	c.processMessage([]byte(`{"type":"text_query"}`))

	msg := receive(t, c)
	if msg["type"] != string(MessageTypeError) {
		t.Errorf("expected error message, got %v", msg)
	}
}

func TestProcessAudioQuery(t *testing.T) {
	c := newTestClient(&fakeSpeech{transcript: "show me the menu"})

	audio := base64.StdEncoding.EncodeToString([]byte("fake-audio"))
	payload, _ := json.Marshal(AudioQueryMessage{
		Type:      MessageTypeAudioQuery,
		AudioData: audio,
	})
	c.processMessage(payload)

	msg := receive(t, c)
	if msg["type"] != string(MessageTypeAssistantResponse) {
		t.Fatalf("expected assistant_response, got %v", msg)
	}
	if msg["transcript"] != "show me the menu" {
		t.Errorf("unexpected transcript %v", msg["transcript"])
	}
}

func TestProcessAudioQueryRejectsBadBase64(t *testing.T) {
	c := newTestClient(&fakeSpeech{})

	c.processMessage([]byte(`{"type":"audio_query","audio_data":"%%%not-base64%%%"}`))

	msg := receive(t, c)
	if msg["type"] != string(MessageTypeError) {
		t.Errorf("expected error message, got %v", msg)
	}
}

func TestProcessUnknownMessageType(t *testing.T) {
	c := newTestClient(&fakeSpeech{})

	c.processMessage([]byte(`{"type":"dance"}`))

	msg := receive(t, c)
	if msg["type"] != string(MessageTypeError) {
		t.Errorf("expected error message, got %v", msg)
	}
}

func TestProcessMalformedJSON(t *testing.T) {
	c := newTestClient(&fakeSpeech{})

	c.processMessage([]byte(`{broken`))

	msg := receive(t, c)
	if msg["type"] != string(MessageTypeError) {
		t.Errorf("expected error message, got %v", msg)
	}
}
