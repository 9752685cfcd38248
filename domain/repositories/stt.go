package repositories

import "context"

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// TranscribeAudio converts audio data to text
	TranscribeAudio(ctx context.Context, audioData []byte, config AudioConfig) (string, error)
}

// AudioConfig represents audio configuration for speech recognition
type AudioConfig struct {
	SampleRate int
	Encoding   string // e.g. "WEBM_OPUS", "LINEAR16", "OGG_OPUS", "FLAC"
	Language   string // e.g. "en-US"
}
