package voice

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeTextQuery         MessageType = "text_query"
	MessageTypeAudioQuery        MessageType = "audio_query"
	MessageTypeAssistantResponse MessageType = "assistant_response"
	MessageTypeError             MessageType = "error"
)

// TextQueryMessage is a free-text question from a connected client.
type TextQueryMessage struct {
	Type  MessageType `json:"type"`
	Query string      `json:"query"`
}

// AudioQueryMessage carries a complete recording to transcribe and
// resolve.
type AudioQueryMessage struct {
	Type       MessageType `json:"type"`
	AudioData  string      `json:"audio_data"` // base64 encoded
	Encoding   string      `json:"encoding"`
	SampleRate int         `json:"sample_rate"`
}

// AssistantResponseMessage is the resolved answer sent back to the
// client. Transcript is set only for audio queries.
type AssistantResponseMessage struct {
	Type       MessageType `json:"type"`
	Transcript string      `json:"transcript,omitempty"`
	Response   string      `json:"response"`
}

// ErrorMessage reports a per-message failure without closing the
// connection.
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}
