package api

import "time"

// QueryRequest represents the request payload for a text query
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse represents a resolved text query
type QueryResponse struct {
	Response string `json:"response"`
}

// AudioResponse represents a resolved audio query
type AudioResponse struct {
	Transcript string `json:"transcript"`
	Response   string `json:"response"`
}

// VoiceTokenResponse represents the response payload for a voice-channel
// token request
type VoiceTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ClientID  string    `json:"client_id"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
