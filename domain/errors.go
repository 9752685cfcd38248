// Package domain holds the error taxonomy shared across layers.
package domain

import "errors"

var (
	// ErrValidation marks a malformed or missing request payload.
	// Reported to the caller as a 4xx, never retried.
	ErrValidation = errors.New("invalid request")

	// ErrResolutionEmpty means neither the menu rules nor the model
	// fallback produced a response.
	ErrResolutionEmpty = errors.New("no response generated")

	// ErrTranscription marks a speech-to-text failure. Reported as a
	// 4xx, distinct from resolution failure.
	ErrTranscription = errors.New("could not transcribe audio")

	// ErrExternalService marks a store, model, or transcription
	// collaborator failure. Logged and converted to a generic failure
	// response at the handler boundary.
	ErrExternalService = errors.New("external service failure")

	// ErrTransientStore marks a menu load/save I/O failure. Callers
	// degrade to empty-menu behavior instead of aborting.
	ErrTransientStore = errors.New("menu store unavailable")
)
