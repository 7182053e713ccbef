// Package speech wraps the speech services of the controlled page as two
// independent asynchronous operations: a one-shot recognizer and a
// fire-and-forget speaker. Both are interfaces so the session can be tested
// without a browser; the rod-backed implementation lives in pagespeech.go.
package speech

import (
	"context"
	"errors"
)

// Default languages, matching the original interaction design: commands are
// recognised in US English, summaries are read back in British English.
const (
	DefaultRecognitionLang = "en-US"
	DefaultSynthesisLang   = "en-GB"
)

// ErrNoCapability means the execution context has no speech engine at all
// (e.g. headless Chrome without speech recognition). It is a normal
// negative outcome, distinct from a recognition error.
var ErrNoCapability = errors.New("speech: not supported in this context")

// Recognizer captures a single utterance. Listen resolves exactly once:
// with the recognised text, with ErrNoCapability, or with a recognition
// error. It is a one-shot listen, not a continuous stream.
type Recognizer interface {
	Listen(ctx context.Context, lang string) (string, error)
}

// Speaker reads text aloud. Speak cancels any in-flight utterance before
// starting the new one and returns without waiting for playback to finish.
type Speaker interface {
	Speak(ctx context.Context, text, lang string) error
}
