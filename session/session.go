// Package session is the orchestrator: it owns the per-session state (last
// summary, focus flag, voice consent), turns user input into assistant calls
// or page commands, and converts every failure into a display string at the
// boundary. Nothing here retries; a failed operation reports and stops.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hazyhaar/liseuse/assistant"
	"github.com/hazyhaar/liseuse/command"
	"github.com/hazyhaar/liseuse/idgen"
	"github.com/hazyhaar/liseuse/kit"
	"github.com/hazyhaar/liseuse/page"
	"github.com/hazyhaar/liseuse/prefs"
	"github.com/hazyhaar/liseuse/speech"
)

// Mode selects how free-text input is handled.
type Mode string

const (
	// ModeAsk sends the input as a question with best-effort page context.
	ModeAsk Mode = "ask"
	// ModeCommand interprets the input into a page command and runs it.
	ModeCommand Mode = "command"
)

// ConsentPrompt is shown whenever voice capture is requested without an
// enabled consent. The same prompt covers both the undecided and the
// declined state: capture never proceeds past it.
const ConsentPrompt = "Voice input needs your permission. Enable it in settings, and choose whether to remember that."

// Assistant is the subset of the assistant client the session uses.
type Assistant interface {
	Summarise(ctx context.Context, text string) (*assistant.Summary, error)
	Interpret(ctx context.Context, utterance string) (string, error)
	Ask(ctx context.Context, question, pageText string) (string, error)
}

// Pager is the page-action surface the session dispatches to.
type Pager interface {
	Extract(ctx context.Context) (string, error)
	FocusOn(ctx context.Context) (bool, error)
	FocusOff(ctx context.Context) (bool, error)
	ScrollDown(ctx context.Context) error
	ScrollUp(ctx context.Context) error
	ClickByMatch(ctx context.Context, target string) (page.ClickOutcome, error)
}

// PrefStore persists the voice-consent preference.
type PrefStore interface {
	Voice(ctx context.Context) (prefs.Voice, error)
	SetVoice(ctx context.Context, v prefs.Voice) error
}

// Session holds the mutable state of one assistant session.
type Session struct {
	assistant  Assistant
	pager      Pager
	speaker    speech.Speaker
	recognizer speech.Recognizer
	store      PrefStore
	baseURL    string
	recogLang  string
	synthLang  string
	id         string
	newID      idgen.Generator
	logger     *slog.Logger

	mu           sync.Mutex
	lastSummary  string
	focusOn      bool
	sessionVoice prefs.Voice // session-only consent, overrides the store
}

// Option configures a Session.
type Option func(*Session)

// WithSpeaker sets the text-to-speech backend.
func WithSpeaker(sp speech.Speaker) Option {
	return func(s *Session) { s.speaker = sp }
}

// WithRecognizer sets the speech-to-text backend.
func WithRecognizer(r speech.Recognizer) Option {
	return func(s *Session) { s.recognizer = r }
}

// WithPrefs sets the preference store for durable voice consent.
func WithPrefs(p PrefStore) Option {
	return func(s *Session) { s.store = p }
}

// WithBaseURL records the assistant endpoint for user-facing hints.
func WithBaseURL(u string) Option {
	return func(s *Session) { s.baseURL = u }
}

// WithLangs sets the speech languages. Empty values keep the defaults
// (en-US recognition, en-GB synthesis).
func WithLangs(recognition, synthesis string) Option {
	return func(s *Session) {
		if recognition != "" {
			s.recogLang = recognition
		}
		if synthesis != "" {
			s.synthLang = synthesis
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a Session over an assistant client and a page executor.
func New(a Assistant, p Pager, opts ...Option) *Session {
	s := &Session{
		assistant: a,
		pager:     p,
		baseURL:   assistant.DefaultBaseURL,
		recogLang: speech.DefaultRecognitionLang,
		synthLang: speech.DefaultSynthesisLang,
		newID:     idgen.Prefixed("req_", idgen.NanoID(10)),
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	s.id = idgen.Prefixed("sess_", idgen.UUIDv7())()
	s.logger = s.logger.With("session_id", s.id)
	return s
}

// ID returns this session's unique identifier.
func (s *Session) ID() string { return s.id }

// LastSummary returns the most recently produced summary display string.
func (s *Session) LastSummary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSummary
}

// FocusOn reports whether the session believes focus mode is active.
func (s *Session) FocusOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusOn
}

// Run handles one free-text input in the given mode and returns the display
// string for it. With voice consent enabled the result is also read aloud.
func (s *Session) Run(ctx context.Context, mode Mode, input string) string {
	id := kit.GetRequestID(ctx)
	if id == "" {
		id = s.newID()
		ctx = kit.WithRequestID(ctx, id)
	}
	log := s.logger.With("request_id", id, "mode", mode)

	input = strings.TrimSpace(input)
	if input == "" {
		return "Nothing to do: the request was empty."
	}

	switch mode {
	case ModeCommand:
		interpreted, err := s.assistant.Interpret(ctx, input)
		if err != nil {
			log.Warn("interpret failed", "error", err)
			return s.voiced(ctx, s.displayError(err))
		}
		log.Info("interpreted", "command", interpreted)
		cmd := command.Parse(interpreted)
		result := s.Dispatch(ctx, cmd)
		// Read-aloud of the summary is the dispatch itself; uttering the
		// status line on top would cancel it mid-playback.
		if cmd.Kind != command.ReadSummary {
			s.speakIfEnabled(ctx, result)
		}
		return fmt.Sprintf("Command: %s\n%s", interpreted, result)
	default:
		// Page context is best-effort: an unreadable page still gets an answer.
		pageText, err := s.pager.Extract(ctx)
		if err != nil {
			log.Debug("extract for ask failed", "error", err)
			pageText = ""
		}
		answer, err := s.assistant.Ask(ctx, input, pageText)
		if err != nil {
			log.Warn("ask failed", "error", err)
			return s.voiced(ctx, s.displayError(err))
		}
		if answer == "" {
			return s.voiced(ctx, "No answer returned.")
		}
		return s.voiced(ctx, answer)
	}
}

// voiced speaks text when voice consent is enabled, then returns it.
func (s *Session) voiced(ctx context.Context, text string) string {
	s.speakIfEnabled(ctx, text)
	return text
}

func (s *Session) speakIfEnabled(ctx context.Context, text string) {
	if s.speaker == nil || text == "" {
		return
	}
	if s.effectiveVoice(ctx) != prefs.VoiceEnabled {
		return
	}
	if err := s.speaker.Speak(ctx, text, s.synthLang); err != nil && !errors.Is(err, speech.ErrNoCapability) {
		s.logger.Debug("speak output", "error", err)
	}
}

// Dispatch executes one parsed command and returns its display string.
func (s *Session) Dispatch(ctx context.Context, cmd command.Command) string {
	switch cmd.Kind {
	case command.Summarise:
		return s.Summarise(ctx)
	case command.ReadSummary:
		return s.ReadSummary(ctx)
	case command.ExtractText:
		return s.ExtractText(ctx)
	case command.FocusOn:
		if _, err := s.pager.FocusOn(ctx); err != nil {
			return fmt.Sprintf("Focus mode failed: %v", err)
		}
		s.setFocus(true)
		return "Focus mode on."
	case command.FocusOff:
		if _, err := s.pager.FocusOff(ctx); err != nil {
			return fmt.Sprintf("Focus mode failed: %v", err)
		}
		s.setFocus(false)
		return "Focus mode off."
	case command.ScrollDown:
		if err := s.pager.ScrollDown(ctx); err != nil {
			return fmt.Sprintf("Scroll failed: %v", err)
		}
		return "Scrolled down."
	case command.ScrollUp:
		if err := s.pager.ScrollUp(ctx); err != nil {
			return fmt.Sprintf("Scroll failed: %v", err)
		}
		return "Scrolled up."
	case command.Click:
		return s.click(ctx, cmd.Target)
	default:
		return fmt.Sprintf("Unrecognised command: %q. %s", cmd.Raw, command.UsageHint)
	}
}

// Summarise extracts the page text, asks the assistant for a summary, and
// caches the formatted result as the last summary. The cache is only
// updated on success: a failed call leaves the previous summary readable.
func (s *Session) Summarise(ctx context.Context) string {
	text, err := s.pager.Extract(ctx)
	if err != nil {
		return fmt.Sprintf("Could not read the page: %v", err)
	}
	if text == "" {
		return "Nothing to summarise: the page has no readable text."
	}

	sum, err := s.assistant.Summarise(ctx, text)
	if err != nil {
		return s.displayError(err)
	}

	display := FormatSummary(sum)
	s.mu.Lock()
	s.lastSummary = display
	s.mu.Unlock()
	return display
}

// ReadSummary reads the cached summary aloud.
func (s *Session) ReadSummary(ctx context.Context) string {
	s.mu.Lock()
	last := s.lastSummary
	s.mu.Unlock()

	if last == "" {
		return "No summary yet. Run summarise first."
	}
	if s.speaker == nil {
		return "Text-to-speech is not available."
	}
	if err := s.speaker.Speak(ctx, last, s.synthLang); err != nil {
		if errors.Is(err, speech.ErrNoCapability) {
			return "Text-to-speech is not available on this page."
		}
		return fmt.Sprintf("Read-aloud failed: %v", err)
	}
	return "Reading the summary aloud."
}

// ExtractText extracts and returns the page's readable text for display.
func (s *Session) ExtractText(ctx context.Context) string {
	text, err := s.pager.Extract(ctx)
	if err != nil {
		return fmt.Sprintf("Could not read the page: %v", err)
	}
	if text == "" {
		return "No readable text found on this page."
	}
	return text
}

func (s *Session) click(ctx context.Context, target string) string {
	if target == "" {
		return "Click failed: missing target"
	}
	out, err := s.pager.ClickByMatch(ctx, target)
	if err != nil {
		return fmt.Sprintf("Click failed: %v", err)
	}
	if !out.Clicked {
		return fmt.Sprintf("Click failed: %s", out.Reason)
	}
	return fmt.Sprintf("Clicked: %s", out.Label)
}

// CaptureVoice gates on the consent preference, captures one utterance, and
// feeds it through Run in the given mode. Without an enabled consent the
// speech service is never invoked.
func (s *Session) CaptureVoice(ctx context.Context, mode Mode) string {
	if s.effectiveVoice(ctx) != prefs.VoiceEnabled {
		return ConsentPrompt
	}
	if s.recognizer == nil {
		return "Speech recognition is not available."
	}

	text, err := s.recognizer.Listen(ctx, s.recogLang)
	if err != nil {
		if errors.Is(err, speech.ErrNoCapability) {
			return "Speech recognition is not available on this page."
		}
		return fmt.Sprintf("Voice capture failed: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		return "Heard nothing."
	}
	return s.Run(ctx, mode, text)
}

// Consent records the user's voice decision. It always takes effect for the
// rest of this session; with remember it is also persisted.
func (s *Session) Consent(ctx context.Context, enabled, remember bool) error {
	v := prefs.VoiceDisabled
	if enabled {
		v = prefs.VoiceEnabled
	}

	s.mu.Lock()
	s.sessionVoice = v
	s.mu.Unlock()

	if remember && s.store != nil {
		if err := s.store.SetVoice(ctx, v); err != nil {
			return fmt.Errorf("session: persist consent: %w", err)
		}
	}
	return nil
}

// effectiveVoice returns the session override when decided, otherwise the
// persisted preference. Read failures count as unset: no consent, no listen.
func (s *Session) effectiveVoice(ctx context.Context) prefs.Voice {
	s.mu.Lock()
	v := s.sessionVoice
	s.mu.Unlock()
	if v != prefs.VoiceUnset {
		return v
	}
	if s.store == nil {
		return prefs.VoiceUnset
	}
	stored, err := s.store.Voice(ctx)
	if err != nil {
		s.logger.Warn("session: read voice preference", "error", err)
		return prefs.VoiceUnset
	}
	return stored
}

func (s *Session) setFocus(on bool) {
	s.mu.Lock()
	s.focusOn = on
	s.mu.Unlock()
}

// displayError turns an assistant failure into the user-facing message. A
// transport failure names the endpoint; an HTTP failure names the status.
func (s *Session) displayError(err error) string {
	var se *assistant.ServerError
	if errors.As(err, &se) {
		if se.StatusCode != 0 {
			return fmt.Sprintf("Assistant error: status %d. Check the assistant service at %s.",
				se.StatusCode, s.baseURL)
		}
		return fmt.Sprintf("Assistant server unreachable at %s. Is it running?", s.baseURL)
	}
	return fmt.Sprintf("Assistant request failed: %v", err)
}

// FormatSummary renders a structured summary for display: the TLDR, then
// one bulleted line per key point, then a comma-joined key-actions line.
// An empty structure falls back to the raw text.
func FormatSummary(sum *assistant.Summary) string {
	var b strings.Builder
	if sum.TLDR != "" {
		b.WriteString(sum.TLDR)
		b.WriteString("\n")
	}
	for _, bullet := range sum.Bullets {
		b.WriteString("• ")
		b.WriteString(bullet)
		b.WriteString("\n")
	}
	if len(sum.KeyActions) > 0 {
		b.WriteString("Key actions: ")
		b.WriteString(strings.Join(sum.KeyActions, ", "))
	}
	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return sum.Raw
	}
	return out
}
