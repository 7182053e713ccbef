package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
)

// listenJS resolves exactly once with {ok, text} or {ok:false, error}.
// "unsupported" is reserved for the missing-capability case.
const listenJS = `(lang) => new Promise((resolve) => {
	const SR = window.SpeechRecognition || window.webkitSpeechRecognition;
	if (!SR) { resolve({ ok: false, error: "unsupported" }); return; }

	let settled = false;
	const done = (v) => { if (!settled) { settled = true; resolve(v); } };

	const rec = new SR();
	rec.lang = lang;
	rec.interimResults = false;
	rec.maxAlternatives = 1;

	rec.onresult = (ev) => {
		const text = (ev.results && ev.results[0] && ev.results[0][0] &&
			ev.results[0][0].transcript) || "";
		done({ ok: true, text: text });
	};
	rec.onerror = (ev) => done({ ok: false, error: String(ev.error || "unknown") });
	rec.onend = () => done({ ok: false, error: "no speech detected" });

	rec.start();
})`

const speakJS = `(text, lang) => {
	if (!window.speechSynthesis) { return false; }
	speechSynthesis.cancel();
	const u = new SpeechSynthesisUtterance(text);
	u.lang = lang;
	u.rate = 1.0;
	u.pitch = 1.0;
	speechSynthesis.speak(u);
	return true;
}`

// PageSpeech drives the Web Speech API inside the controlled tab. Speech
// always runs on the page, never in the service process — the page is the
// only context with microphone and audio output.
type PageSpeech struct {
	page *rod.Page
}

// NewPageSpeech wraps a rod page.
func NewPageSpeech(p *rod.Page) *PageSpeech {
	return &PageSpeech{page: p}
}

// Listen starts a one-shot recognition on the page and waits for its single
// resolution. Missing capability maps to ErrNoCapability.
func (s *PageSpeech) Listen(ctx context.Context, lang string) (string, error) {
	if lang == "" {
		lang = DefaultRecognitionLang
	}
	res, err := s.page.Context(ctx).Evaluate(rod.Eval(listenJS, lang).ByPromise())
	if err != nil {
		return "", fmt.Errorf("speech: listen: %w", err)
	}

	obj := res.Value
	if obj.Get("ok").Bool() {
		return strings.TrimSpace(obj.Get("text").Str()), nil
	}
	reason := obj.Get("error").Str()
	if reason == "unsupported" {
		return "", ErrNoCapability
	}
	return "", fmt.Errorf("speech: recognition: %s", reason)
}

// Speak utters text on the page, cancelling any in-flight utterance first.
// It does not wait for playback.
func (s *PageSpeech) Speak(ctx context.Context, text, lang string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if lang == "" {
		lang = DefaultSynthesisLang
	}
	res, err := s.page.Context(ctx).Eval(speakJS, text, lang)
	if err != nil {
		return fmt.Errorf("speech: speak: %w", err)
	}
	if !res.Value.Bool() {
		return ErrNoCapability
	}
	return nil
}
