// Package page executes in-page actions against a live tab: text
// extraction, scrolling, the focus overlay, clickable-element enumeration
// and click dispatch. All DOM work runs as injected JS; this package owns
// the scripts and maps their results back into Go.
package page

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"

	"github.com/hazyhaar/liseuse/match"
	"github.com/hazyhaar/liseuse/snapshot"
)

// OverlayID is the DOM id of the focus overlay element. A fixed id makes
// overlay creation and removal idempotent.
const OverlayID = "liseuse-focus-overlay"

// Candidate is one clickable element found on the page, identified by its
// position in the enumeration order.
type Candidate struct {
	Index int
	Label string
}

// ClickOutcome reports what a click attempt did.
type ClickOutcome struct {
	Clicked bool
	Label   string
	Reason  string
}

// Executor runs page actions against a single tab.
type Executor struct {
	page   *rod.Page
	logger *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// NewExecutor wraps a Rod page.
func NewExecutor(p *rod.Page, opts ...Option) *Executor {
	e := &Executor{page: p, logger: slog.Default()}
	for _, o := range opts {
		o(e)
	}
	return e
}

const extractJS = `() => {
	const root = document.querySelector('article, main') || document.body;
	return root ? root.innerText : '';
}`

// Extract returns the page's readable text: the first article or main
// element's innerText, falling back to the whole body, normalised and
// bounded to snapshot.MaxChars.
func (e *Executor) Extract(ctx context.Context) (string, error) {
	res, err := e.page.Context(ctx).Eval(extractJS)
	if err != nil {
		return "", fmt.Errorf("page: extract: %w", err)
	}
	return snapshot.Truncate(snapshot.Normalize(res.Value.Str()), snapshot.MaxChars), nil
}

const scrollJS = `(dir) => {
	window.scrollBy({ top: dir * window.innerHeight * 0.8, behavior: 'smooth' });
	return true;
}`

// ScrollDown scrolls the viewport down by 80% of its height.
func (e *Executor) ScrollDown(ctx context.Context) error {
	return e.scroll(ctx, 1)
}

// ScrollUp scrolls the viewport up by 80% of its height.
func (e *Executor) ScrollUp(ctx context.Context) error {
	return e.scroll(ctx, -1)
}

func (e *Executor) scroll(ctx context.Context, dir int) error {
	if _, err := e.page.Context(ctx).Eval(scrollJS, dir); err != nil {
		return fmt.Errorf("page: scroll: %w", err)
	}
	return nil
}

const focusOnJS = `(id) => {
	if (document.getElementById(id)) return false;
	const overlay = document.createElement('div');
	overlay.id = id;
	overlay.style.cssText = 'position:fixed;top:0;left:0;width:100vw;height:100vh;' +
		'background:rgba(0,0,0,0.75);z-index:2147483646;pointer-events:none;';
	document.body.appendChild(overlay);
	return true;
}`

const focusOffJS = `(id) => {
	const overlay = document.getElementById(id);
	if (!overlay) return false;
	overlay.remove();
	return true;
}`

// FocusOn installs the dimming overlay. Installing twice leaves a single
// overlay in place. Returns whether the page state changed.
func (e *Executor) FocusOn(ctx context.Context) (bool, error) {
	res, err := e.page.Context(ctx).Eval(focusOnJS, OverlayID)
	if err != nil {
		return false, fmt.Errorf("page: focus on: %w", err)
	}
	return res.Value.Bool(), nil
}

// FocusOff removes the overlay if present. Returns whether the page state
// changed.
func (e *Executor) FocusOff(ctx context.Context) (bool, error) {
	res, err := e.page.Context(ctx).Eval(focusOffJS, OverlayID)
	if err != nil {
		return false, fmt.Errorf("page: focus off: %w", err)
	}
	return res.Value.Bool(), nil
}

const candidatesJS = `() => {
	const els = document.querySelectorAll(
		'a, button, input[type="submit"], input[type="button"], [role="button"]');
	const labels = [];
	for (const el of els) {
		const label = (el.innerText || el.value || el.getAttribute('aria-label') || '').trim();
		labels.push(label);
	}
	return labels;
}`

// clickByIndexJS re-enumerates candidates and clicks els[index] only if its
// label still equals the one the match selected. The DOM can mutate between
// the match Eval and this one, so the index alone cannot be trusted.
const clickByIndexJS = `(index, label) => {
	const els = document.querySelectorAll(
		'a, button, input[type="submit"], input[type="button"], [role="button"]');
	if (index < 0 || index >= els.length) return { ok: false, reason: 'gone' };
	const el = els[index];
	const current = (el.innerText || el.value || el.getAttribute('aria-label') || '').trim();
	if (current !== label) return { ok: false, reason: 'changed' };
	el.scrollIntoView({ block: 'center' });
	el.click();
	return { ok: true };
}`

// Candidates enumerates the clickable elements on the page in document
// order.
func (e *Executor) Candidates(ctx context.Context) ([]Candidate, error) {
	res, err := e.page.Context(ctx).Eval(candidatesJS)
	if err != nil {
		return nil, fmt.Errorf("page: candidates: %w", err)
	}
	arr := res.Value.Arr()
	out := make([]Candidate, 0, len(arr))
	for i, v := range arr {
		out = append(out, Candidate{Index: i, Label: v.Str()})
	}
	return out, nil
}

// ClickByMatch finds the clickable element best matching target and clicks
// it. When no candidate scores above the acceptance threshold, the outcome
// carries the match's reason and nothing is clicked. The click script
// verifies the element at the matched index still carries the matched label
// and refuses to click when the page changed between the two evaluations.
func (e *Executor) ClickByMatch(ctx context.Context, target string) (ClickOutcome, error) {
	cands, err := e.Candidates(ctx)
	if err != nil {
		return ClickOutcome{}, err
	}

	labels := make([]string, len(cands))
	for i, c := range cands {
		labels[i] = c.Label
	}

	best := match.Best(target, labels)
	if !best.Matched {
		return ClickOutcome{Clicked: false, Reason: best.Reason}, nil
	}

	res, err := e.page.Context(ctx).Eval(clickByIndexJS, best.Index, best.Label)
	if err != nil {
		return ClickOutcome{}, fmt.Errorf("page: click: %w", err)
	}

	out := clickResult(res.Value, best.Label)
	if out.Clicked {
		e.logger.Debug("page: clicked",
			"target", target, "label", best.Label, "score", best.Score)
	}
	return out, nil
}

// clickResult maps the click script's verdict onto a ClickOutcome.
func clickResult(v gson.JSON, label string) ClickOutcome {
	if v.Get("ok").Bool() {
		return ClickOutcome{Clicked: true, Label: label}
	}
	if v.Get("reason").Str() == "changed" {
		return ClickOutcome{Label: label, Reason: "page changed before click"}
	}
	return ClickOutcome{Label: label, Reason: "element disappeared before click"}
}
