// Entry point for the liseuse service: a local HTTP (and optional MCP)
// surface over a Chrome tab, wiring the assistant client, the page
// executor, the speech adapter, and the preference store into one session.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/liseuse/assistant"
	"github.com/hazyhaar/liseuse/browser"
	"github.com/hazyhaar/liseuse/config"
	"github.com/hazyhaar/liseuse/dbopen"
	"github.com/hazyhaar/liseuse/fetch"
	"github.com/hazyhaar/liseuse/idgen"
	"github.com/hazyhaar/liseuse/kit"
	"github.com/hazyhaar/liseuse/page"
	"github.com/hazyhaar/liseuse/prefs"
	"github.com/hazyhaar/liseuse/session"
	"github.com/hazyhaar/liseuse/snapshot"
	"github.com/hazyhaar/liseuse/speech"
)

func main() {
	configPath := env("CONFIG", "")
	logLevel := env("LOG_LEVEL", "info")
	mcpTransport := env("MCP_TRANSPORT", "")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	// Env overrides for deployment-variable settings.
	cfg.Listen = env("LISTEN", cfg.Listen)
	cfg.DBPath = env("DB_PATH", cfg.DBPath)
	cfg.Assistant.BaseURL = env("ASSISTANT_URL", cfg.Assistant.BaseURL)
	cfg.Browser.Remote = env("BROWSER_REMOTE", cfg.Browser.Remote)
	cfg.Browser.StartURL = env("START_URL", cfg.Browser.StartURL)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Preferences DB.
	db, err := dbopen.Open(cfg.DBPath, dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := prefs.Open(db)
	if err != nil {
		slog.Error("prefs", "error", err)
		os.Exit(1)
	}

	// Browser.
	mgr := browser.NewManager(browser.Config{
		RemoteURL: cfg.Browser.Remote,
		Headless:  cfg.Browser.Headless,
		Logger:    logger,
	})
	if _, err := mgr.Start(ctx); err != nil {
		slog.Error("browser start", "error", err)
		os.Exit(1)
	}
	defer mgr.Close()

	// Current tab holder: the session always acts on the most recently
	// opened tab.
	t := &tab{logger: logger}
	if cfg.Browser.StartURL != "" {
		if err := t.navigate(ctx, mgr, cfg.Browser.StartURL); err != nil {
			slog.Error("open start tab", "url", cfg.Browser.StartURL, "error", err)
			os.Exit(1)
		}
	}

	// Assistant client.
	client := assistant.New(cfg.Assistant.BaseURL,
		assistant.WithHTTPClient(&http.Client{Timeout: cfg.Assistant.Timeout}),
		assistant.WithLogger(logger))

	// Session.
	sess := session.New(client, t,
		session.WithSpeaker(t),
		session.WithRecognizer(t),
		session.WithPrefs(store),
		session.WithBaseURL(client.BaseURL()),
		session.WithLangs(cfg.Speech.RecognitionLang, cfg.Speech.SynthesisLang),
		session.WithLogger(logger))

	// Reader fetcher.
	fetcher := fetch.New(fetch.WithLogger(logger))

	// Optional MCP over stdio.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "liseuse",
			Version: "1.0.0",
		}, nil)
		sess.RegisterMCP(mcpSrv)
		fetcher.RegisterMCP(mcpSrv)

		go func() {
			slog.Info("MCP stdio starting")
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	// Router.
	r := chi.NewRouter()

	// Tag every request with a correlation ID; the session reuses it in
	// its logs.
	reqIDs := idgen.Prefixed("req_", idgen.NanoID(10))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(kit.WithRequestID(req.Context(), reqIDs())))
		})
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		assistantOK := client.Health(req.Context()) == nil
		writeData(w, 200, map[string]any{
			"status":       "ok",
			"assistant":    assistantOK,
			"tab_attached": t.attached(),
		})
	})

	r.Post("/api/navigate", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, 400, err)
			return
		}
		if err := t.navigate(req.Context(), mgr, body.URL); err != nil {
			writeError(w, 400, err)
			return
		}
		writeData(w, 200, map[string]string{"url": body.URL})
	})

	r.Post("/api/run", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Input string `json:"input"`
			Mode  string `json:"mode"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, 400, err)
			return
		}
		mode := session.ModeAsk
		if body.Mode == string(session.ModeCommand) {
			mode = session.ModeCommand
		}
		writeDisplay(w, sess.Run(req.Context(), mode, body.Input))
	})

	r.Post("/api/summarise", func(w http.ResponseWriter, req *http.Request) {
		writeDisplay(w, sess.Summarise(req.Context()))
	})

	r.Post("/api/read-summary", func(w http.ResponseWriter, req *http.Request) {
		writeDisplay(w, sess.ReadSummary(req.Context()))
	})

	r.Post("/api/extract", func(w http.ResponseWriter, req *http.Request) {
		writeDisplay(w, sess.ExtractText(req.Context()))
	})

	r.Post("/api/voice", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Mode string `json:"mode"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, 400, err)
			return
		}
		mode := session.ModeAsk
		if body.Mode == string(session.ModeCommand) {
			mode = session.ModeCommand
		}
		writeDisplay(w, sess.CaptureVoice(req.Context(), mode))
	})

	r.Post("/api/consent", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Enabled  bool `json:"enabled"`
			Remember bool `json:"remember"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, 400, err)
			return
		}
		if err := sess.Consent(req.Context(), body.Enabled, body.Remember); err != nil {
			writeError(w, 500, err)
			return
		}
		writeData(w, 200, map[string]bool{"enabled": body.Enabled, "remembered": body.Remember})
	})

	r.Get("/api/prefs/voice", func(w http.ResponseWriter, req *http.Request) {
		v, err := store.Voice(req.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeData(w, 200, map[string]string{"voice": string(v)})
	})

	r.Get("/api/reader", func(w http.ResponseWriter, req *http.Request) {
		pageURL := req.URL.Query().Get("url")
		if pageURL == "" {
			writeError(w, 400, fmt.Errorf("url query parameter required"))
			return
		}
		res, err := fetcher.Fetch(req.Context(), pageURL)
		if err != nil {
			writeError(w, 400, err)
			return
		}
		writeData(w, 200, map[string]string{
			"url":      res.URL,
			"markdown": snapshot.Markdown(string(res.HTML), res.URL),
		})
	})

	// HTTP server.
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Listen, "assistant", cfg.Assistant.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// errNoTab is returned by every page operation until a tab is attached.
var errNoTab = errors.New("no tab attached; POST /api/navigate first")

// tab holds the current tab's executor and speech adapter. Navigation swaps
// both atomically so in-flight operations keep their old page handle.
type tab struct {
	mu     sync.RWMutex
	exec   *page.Executor
	sp     *speech.PageSpeech
	logger *slog.Logger
}

func (t *tab) navigate(ctx context.Context, mgr *browser.Manager, url string) error {
	p, err := mgr.OpenTab(ctx, url)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.exec = page.NewExecutor(p, page.WithLogger(t.logger))
	t.sp = speech.NewPageSpeech(p)
	t.mu.Unlock()
	return nil
}

func (t *tab) attached() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.exec != nil
}

func (t *tab) executor() (*page.Executor, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.exec == nil {
		return nil, errNoTab
	}
	return t.exec, nil
}

func (t *tab) Extract(ctx context.Context) (string, error) {
	e, err := t.executor()
	if err != nil {
		return "", err
	}
	return e.Extract(ctx)
}

func (t *tab) FocusOn(ctx context.Context) (bool, error) {
	e, err := t.executor()
	if err != nil {
		return false, err
	}
	return e.FocusOn(ctx)
}

func (t *tab) FocusOff(ctx context.Context) (bool, error) {
	e, err := t.executor()
	if err != nil {
		return false, err
	}
	return e.FocusOff(ctx)
}

func (t *tab) ScrollDown(ctx context.Context) error {
	e, err := t.executor()
	if err != nil {
		return err
	}
	return e.ScrollDown(ctx)
}

func (t *tab) ScrollUp(ctx context.Context) error {
	e, err := t.executor()
	if err != nil {
		return err
	}
	return e.ScrollUp(ctx)
}

func (t *tab) ClickByMatch(ctx context.Context, target string) (page.ClickOutcome, error) {
	e, err := t.executor()
	if err != nil {
		return page.ClickOutcome{}, err
	}
	return e.ClickByMatch(ctx, target)
}

func (t *tab) Listen(ctx context.Context, lang string) (string, error) {
	t.mu.RLock()
	sp := t.sp
	t.mu.RUnlock()
	if sp == nil {
		return "", errNoTab
	}
	return sp.Listen(ctx, lang)
}

func (t *tab) Speak(ctx context.Context, text, lang string) error {
	t.mu.RLock()
	sp := t.sp
	t.mu.RUnlock()
	if sp == nil {
		return errNoTab
	}
	return sp.Speak(ctx, text, lang)
}

// --- Helpers ---

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, v any) {
	writeJSON(w, code, map[string]any{"ok": true, "data": v})
}

func writeDisplay(w http.ResponseWriter, display string) {
	writeData(w, 200, map[string]string{"display": display})
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"ok": false, "error": err.Error()})
}
