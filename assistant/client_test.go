package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSummarise(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summarise" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "page text" {
			t.Errorf("unexpected request body: %v", body)
		}
		json.NewEncoder(w).Encode(Summary{
			TLDR:       "short",
			Bullets:    []string{"a", "b"},
			KeyActions: []string{"login"},
			Raw:        "raw output",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	sum, err := c.Summarise(context.Background(), "page text")
	if err != nil {
		t.Fatal(err)
	}
	if sum.TLDR != "short" || len(sum.Bullets) != 2 || sum.KeyActions[0] != "login" {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestInterpret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["request"] != "scrolll downn" {
			t.Errorf("unexpected body: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"command": " scroll down\n"})
	}))
	defer srv.Close()

	cmd, err := New(srv.URL).Interpret(context.Background(), "scrolll downn")
	if err != nil {
		t.Fatal(err)
	}
	if cmd != "scroll down" {
		t.Fatalf("got %q", cmd)
	}
}

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["input"] != "what is this page" || body["page_text"] != "ctx" {
			t.Errorf("unexpected body: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "An example."})
	}))
	defer srv.Close()

	ans, err := New(srv.URL).Ask(context.Background(), "what is this page", "ctx")
	if err != nil {
		t.Fatal(err)
	}
	if ans != "An example." {
		t.Fatalf("got %q", ans)
	}
}

func TestServerError_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream model exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Summarise(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServerError, got %T", err)
	}
	if se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", se.StatusCode)
	}
	if !strings.Contains(se.Body, "exploded") {
		t.Fatalf("diagnostic body lost: %q", se.Body)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("error text must name the status: %q", err.Error())
	}
}

func TestServerError_Unreachable(t *testing.T) {
	// Port 1 is essentially guaranteed closed.
	_, err := New("http://127.0.0.1:1").Interpret(context.Background(), "x")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServerError, got %T", err)
	}
	if se.StatusCode != 0 || se.Err == nil {
		t.Fatalf("transport failure must have no status: %+v", se)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer srv.Close()

	if err := New(srv.URL).Health(context.Background()); err != nil {
		t.Fatal(err)
	}
}
