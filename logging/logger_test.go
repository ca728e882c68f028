package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []Entry {
	t.Helper()
	var entries []Entry
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("decode entry %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New("server", INFO, &buf)

	logger.Info("contact", "relay accepted", map[string]any{"id": "abc"})
	logger.Debug("contact", "dropped", nil)
	logger.Error("contact", "relay failed", errors.New("boom"), nil)

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (debug filtered), got %d", len(entries))
	}
	if entries[0].Component != "server" || entries[0].Category != "contact" || entries[0].Level != "INFO" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].Fields["id"] != "abc" {
		t.Fatalf("expected fields to round trip, got %+v", entries[0].Fields)
	}
	if entries[1].Error != "boom" || entries[1].Level != "ERROR" {
		t.Fatalf("unexpected error entry: %+v", entries[1])
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Info("general", "ignored", nil)
	logger.Error("general", "ignored", nil, nil)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		" WARN ":  WARN,
		"warning": WARN,
		"error":   ERROR,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSubscribeReceivesEntries(t *testing.T) {
	logger := New("server", INFO, &bytes.Buffer{})
	ch := make(chan Entry, 1)
	unsubscribe := logger.Subscribe(ch)

	logger.Warn("general", "watch out", nil)
	select {
	case entry := <-ch:
		if entry.Message != "watch out" {
			t.Fatalf("unexpected entry %+v", entry)
		}
	default:
		t.Fatalf("expected subscriber to receive entry")
	}

	unsubscribe()
	logger.Warn("general", "after unsubscribe", nil)
	if len(ch) != 0 {
		t.Fatalf("expected no entries after unsubscribe")
	}
}

func TestLogContextCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New("server", INFO, &buf)
	logger.WithRequestID("req-1").WithCategory("contact").WithField("status", 502).Error("relay failed", errors.New("bad gateway"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].RequestID != "req-1" || entries[0].Category != "contact" || entries[0].Error != "bad gateway" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestHTTPMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New("server", INFO, &buf)

	var seen string
	handler := NewHTTPLogger(logger, 0).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"email":"me@example.com"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	id := rec.Header().Get(RequestIDHeader)
	if id == "" || id != seen {
		t.Fatalf("expected request id header %q to match context %q", id, seen)
	}

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != "ERROR" || entry.RequestID != id {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if strings.Contains(buf.String(), "me@example.com") {
		t.Fatalf("request body must not be logged")
	}
	if strings.Contains(buf.String(), "Bearer secret") {
		t.Fatalf("sensitive headers must not be logged")
	}
}

func TestFileWriterRotatesAndCompresses(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWriter(FileOptions{Dir: dir, Filename: "app.log", MaxSizeMB: 1, MaxFiles: 1})
	if err != nil {
		t.Fatalf("new file writer: %v", err)
	}
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fw.now = func() time.Time { return clock }

	if _, err := fw.Write([]byte("first\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	for i := 0; i < 2; i++ {
		clock = clock.Add(25 * time.Hour)
		if _, err := fw.Write([]byte("next\n")); err != nil {
			t.Fatalf("write after rotation: %v", err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	gz, _ := filepath.Glob(filepath.Join(dir, "app.log.*.gz"))
	if len(gz) != 1 {
		t.Fatalf("expected exactly one retained archive, got %v", gz)
	}
	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("read active log: %v", err)
	}
	if string(data) != "next\n" {
		t.Fatalf("expected active log to hold the latest write, got %q", data)
	}
}
