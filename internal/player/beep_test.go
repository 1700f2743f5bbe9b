package player

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// Все случаи завершаются ошибкой до инициализации динамиков,
// поэтому тестам не нужно звуковое устройство.

func TestBeepBackendHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	backend := NewBeepBackend(BeepOptions{})
	if _, err := backend.Open(context.Background(), server.URL+"/preview.mp3"); err == nil {
		t.Error("Ожидалась ошибка для ответа 404")
	}
}

func TestBeepBackendGarbageStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>this is not an mp3</html>"))
	}))
	defer server.Close()

	backend := NewBeepBackend(BeepOptions{UserAgent: "worship-test"})
	if _, err := backend.Open(context.Background(), server.URL); err == nil {
		t.Error("Ожидалась ошибка декодирования")
	}
}

func TestBeepBackendLocalFiles(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.mp3")
	if err := os.WriteFile(garbage, []byte("not audio"), 0644); err != nil {
		t.Fatal(err)
	}

	backend := NewBeepBackend(BeepOptions{SampleRate: 48000})

	tests := []struct {
		name string
		uri  string
	}{
		{"пустая ссылка", "  "},
		{"нет файла", filepath.Join(dir, "missing.mp3")},
		{"нет файла с file://", "file://" + filepath.Join(dir, "missing.mp3")},
		{"не mp3", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := backend.Open(context.Background(), tt.uri); err == nil {
				t.Errorf("Ожидалась ошибка для %q", tt.uri)
			}
		})
	}
}

func TestEngineWithBeepBackendReportsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	engine := New(NewBeepBackend(BeepOptions{}))
	defer engine.Close()

	_ = engine.Play(trackWith(1, server.URL+"/broken.mp3"))
	waitState(t, engine, StateError)
}
