package uploader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// memoryStorage хранилище в памяти
type memoryStorage struct {
	objects     map[string][]byte
	uploadErr   error
	downloadErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) UploadFile(ctx context.Context, reader io.Reader, key string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.objects[key] = body
	return "https://s3.example.com/bucket/" + key, nil
}

func (m *memoryStorage) DownloadFile(ctx context.Context, key string, w io.Writer) (int64, error) {
	if m.downloadErr != nil {
		return 0, m.downloadErr
	}
	body, ok := m.objects[key]
	if !ok {
		return 0, errors.New("NoSuchKey")
	}
	n, err := w.Write(body)
	return int64(n), err
}

func writeLibrary(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка создания тестового файла: %v", err)
	}
	return path
}

func TestBackup(t *testing.T) {
	storage := newMemoryStorage()
	service := NewService(storage, "/worship/library/")
	path := writeLibrary(t, "library.yaml", "entries: []\n")

	var progress []int64
	result, err := service.Backup(context.Background(), path, func(n int64) {
		progress = append(progress, n)
	})
	if err != nil {
		t.Fatalf("Ошибка резервного копирования: %v", err)
	}

	if result.Key != "worship/library.yaml" {
		t.Errorf("Ожидался ключ worship/library.yaml, получено %s", result.Key)
	}
	if result.URL != "https://s3.example.com/bucket/worship/library.yaml" {
		t.Errorf("Неверный URL: %s", result.URL)
	}
	if result.Size != int64(len("entries: []\n")) {
		t.Errorf("Неверный размер: %d", result.Size)
	}
	if string(storage.objects["worship/library.yaml"]) != "entries: []\n" {
		t.Errorf("Неверное содержимое копии: %q", storage.objects["worship/library.yaml"])
	}
	if len(progress) == 0 || progress[len(progress)-1] != result.Size {
		t.Errorf("Прогресс должен дойти до размера файла: %v", progress)
	}
}

func TestBackupErrorHandling(t *testing.T) {
	t.Run("нет файла", func(t *testing.T) {
		service := NewService(newMemoryStorage(), "library")
		_, err := service.Backup(context.Background(), "/non/existent/library.yaml", nil)
		if !errors.Is(err, ErrLibraryNotFound) {
			t.Errorf("Ожидалась ErrLibraryNotFound, получено %v", err)
		}
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		storage := newMemoryStorage()
		storage.uploadErr = errors.New("access denied")
		service := NewService(storage, "library")

		_, err := service.Backup(context.Background(), writeLibrary(t, "library.db", "sqlite"), nil)
		if err == nil || !strings.Contains(err.Error(), "ошибка загрузки в хранилище") {
			t.Errorf("Неожиданная ошибка: %v", err)
		}
	})
}

func TestRestore(t *testing.T) {
	storage := newMemoryStorage()
	storage.objects["library.yaml"] = []byte("entries:\n  - id: 1\n")
	service := NewService(storage, "library")

	path := writeLibrary(t, "library.yaml", "entries: []\n")

	var last int64
	result, err := service.Restore(context.Background(), path, func(n int64) { last = n })
	if err != nil {
		t.Fatalf("Ошибка восстановления: %v", err)
	}

	restored, _ := os.ReadFile(path)
	if string(restored) != "entries:\n  - id: 1\n" {
		t.Errorf("Файл не заменен: %q", restored)
	}
	if result.Size != int64(len(restored)) || last != result.Size {
		t.Errorf("Неверный размер: %d, прогресс %d", result.Size, last)
	}

	// Временные файлы не остаются
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Ожидался один файл в директории, получено %d", len(entries))
	}
}

func TestRestoreKeepsFileOnError(t *testing.T) {
	storage := newMemoryStorage()
	service := NewService(storage, "library")
	path := writeLibrary(t, "library.yaml", "entries: []\n")

	if _, err := service.Restore(context.Background(), path, nil); err == nil {
		t.Fatal("Ожидалась ошибка для отсутствующей копии")
	}

	content, _ := os.ReadFile(path)
	if string(content) != "entries: []\n" {
		t.Errorf("Файл библиотеки не должен меняться при ошибке: %q", content)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Временный файл не удален: %d файлов", len(entries))
	}
}

func TestProgressReader(t *testing.T) {
	data := []byte("test data for progress tracking")
	var lastProgress int64

	pr := &ProgressReader{
		Reader: bytes.NewReader(data),
		Size:   int64(len(data)),
		OnProgress: func(bytesRead int64) {
			lastProgress = bytesRead
		},
	}

	result, err := io.ReadAll(pr)
	if err != nil {
		t.Fatalf("Ошибка чтения: %v", err)
	}
	if !bytes.Equal(result, data) {
		t.Error("Данные не совпадают")
	}
	if lastProgress != int64(len(data)) {
		t.Errorf("Ожидался прогресс %d, получено %d", len(data), lastProgress)
	}
}

func TestProgressWriter(t *testing.T) {
	var buf bytes.Buffer
	var lastProgress int64
	pw := &ProgressWriter{Writer: &buf, OnProgress: func(n int64) { lastProgress = n }}

	_, _ = pw.Write([]byte("abc"))
	_, _ = pw.Write([]byte("de"))

	if buf.String() != "abcde" || lastProgress != 5 {
		t.Errorf("Получено %q, прогресс %d", buf.String(), lastProgress)
	}
}
