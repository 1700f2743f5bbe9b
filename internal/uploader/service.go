// Package uploader предоставляет функционал для резервного копирования библиотеки
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrLibraryNotFound нет локального файла библиотеки для копирования
var ErrLibraryNotFound = errors.New("файл библиотеки не найден")

// Storage удаленное хранилище. Реализуется s3.Uploader.
type Storage interface {
	UploadFile(ctx context.Context, reader io.Reader, key string) (string, error)
	DownloadFile(ctx context.Context, key string, w io.Writer) (int64, error)
}

// Service копирует файл библиотеки в хранилище и обратно
type Service struct {
	storage Storage
	prefix  string
	now     func() time.Time
}

// NewService создает новый сервис. prefix задает ключ объекта без расширения.
func NewService(storage Storage, prefix string) *Service {
	return &Service{
		storage: storage,
		prefix:  strings.Trim(prefix, "/"),
		now:     time.Now,
	}
}

// Result содержит результат копирования
type Result struct {
	URL     string
	Key     string
	Size    int64
	Elapsed time.Duration
}

// Key возвращает ключ объекта для файла библиотеки. Расширение сохраняется,
// чтобы копии YAML и SQLite не перезаписывали друг друга.
func (s *Service) Key(libraryPath string) string {
	return s.prefix + filepath.Ext(libraryPath)
}

// Backup загружает файл библиотеки в хранилище
func (s *Service) Backup(ctx context.Context, libraryPath string, progressCallback func(int64)) (*Result, error) {
	info, err := os.Stat(libraryPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrLibraryNotFound, libraryPath)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	file, err := os.Open(libraryPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	// Создаем reader с отслеживанием прогресса
	var reader io.Reader = file
	if progressCallback != nil {
		reader = &ProgressReader{
			Reader:     file,
			Size:       info.Size(),
			OnProgress: progressCallback,
		}
	}

	started := s.now()
	key := s.Key(libraryPath)
	url, err := s.storage.UploadFile(ctx, reader, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в хранилище: %w", err)
	}

	return &Result{
		URL:     url,
		Key:     key,
		Size:    info.Size(),
		Elapsed: s.now().Sub(started),
	}, nil
}

// Restore скачивает копию и заменяет файл библиотеки.
// Файл заменяется только после успешного скачивания.
func (s *Service) Restore(ctx context.Context, libraryPath string, progressCallback func(int64)) (*Result, error) {
	dir := filepath.Dir(libraryPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(libraryPath)+".restore-*")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	var writer io.Writer = tmp
	if progressCallback != nil {
		writer = &ProgressWriter{Writer: tmp, OnProgress: progressCallback}
	}

	started := s.now()
	key := s.Key(libraryPath)
	size, err := s.storage.DownloadFile(ctx, key, writer)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("ошибка записи временного файла: %w", closeErr)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка скачивания из хранилища: %w", err)
	}

	if err := os.Rename(tmpPath, libraryPath); err != nil {
		return nil, fmt.Errorf("ошибка замены файла библиотеки: %w", err)
	}

	return &Result{
		Key:     key,
		Size:    size,
		Elapsed: s.now().Sub(started),
	}, nil
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}

// ProgressWriter отслеживает прогресс записи
type ProgressWriter struct {
	io.Writer
	OnProgress   func(int64)
	bytesWritten int64
}

func (pw *ProgressWriter) Write(p []byte) (n int, err error) {
	n, err = pw.Writer.Write(p)
	pw.bytesWritten += int64(n)
	if pw.OnProgress != nil {
		pw.OnProgress(pw.bytesWritten)
	}
	return n, err
}
