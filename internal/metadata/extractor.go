// Package metadata предоставляет функционал для извлечения метаданных из аудио файлов
package metadata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"

	"github.com/hazadus/worship/internal/data"
)

// UnknownArtist исполнитель, если его не удалось определить
const UnknownArtist = "Unknown Artist"

// Tags текстовые теги трека
type Tags struct {
	Artist string
	Title  string
	Album  string
}

// Extractor извлекает метаданные из аудио файлов
type Extractor struct{}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractTrack собирает data.Track из локального MP3: теги, длительность и ссылку file://.
// Файл без тегов описывается по имени, нераспознанная длительность остается нулевой.
func (e *Extractor) ExtractTrack(filePath string) (data.Track, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return data.Track{}, fmt.Errorf("ошибка получения пути: %w", err)
	}

	file, err := os.Open(abs)
	if err != nil {
		return data.Track{}, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	tags := e.ExtractFromReader(file, abs)

	track := data.Track{
		Title:      tags.Title,
		ArtistName: tags.Artist,
		AlbumTitle: tags.Album,
		PreviewURI: "file://" + abs,
	}
	if duration, err := e.GetDuration(abs); err == nil {
		track.DurationSeconds = int(duration.Round(time.Second) / time.Second)
	}
	return track, nil
}

// ExtractFromReader извлекает теги из io.ReadSeeker
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker, source string) Tags {
	// Сбрасываем reader в начало
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return e.defaultTags(source)
	}

	metadata, err := tag.ReadFrom(reader)
	if err != nil {
		return e.defaultTags(source)
	}

	tags := Tags{
		Artist: strings.TrimSpace(metadata.Artist()),
		Title:  strings.TrimSpace(metadata.Title()),
		Album:  strings.TrimSpace(metadata.Album()),
	}
	// Теги без названия бесполезны для классификации
	if tags.Title == "" {
		fallback := e.defaultTags(source)
		tags.Title = fallback.Title
		if tags.Artist == "" {
			tags.Artist = fallback.Artist
		}
	}
	return tags
}

// ExtractFromFile извлекает теги из файла
func (e *Extractor) ExtractFromFile(filePath string) Tags {
	file, err := os.Open(filePath)
	if err != nil {
		return e.defaultTags(filePath)
	}
	defer file.Close()

	return e.ExtractFromReader(file, filePath)
}

// GetDuration получает длительность MP3 файла
func (e *Extractor) GetDuration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// defaultTags разбирает имя файла вида "Artist - Title"
func (e *Extractor) defaultTags(source string) Tags {
	fileName := filepath.Base(source)
	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	parts := strings.Split(nameWithoutExt, " - ")
	if len(parts) >= 2 {
		return Tags{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(strings.Join(parts[1:], " - ")),
		}
	}

	return Tags{
		Artist: UnknownArtist,
		Title:  nameWithoutExt,
	}
}
