package data

import (
	"fmt"
	"time"
)

// LikedCollection имя коллекции понравившихся треков
const LikedCollection = "liked"

// Track описывает трек, полученный из каталога
type Track struct {
	ID              int64  `yaml:"id"`
	Title           string `yaml:"title"`
	ArtistName      string `yaml:"artist"`
	AlbumTitle      string `yaml:"album"`
	DurationSeconds int    `yaml:"duration"` // Длина полной версии трека в секундах
	PreviewURI      string `yaml:"preview"`  // Пустая строка, если превью нет
	CoverURI        string `yaml:"cover,omitempty"`
}

// Page результат одного запроса к каталогу
type Page struct {
	Tracks []Track
	Total  int // Сколько всего треков нашел каталог
}

// Duration возвращает длительность трека
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationSeconds) * time.Second
}

// HasPreview сообщает, есть ли у трека ссылка на превью
func (t Track) HasPreview() bool {
	return t.PreviewURI != ""
}

// String возвращает "Исполнитель - Название"
func (t Track) String() string {
	if t.ArtistName == "" {
		return t.Title
	}
	return fmt.Sprintf("%s - %s", t.ArtistName, t.Title)
}
