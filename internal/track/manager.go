// Package track содержит логику управления треками
package track

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hazadus/worship/internal/classifier"
	"github.com/hazadus/worship/internal/data"
)

// ErrInvalidPlaylist недопустимое имя плейлиста
var ErrInvalidPlaylist = errors.New("недопустимое имя плейлиста")

// Store хранилище библиотеки. Реализуется data.FileStore и repositories.CollectionRepository.
type Store interface {
	IsLiked(id int64) (bool, error)
	Save(track data.Track, collection string) error
	Remove(id int64, collection string) (bool, error)
	ListByCollection(collection string) ([]data.Track, error)
	ListCollectionNames() ([]string, error)
}

// Entry трек с производными полями для отображения
type Entry struct {
	data.Track
	Liked bool
	Score int
}

// Manager управляет треками в приложении
type Manager struct {
	store      Store
	classifier *classifier.Classifier
}

// NewManager создает новый экземпляр Manager
func NewManager(store Store, cls *classifier.Classifier) *Manager {
	if cls == nil {
		cls = classifier.New()
	}
	return &Manager{
		store:      store,
		classifier: cls,
	}
}

// Annotate добавляет к трекам отметку "нравится" и оценку. Сами треки не меняются.
func (m *Manager) Annotate(tracks []data.Track) ([]Entry, error) {
	entries := make([]Entry, len(tracks))
	for i, t := range tracks {
		liked, err := m.store.IsLiked(t.ID)
		if err != nil {
			return nil, err
		}
		entries[i] = Entry{
			Track: t,
			Liked: liked,
			Score: m.classifier.Score(t),
		}
	}
	return entries, nil
}

// ToggleLike переключает отметку трека и возвращает новое значение
func (m *Manager) ToggleLike(t data.Track) (bool, error) {
	removed, err := m.store.Remove(t.ID, data.LikedCollection)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}
	if err := m.store.Save(t, data.LikedCollection); err != nil {
		return false, err
	}
	return true, nil
}

// Liked возвращает понравившиеся треки, последние первыми
func (m *Manager) Liked() ([]data.Track, error) {
	return m.store.ListByCollection(data.LikedCollection)
}

// AddToPlaylist добавляет трек в плейлист
func (m *Manager) AddToPlaylist(t data.Track, name string) error {
	name, err := playlistName(name)
	if err != nil {
		return err
	}
	return m.store.Save(t, name)
}

// RemoveFromPlaylist удаляет трек из плейлиста
func (m *Manager) RemoveFromPlaylist(id int64, name string) (bool, error) {
	name, err := playlistName(name)
	if err != nil {
		return false, err
	}
	return m.store.Remove(id, name)
}

// Playlist возвращает треки плейлиста
func (m *Manager) Playlist(name string) ([]data.Track, error) {
	name, err := playlistName(name)
	if err != nil {
		return nil, err
	}
	return m.store.ListByCollection(name)
}

// Playlists возвращает имена плейлистов без коллекции понравившихся
func (m *Manager) Playlists() ([]string, error) {
	names, err := m.store.ListCollectionNames()
	if err != nil {
		return nil, err
	}

	playlists := make([]string, 0, len(names))
	for _, name := range names {
		if name != data.LikedCollection {
			playlists = append(playlists, name)
		}
	}
	return playlists, nil
}

func playlistName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", fmt.Errorf("%w: пустое имя", ErrInvalidPlaylist)
	case name == data.LikedCollection:
		return "", fmt.Errorf("%w: имя %q зарезервировано", ErrInvalidPlaylist, name)
	}
	return name, nil
}
