// Package data содержит модель трека и файловое хранилище библиотеки
package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/hazadus/worship/internal/utils"
)

// SavedTrack трек, сохраненный в коллекцию библиотеки
type SavedTrack struct {
	Track      `yaml:",inline"`
	Collection string    `yaml:"collection"`
	SavedAt    time.Time `yaml:"saved_at"`
}

// AppData содержимое файла библиотеки
type AppData struct {
	Entries []SavedTrack `yaml:"entries"`
}

// NewAppData создает новую структуру AppData
func NewAppData() *AppData {
	return &AppData{
		Entries: make([]SavedTrack, 0),
	}
}

// LoadData загружает данные из файла
func (d *AppData) LoadData(filePath string) error {
	path, err := utils.ExpandHome(filePath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Если файл не найден, инициализируем пустыми данными
		if os.IsNotExist(err) {
			*d = *NewAppData()
			return nil
		}
		return fmt.Errorf("ошибка чтения файла данных: %w", err)
	}
	if len(data) == 0 {
		*d = *NewAppData()
		return nil
	}
	if err := yaml.Unmarshal(data, d); err != nil {
		return fmt.Errorf("ошибка разбора данных: %w", err)
	}
	return nil
}

// SaveData сохраняет данные в файл
func (d *AppData) SaveData(filePath string) error {
	path, err := utils.ExpandHome(filePath)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("ошибка сериализации данных: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("ошибка создания каталога данных: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла данных: %w", err)
	}
	return nil
}

// Put добавляет трек в коллекцию. Повторное сохранение обновляет время добавления
func (d *AppData) Put(track Track, collection string, at time.Time) {
	for i := range d.Entries {
		if d.Entries[i].ID == track.ID && d.Entries[i].Collection == collection {
			d.Entries[i].Track = track
			d.Entries[i].SavedAt = at
			return
		}
	}
	d.Entries = append(d.Entries, SavedTrack{Track: track, Collection: collection, SavedAt: at})
}

// Delete удаляет трек из коллекции и сообщает, был ли он там
func (d *AppData) Delete(id int64, collection string) bool {
	for i := range d.Entries {
		if d.Entries[i].ID == id && d.Entries[i].Collection == collection {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Contains проверяет наличие трека в коллекции
func (d *AppData) Contains(id int64, collection string) bool {
	for _, e := range d.Entries {
		if e.ID == id && e.Collection == collection {
			return true
		}
	}
	return false
}

// Collection возвращает треки коллекции, последние добавленные первыми
func (d *AppData) Collection(name string) []Track {
	entries := make([]SavedTrack, 0)
	for _, e := range d.Entries {
		if e.Collection == name {
			entries = append(entries, e)
		}
	}
	// При равном времени более поздняя запись в файле считается более новой
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SavedAt.After(entries[j].SavedAt)
	})

	tracks := make([]Track, len(entries))
	for i, e := range entries {
		tracks[i] = e.Track
	}
	return tracks
}

// CollectionNames возвращает имена всех непустых коллекций по алфавиту
func (d *AppData) CollectionNames() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, e := range d.Entries {
		if _, ok := seen[e.Collection]; ok {
			continue
		}
		seen[e.Collection] = struct{}{}
		names = append(names, e.Collection)
	}
	sort.Strings(names)
	return names
}

// FileStore хранит библиотеку в YAML-файле. Каждая операция читает файл
// заново под файловой блокировкой, поэтому несколько процессов не затирают
// изменения друг друга.
type FileStore struct {
	path string
	lock *flock.Flock
	now  func() time.Time
}

// NewFileStore создает хранилище для указанного файла
func NewFileStore(filePath string) (*FileStore, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.New("не указан путь к файлу библиотеки")
	}
	path, err := utils.ExpandHome(filePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога библиотеки: %w", err)
	}

	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  time.Now,
	}, nil
}

// Path возвращает путь к файлу библиотеки
func (s *FileStore) Path() string {
	return s.path
}

// IsLiked проверяет, отмечен ли трек как понравившийся
func (s *FileStore) IsLiked(id int64) (bool, error) {
	var liked bool
	err := s.read(func(d *AppData) {
		liked = d.Contains(id, LikedCollection)
	})
	return liked, err
}

// Save сохраняет трек в коллекцию
func (s *FileStore) Save(track Track, collection string) error {
	return s.update(func(d *AppData) bool {
		d.Put(track, collection, s.now())
		return true
	})
}

// Remove удаляет трек из коллекции
func (s *FileStore) Remove(id int64, collection string) (bool, error) {
	var removed bool
	err := s.update(func(d *AppData) bool {
		removed = d.Delete(id, collection)
		return removed
	})
	return removed, err
}

// ListByCollection возвращает треки коллекции, последние добавленные первыми
func (s *FileStore) ListByCollection(collection string) ([]Track, error) {
	var tracks []Track
	err := s.read(func(d *AppData) {
		tracks = d.Collection(collection)
	})
	return tracks, err
}

// ListCollectionNames возвращает имена коллекций
func (s *FileStore) ListCollectionNames() ([]string, error) {
	var names []string
	err := s.read(func(d *AppData) {
		names = d.CollectionNames()
	})
	return names, err
}

func (s *FileStore) read(fn func(*AppData)) error {
	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("ошибка блокировки библиотеки: %w", err)
	}
	defer s.lock.Unlock()

	d := NewAppData()
	if err := d.LoadData(s.path); err != nil {
		return err
	}
	fn(d)
	return nil
}

// update применяет изменение и записывает файл, только если fn вернула true
func (s *FileStore) update(fn func(*AppData) bool) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("ошибка блокировки библиотеки: %w", err)
	}
	defer s.lock.Unlock()

	d := NewAppData()
	if err := d.LoadData(s.path); err != nil {
		return err
	}
	if !fn(d) {
		return nil
	}
	return d.SaveData(s.path)
}
