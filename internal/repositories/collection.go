package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hazadus/worship/internal/data"
)

// CollectionRepository хранит понравившиеся треки и плейлисты в SQLite.
// Повторное сохранение трека в коллекцию обновляет его данные и время.
type CollectionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCollectionRepository создает репозиторий поверх открытой базы
func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db, now: time.Now}
}

// IsLiked проверяет, есть ли трек в понравившихся
func (r *CollectionRepository) IsLiked(id int64) (bool, error) {
	var exists int
	err := r.db.QueryRow(
		`SELECT 1 FROM saved_tracks WHERE track_id = ? AND collection = ?`,
		id, data.LikedCollection,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка проверки трека: %w", err)
	}
	return true, nil
}

// Save сохраняет трек в коллекцию
func (r *CollectionRepository) Save(track data.Track, collection string) error {
	query := `
		INSERT INTO saved_tracks (track_id, collection, title, artist, album, duration, preview_uri, cover_uri, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (track_id, collection) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			duration = excluded.duration,
			preview_uri = excluded.preview_uri,
			cover_uri = excluded.cover_uri,
			saved_at = excluded.saved_at
	`

	_, err := r.db.Exec(query,
		track.ID,
		collection,
		track.Title,
		track.ArtistName,
		track.AlbumTitle,
		track.DurationSeconds,
		track.PreviewURI,
		track.CoverURI,
		r.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("ошибка сохранения трека: %w", err)
	}
	return nil
}

// Remove удаляет трек из коллекции. Возвращает false, если трека там не было.
func (r *CollectionRepository) Remove(id int64, collection string) (bool, error) {
	result, err := r.db.Exec(
		`DELETE FROM saved_tracks WHERE track_id = ? AND collection = ?`,
		id, collection,
	)
	if err != nil {
		return false, fmt.Errorf("ошибка удаления трека: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка получения числа удаленных строк: %w", err)
	}
	return rows > 0, nil
}

// ListByCollection возвращает треки коллекции, последние сохраненные первыми
func (r *CollectionRepository) ListByCollection(collection string) ([]data.Track, error) {
	query := `
		SELECT track_id, title, artist, album, duration, preview_uri, cover_uri
		FROM saved_tracks
		WHERE collection = ?
		ORDER BY saved_at DESC, rowid DESC
	`

	rows, err := r.db.Query(query, collection)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса коллекции: %w", err)
	}
	defer rows.Close()

	tracks := []data.Track{}
	for rows.Next() {
		var t data.Track
		if err := rows.Scan(&t.ID, &t.Title, &t.ArtistName, &t.AlbumTitle, &t.DurationSeconds, &t.PreviewURI, &t.CoverURI); err != nil {
			return nil, fmt.Errorf("ошибка чтения трека: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка перебора строк: %w", err)
	}
	return tracks, nil
}

// ListCollectionNames возвращает имена всех непустых коллекций по алфавиту
func (r *CollectionRepository) ListCollectionNames() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT collection FROM saved_tracks ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса коллекций: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ошибка чтения имени коллекции: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка перебора строк: %w", err)
	}
	return names, nil
}
