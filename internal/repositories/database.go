// Package repositories содержит хранилище библиотеки на SQLite
package repositories

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath путь для базы в памяти
const MemoryPath = ":memory:"

//go:embed sql/*.sql
var schemaFiles embed.FS

// OpenDatabase открывает базу SQLite и применяет схему.
// Для ":memory:" используется одно соединение, иначе каждое соединение видело бы свою базу.
func OpenDatabase(path string) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("ошибка создания директории базы: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к базе: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// applySchema выполняет встроенные SQL-файлы по порядку имен
func applySchema(db *sql.DB) error {
	names, err := fs.Glob(schemaFiles, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("ошибка чтения схемы: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := schemaFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("ошибка чтения %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("ошибка применения %s: %w", name, err)
		}
	}
	return nil
}
