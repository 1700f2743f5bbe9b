// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/hazadus/worship/internal/utils"
)

// DefaultConfigPath путь к файлу конфигурации по умолчанию
const DefaultConfigPath = "~/.worship/config.yaml"

// Драйверы библиотеки
const (
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
)

// ErrInvalidConfig конфигурация содержит недопустимые значения
var ErrInvalidConfig = errors.New("некорректная конфигурация")

// Config структура для хранения конфигурации приложения
type Config struct {
	API        APIConfig        `yaml:"api"`
	Search     SearchConfig     `yaml:"search"`
	Player     PlayerConfig     `yaml:"player"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Library    LibraryConfig    `yaml:"library"`
	Log        LogConfig        `yaml:"log"`
	Backup     BackupConfig     `yaml:"backup"`
}

// APIConfig настройки каталога Deezer
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // Запросов в секунду
	UserAgent string        `yaml:"user_agent"`
}

// SearchConfig лимиты поиска
type SearchConfig struct {
	Limit            int `yaml:"limit"`
	FallbackLimit    int `yaml:"fallback_limit"`
	HighQualityLimit int `yaml:"high_quality_limit"`
	MinimumScore     int `yaml:"minimum_score"`
}

// PlayerConfig настройки воспроизведения
type PlayerConfig struct {
	ProgressInterval time.Duration `yaml:"progress_interval"`
	BufferSize       int           `yaml:"buffer_size"`
	PreviewLength    time.Duration `yaml:"preview_length"`
	SampleRate       int           `yaml:"sample_rate"`
}

// ClassifierConfig настройки классификатора
type ClassifierConfig struct {
	Language      string   `yaml:"language"`
	ExtraKeywords []string `yaml:"extra_keywords"`
	ExtraArtists  []string `yaml:"extra_artists"`
}

// LibraryConfig настройки хранилища понравившихся треков и плейлистов
type LibraryConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LogConfig настройки логирования
type LogConfig struct {
	Level string `yaml:"level"`
}

// BackupConfig настройки резервного копирования библиотеки в S3
type BackupConfig struct {
	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`
	Key           string `yaml:"key"` // Ключ объекта в бакете
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://api.deezer.com",
			Timeout:   10 * time.Second,
			RateLimit: 5,
			UserAgent: "worship/1.0",
		},
		Search: SearchConfig{
			Limit:            50,
			FallbackLimit:    30,
			HighQualityLimit: 100,
			MinimumScore:     30,
		},
		Player: PlayerConfig{
			ProgressInterval: 500 * time.Millisecond,
			BufferSize:       256 * 1024,
			PreviewLength:    30 * time.Second,
			SampleRate:       44100,
		},
		Classifier: ClassifierConfig{
			Language: "und",
		},
		Library: LibraryConfig{
			Driver: DriverYAML,
			Path:   "~/.worship/library.yaml",
		},
		Log: LogConfig{
			Level: "info",
		},
		Backup: BackupConfig{
			Key: "worship/library",
		},
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Если файла нет, возвращается конфигурация по умолчанию.
// Незаданные в файле поля сохраняют значения по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	path, err := utils.ExpandHome(filePath)
	if err != nil {
		return nil, err
	}

	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
		}
	}

	// Раскрываем тильду в пути библиотеки
	config.Library.Path, err = utils.ExpandHome(config.Library.Path)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.API.Timeout <= 0 {
		problems = append(problems, "api.timeout должен быть положительным")
	}
	if c.API.RateLimit < 0 {
		problems = append(problems, "api.rate_limit не может быть отрицательным")
	}
	if c.Search.Limit <= 0 || c.Search.FallbackLimit <= 0 || c.Search.HighQualityLimit <= 0 {
		problems = append(problems, "лимиты поиска должны быть положительными")
	}
	if c.Search.MinimumScore < 0 || c.Search.MinimumScore > 100 {
		problems = append(problems, "search.minimum_score должен быть от 0 до 100")
	}
	if c.Player.ProgressInterval <= 0 {
		problems = append(problems, "player.progress_interval должен быть положительным")
	}
	if c.Player.PreviewLength <= 0 {
		problems = append(problems, "player.preview_length должен быть положительным")
	}
	if c.Player.BufferSize <= 0 || c.Player.SampleRate <= 0 {
		problems = append(problems, "player.buffer_size и player.sample_rate должны быть положительными")
	}
	if _, err := c.LanguageTag(); err != nil {
		problems = append(problems, fmt.Sprintf("classifier.language: %v", err))
	}
	switch c.Library.Driver {
	case DriverYAML, DriverSQLite:
	default:
		problems = append(problems, fmt.Sprintf("неизвестный library.driver %q", c.Library.Driver))
	}
	if strings.TrimSpace(c.Library.Path) == "" {
		problems = append(problems, "не указан library.path")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// LanguageTag возвращает язык классификатора
func (c *Config) LanguageTag() (language.Tag, error) {
	if strings.TrimSpace(c.Classifier.Language) == "" {
		return language.Und, nil
	}
	return language.Parse(c.Classifier.Language)
}

// Configured сообщает, заданы ли параметры S3
func (b BackupConfig) Configured() bool {
	return b.AwsBucketName != "" && b.AwsAccessKey != "" && b.AwsSecretKey != ""
}
