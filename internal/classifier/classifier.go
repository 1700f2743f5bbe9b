// Package classifier определяет по текстовым полям трека, относится ли он к духовной музыке
package classifier

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/hazadus/worship/internal/data"
)

// Веса и пределы оценки по полям
const (
	titleWeight  = 10
	titleCap     = 40
	artistWeight = 5
	artistCap    = 30
	knownArtist  = 30
	albumWeight  = 5
	albumCap     = 30
	MaxScore     = 100
)

// Classifier оценивает треки по ключевым словам и списку известных исполнителей.
// После создания не изменяется и безопасен для одновременного использования.
type Classifier struct {
	lang     language.Tag
	keywords []string
	artists  []string
}

// Option настраивает Classifier
type Option func(*Classifier)

// WithLanguage задает язык для приведения регистра
func WithLanguage(tag language.Tag) Option {
	return func(c *Classifier) {
		c.lang = tag
	}
}

// WithKeywords заменяет набор ключевых слов
func WithKeywords(keywords []string) Option {
	return func(c *Classifier) {
		c.keywords = keywords
	}
}

// WithArtists заменяет список известных исполнителей
func WithArtists(artists []string) Option {
	return func(c *Classifier) {
		c.artists = artists
	}
}

// New создает классификатор со стандартными словарями
func New(opts ...Option) *Classifier {
	c := &Classifier{
		lang:     language.Und,
		keywords: DefaultKeywords,
		artists:  DefaultArtists,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Словари нормализуются один раз, пустые и повторяющиеся записи отбрасываются
	c.keywords = c.prepare(c.keywords)
	c.artists = c.prepare(c.artists)
	return c
}

// ContainsKeyword проверяет, встречается ли в тексте хотя бы одно ключевое слово
func (c *Classifier) ContainsKeyword(text string) bool {
	if text == "" {
		return false
	}
	normalized := c.normalize(text)
	for _, kw := range c.keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// CountKeywords возвращает число различных ключевых слов, найденных в тексте
func (c *Classifier) CountKeywords(text string) int {
	if text == "" {
		return 0
	}
	normalized := c.normalize(text)
	count := 0
	for _, kw := range c.keywords {
		if strings.Contains(normalized, kw) {
			count++
		}
	}
	return count
}

// IsKnownArtist проверяет имя по списку известных исполнителей.
// Совпадение засчитывается, если одна строка содержит другую.
func (c *Classifier) IsKnownArtist(name string) bool {
	normalized := strings.TrimSpace(c.normalize(name))
	if normalized == "" {
		return false
	}
	for _, artist := range c.artists {
		if strings.Contains(normalized, artist) || strings.Contains(artist, normalized) {
			return true
		}
	}
	return false
}

// Score возвращает оценку трека от 0 до 100
func (c *Classifier) Score(t data.Track) int {
	score := min(titleCap, titleWeight*c.CountKeywords(t.Title))

	if c.IsKnownArtist(t.ArtistName) {
		score += knownArtist
	} else {
		score += min(artistCap, artistWeight*c.CountKeywords(t.ArtistName))
	}

	score += min(albumCap, albumWeight*c.CountKeywords(t.AlbumTitle))
	return min(MaxScore, score)
}

// IsSpiritual сообщает, относится ли трек к духовной музыке
func (c *Classifier) IsSpiritual(t data.Track) bool {
	return c.ContainsKeyword(t.Title) ||
		c.ContainsKeyword(t.ArtistName) ||
		c.IsKnownArtist(t.ArtistName) ||
		c.ContainsKeyword(t.AlbumTitle)
}

// Filter оставляет только духовные треки, сохраняя порядок. Никогда не возвращает nil.
func (c *Classifier) Filter(tracks []data.Track) []data.Track {
	result := make([]data.Track, 0, len(tracks))
	for _, t := range tracks {
		if c.IsSpiritual(t) {
			result = append(result, t)
		}
	}
	return result
}

// FilterByScore оставляет треки с оценкой не ниже minimum
func (c *Classifier) FilterByScore(tracks []data.Track, minimum int) []data.Track {
	result := make([]data.Track, 0, len(tracks))
	for _, t := range tracks {
		if c.Score(t) >= minimum {
			result = append(result, t)
		}
	}
	return result
}

// EnhanceQuery дополняет запрос духовными словами, если их в нем нет
func (c *Classifier) EnhanceQuery(query string) string {
	if c.ContainsKeyword(query) {
		return query
	}
	return query + QuerySuffix
}

// normalize приводит текст к NFC и нижнему регистру.
// cases.Caser хранит состояние, поэтому создается на каждый вызов.
func (c *Classifier) normalize(text string) string {
	return cases.Lower(c.lang).String(norm.NFC.String(text))
}

func (c *Classifier) prepare(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	result := make([]string, 0, len(words))
	for _, w := range words {
		n := strings.TrimSpace(c.normalize(w))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}
