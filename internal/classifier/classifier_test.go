package classifier

import (
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/hazadus/worship/internal/data"
)

var fixtures = []data.Track{
	{ID: 1, Title: "Amazing Grace Worship Anthem", ArtistName: "Unknown Band"},
	{ID: 2, Title: "Blue Monday", ArtistName: "New Order", AlbumTitle: "Power Corruption and Lies"},
	{ID: 3, Title: "Oceans (Where Feet May Fail)", ArtistName: "Hillsong United", AlbumTitle: "Zion"},
	{ID: 4, Title: "Shape of You", ArtistName: "Ed Sheeran", AlbumTitle: "Divide"},
	{ID: 5, Title: "Halleluya Tuhan Yesus", ArtistName: "Sari Simorangkir"},
	{ID: 6, Title: "Lose Yourself", ArtistName: "Eminem", AlbumTitle: "8 Mile"},
	{ID: 7, Title: "Goodness of God", ArtistName: "Bethel Music", AlbumTitle: "Victory"},
	{ID: 8, Title: "Victory", ArtistName: "Someone", AlbumTitle: "Worship Songs 2024"},
}

func TestScoreWorkedExamples(t *testing.T) {
	c := New()

	grace := fixtures[0]
	if !c.IsSpiritual(grace) {
		t.Error("Трек с ключевыми словами в названии должен считаться духовным")
	}
	if score := c.Score(grace); score != 20 {
		t.Errorf("Ожидалась оценка 20 (worship, grace), получено %d", score)
	}

	monday := fixtures[1]
	if c.IsSpiritual(monday) {
		t.Error("Светский трек не должен считаться духовным")
	}
	if score := c.Score(monday); score != 0 {
		t.Errorf("Ожидалась оценка 0, получено %d", score)
	}
}

func TestScorePerFieldCaps(t *testing.T) {
	c := New()

	tests := []struct {
		name     string
		track    data.Track
		expected int
	}{
		{
			name:     "известный исполнитель",
			track:    data.Track{Title: "Oceans", ArtistName: "Hillsong United", AlbumTitle: "Zion"},
			expected: 30,
		},
		{
			name:     "предел по названию",
			track:    data.Track{Title: "Blessed Holy Glory Heaven Hymn"},
			expected: 40,
		},
		{
			name:     "название и альбом",
			track:    data.Track{Title: "Goodness of God", ArtistName: "Bethel Music", AlbumTitle: "Worship Songs"},
			expected: 10 + 30 + 5,
		},
		{
			name:     "ключевые слова в имени исполнителя",
			track:    data.Track{Title: "Intro", ArtistName: "Grace Church Choir"},
			expected: 10,
		},
		{
			name: "максимум",
			track: data.Track{
				Title:      "Blessed Holy Glory Heaven Hymn",
				ArtistName: "Chris Tomlin",
				AlbumTitle: "Holy Grace Mercy Glory Faith Heaven",
			},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Score(tt.track); got != tt.expected {
				t.Errorf("Score(%+v) = %d; expected %d", tt.track, got, tt.expected)
			}
		})
	}
}

func TestScoreBoundsAndDeterminism(t *testing.T) {
	c := New()

	for _, tr := range fixtures {
		first := c.Score(tr)
		if first < 0 || first > MaxScore {
			t.Errorf("Оценка %d вне диапазона для %q", first, tr.Title)
		}
		for i := 0; i < 3; i++ {
			if again := c.Score(tr); again != first {
				t.Errorf("Оценка изменилась между вызовами: %d != %d", first, again)
			}
			if c.IsSpiritual(tr) != c.IsSpiritual(tr) {
				t.Errorf("IsSpiritual недетерминирован для %q", tr.Title)
			}
		}
	}
}

func TestIsKnownArtist(t *testing.T) {
	c := New()

	tests := []struct {
		name     string
		expected bool
	}{
		{"Hillsong Worship", true},
		{"HILLSONG UNITED", true},
		{"Bethel", true},
		{"Chris Tomlin", true},
		{"jesus", true}, // подстрока "jesus culture"
		{"Ed Sheeran", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := c.IsKnownArtist(tt.name); got != tt.expected {
			t.Errorf("IsKnownArtist(%q) = %v; expected %v", tt.name, got, tt.expected)
		}
	}
}

func TestBlankArtistNeverMatches(t *testing.T) {
	c := New()

	track := data.Track{Title: "Untitled", ArtistName: ""}
	if c.IsSpiritual(track) {
		t.Error("Трек без исполнителя и ключевых слов не должен считаться духовным")
	}
	if c.Score(track) != 0 {
		t.Errorf("Ожидалась оценка 0, получено %d", c.Score(track))
	}
}

func TestCountKeywordsDistinct(t *testing.T) {
	c := New()

	if got := c.CountKeywords("worship worship WORSHIP"); got != 1 {
		t.Errorf("Повторы одного слова должны считаться один раз, получено %d", got)
	}
	if got := c.CountKeywords(""); got != 0 {
		t.Errorf("Пустой текст должен давать 0, получено %d", got)
	}
	if !c.ContainsKeyword("Lagu Pujian Rohani") {
		t.Error("Индонезийские ключевые слова должны распознаваться")
	}
}

func TestNormalization(t *testing.T) {
	c := New(WithKeywords([]string{"café", " ", "CAFÉ"}), WithLanguage(language.French))

	// "E" + комбинируемый акут после NFC совпадает с "é"
	if !c.ContainsKeyword("LE CAFE\u0301 DU COIN") {
		t.Error("Ожидалось совпадение после NFC-нормализации и приведения регистра")
	}
	if got := c.CountKeywords("café café"); got != 1 {
		t.Errorf("Дубликаты словаря должны схлопываться, получено %d", got)
	}
}

func TestFilter(t *testing.T) {
	c := New()

	filtered := c.Filter(fixtures)
	wantIDs := []int64{1, 3, 5, 7, 8}
	if len(filtered) != len(wantIDs) {
		t.Fatalf("Ожидалось %d треков, получено %d", len(wantIDs), len(filtered))
	}
	for i, id := range wantIDs {
		if filtered[i].ID != id {
			t.Errorf("Позиция %d: ожидался трек %d, получен %d", i, id, filtered[i].ID)
		}
	}

	again := c.Filter(filtered)
	if len(again) != len(filtered) {
		t.Fatalf("Повторная фильтрация изменила результат: %d != %d", len(again), len(filtered))
	}
	for i := range again {
		if again[i] != filtered[i] {
			t.Errorf("Повторная фильтрация изменила трек на позиции %d", i)
		}
	}

	if empty := c.Filter(nil); empty == nil || len(empty) != 0 {
		t.Error("Filter(nil) должен возвращать пустой непустой срез")
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	c := New()

	input := make([]data.Track, len(fixtures))
	copy(input, fixtures)
	_ = c.Filter(input)
	_ = c.FilterByScore(input, 10)

	for i := range input {
		if input[i] != fixtures[i] {
			t.Fatalf("Входной срез изменен на позиции %d", i)
		}
	}
}

func TestFilterByScore(t *testing.T) {
	c := New()

	high := c.FilterByScore(fixtures, 30)
	for _, tr := range high {
		if c.Score(tr) < 30 {
			t.Errorf("Трек %q с оценкой %d не должен проходить порог", tr.Title, c.Score(tr))
		}
	}
	if len(high) != 3 {
		t.Errorf("Ожидалось 3 трека с оценкой от 30, получено %d", len(high))
	}

	if all := c.FilterByScore(fixtures, 0); len(all) != len(fixtures) {
		t.Errorf("Порог 0 должен пропускать все треки, получено %d", len(all))
	}
}

func TestEnhanceQuery(t *testing.T) {
	c := New()

	tests := []struct {
		query    string
		expected string
	}{
		{"gospel choir", "gospel choir"},
		{"Praise Break", "Praise Break"},
		{"hillsong", "hillsong" + QuerySuffix},
		{"Blue Monday", "Blue Monday" + QuerySuffix},
	}

	for _, tt := range tests {
		if got := c.EnhanceQuery(tt.query); got != tt.expected {
			t.Errorf("EnhanceQuery(%q) = %q; expected %q", tt.query, got, tt.expected)
		}
	}

	enhanced := c.EnhanceQuery("oceans")
	if !strings.HasPrefix(enhanced, "oceans ") || !c.ContainsKeyword(enhanced) {
		t.Errorf("Дополненный запрос должен содержать ключевое слово: %q", enhanced)
	}
}
