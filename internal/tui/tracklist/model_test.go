package tracklist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/worship/internal/data"
	"github.com/hazadus/worship/internal/track"
)

func testEntries() []track.Entry {
	return []track.Entry{
		{Track: data.Track{ID: 1, Title: "Oceans", ArtistName: "Hillsong United", DurationSeconds: 30}, Score: 30},
		{Track: data.Track{ID: 2, Title: "Amazing Grace", ArtistName: "Chris Tomlin", DurationSeconds: 30}, Liked: true, Score: 50},
	}
}

func TestNewModel(t *testing.T) {
	model := NewModel("Популярное", testEntries())

	if len(model.Entries()) != 2 {
		t.Fatalf("Ожидалось 2 элемента, получено %d", len(model.Entries()))
	}
	if model.Title() != "Популярное" {
		t.Errorf("Неверный заголовок: %s", model.Title())
	}

	selected, ok := model.Selected()
	if !ok || selected.ID != 1 {
		t.Errorf("Ожидался выбранный трек 1, получено %v (%v)", selected.ID, ok)
	}
}

func TestKeyMessages(t *testing.T) {
	tests := []struct {
		key  string
		want func(tea.Msg) bool
	}{
		{"enter", func(msg tea.Msg) bool { m, ok := msg.(TrackSelectedMsg); return ok && m.Entry.ID == 1 }},
		{"l", func(msg tea.Msg) bool { m, ok := msg.(ToggleLikeMsg); return ok && m.Entry.ID == 1 }},
		{"p", func(msg tea.Msg) bool { m, ok := msg.(AddToPlaylistMsg); return ok && m.Entry.ID == 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			model := NewModel("Результаты", testEntries())

			var key tea.KeyMsg
			if tt.key == "enter" {
				key = tea.KeyMsg{Type: tea.KeyEnter}
			} else {
				key = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)}
			}

			_, cmd := model.Update(key)
			if cmd == nil {
				t.Fatal("Ожидалась команда")
			}
			if msg := cmd(); !tt.want(msg) {
				t.Errorf("Неожиданное сообщение %#v", msg)
			}
		})
	}
}

func TestKeysOnEmptyList(t *testing.T) {
	model := NewModel("Пусто", nil)

	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("Для пустого списка не должно быть команды")
	}
	if !strings.Contains(model.View(), "Список пуст") {
		t.Errorf("Неожиданный вид: %s", model.View())
	}
}

func TestSetAndUpdateEntries(t *testing.T) {
	model := NewModel("Результаты", testEntries())

	updated := testEntries()[0]
	updated.Liked = true
	model.UpdateEntry(updated)

	if !model.Entries()[0].Liked {
		t.Error("Запись не обновлена")
	}

	model.SetEntries("Понравившиеся", testEntries()[1:])
	if len(model.Entries()) != 1 || model.Title() != "Понравившиеся" {
		t.Errorf("Список не заменен: %v, %s", model.Entries(), model.Title())
	}
}

func TestRenderRow(t *testing.T) {
	row := renderRow(testEntries()[1], false)
	for _, part := range []string{"♥", "Chris Tomlin", "Amazing Grace", "50", "0:30"} {
		if !strings.Contains(row, part) {
			t.Errorf("Строка %q не содержит %q", row, part)
		}
	}
}
