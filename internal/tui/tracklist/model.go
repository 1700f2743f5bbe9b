// Package tracklist содержит модель экрана списка треков для TUI
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/worship/internal/track"
	"github.com/hazadus/worship/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	likedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
)

// TrackSelectedMsg отправляется при выборе трека для воспроизведения
type TrackSelectedMsg struct {
	Entry track.Entry
}

// ToggleLikeMsg отправляется для переключения отметки трека
type ToggleLikeMsg struct {
	Entry track.Entry
}

// AddToPlaylistMsg отправляется для добавления трека в плейлист
type AddToPlaylistMsg struct {
	Entry track.Entry
}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	entry track.Entry
}

func (i trackItem) FilterValue() string {
	return i.entry.String()
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	fmt.Fprint(w, renderRow(i.entry, index == m.Index()))
}

// renderRow форматирует строку: отметка | исполнитель | название | оценка | длительность
func renderRow(e track.Entry, selected bool) string {
	heart := " "
	if e.Liked {
		heart = likedStyle.Render("♥")
	}
	str := fmt.Sprintf("%s %-24s %-40s %3d  %s",
		heart,
		utils.TruncateString(e.ArtistName, 24),
		utils.TruncateString(e.Title, 40),
		e.Score,
		utils.FormatDurationFromSeconds(e.DurationSeconds))

	if selected {
		return selectedItemStyle.Render("> " + str)
	}
	return itemStyle.Render(str)
}

// Model представляет модель экрана списка треков
type Model struct {
	list list.Model
}

// NewModel создает новую модель списка треков
func NewModel(title string, entries []track.Entry) *Model {
	l := list.New(toItems(entries), trackItemDelegate{}, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	// '/' занят поиском по каталогу
	l.SetFilteringEnabled(false)
	// Выход обрабатывает главная модель
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return &Model{list: l}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetEntries заменяет содержимое списка
func (m *Model) SetEntries(title string, entries []track.Entry) {
	m.list.Title = title
	m.list.SetItems(toItems(entries))
	m.list.ResetSelected()
}

// UpdateEntry заменяет запись с тем же ID трека, сохраняя позицию курсора
func (m *Model) UpdateEntry(entry track.Entry) {
	for i, item := range m.list.Items() {
		if ti, ok := item.(trackItem); ok && ti.entry.ID == entry.ID {
			m.list.SetItem(i, trackItem{entry: entry})
		}
	}
}

// Entries возвращает записи списка
func (m *Model) Entries() []track.Entry {
	items := m.list.Items()
	entries := make([]track.Entry, 0, len(items))
	for _, item := range items {
		if ti, ok := item.(trackItem); ok {
			entries = append(entries, ti.entry)
		}
	}
	return entries
}

// Title возвращает заголовок списка
func (m *Model) Title() string {
	return m.list.Title
}

// Selected возвращает выбранную запись
func (m *Model) Selected() (track.Entry, bool) {
	item, ok := m.list.SelectedItem().(trackItem)
	if !ok {
		return track.Entry{}, false
	}
	return item.entry, true
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 6) // Оставляем место для поиска, статуса и справки
		return m, nil

	case tea.KeyMsg:
		var send func(track.Entry) tea.Msg
		switch msg.String() {
		case "enter":
			send = func(e track.Entry) tea.Msg { return TrackSelectedMsg{Entry: e} }
		case "l":
			send = func(e track.Entry) tea.Msg { return ToggleLikeMsg{Entry: e} }
		case "p":
			send = func(e track.Entry) tea.Msg { return AddToPlaylistMsg{Entry: e} }
		}
		if send != nil {
			entry, ok := m.Selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return send(entry) }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	if len(m.list.Items()) == 0 {
		return titleStyle.Render(m.list.Title) + "\n\n" + itemStyle.Render("Список пуст")
	}
	return m.list.View()
}

// Help возвращает строку подсказки по клавишам
func Help() string {
	return helpStyle.Render(strings.Join([]string{
		"Enter: воспроизвести",
		"/: поиск",
		"t: популярное",
		"L: понравившиеся",
		"l: нравится",
		"p: в плейлист",
		"q: выход",
	}, " • "))
}

func toItems(entries []track.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = trackItem{entry: e}
	}
	return items
}
