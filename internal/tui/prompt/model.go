// Package prompt содержит модель экрана выбора плейлиста для TUI
package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/worship/internal/data"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(15)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Margin(1, 0)
)

// PlaylistChosenMsg отправляется, когда введено имя плейлиста
type PlaylistChosenMsg struct {
	Track data.Track
	Name  string
}

// GoBackMsg отправляется при отмене
type GoBackMsg struct{}

// Model представляет модель экрана выбора плейлиста
type Model struct {
	track     data.Track
	playlists []string
	input     textinput.Model
	suggest   int // Индекс следующей подсказки для Tab
	err       string
}

// NewModel создает модель для трека. playlists - существующие плейлисты для подсказок.
func NewModel(track data.Track, playlists []string) *Model {
	input := textinput.New()
	input.Placeholder = "Введите имя плейлиста"
	input.CharLimit = 64
	input.Focus()
	input.PromptStyle = focusedStyle
	input.TextStyle = focusedStyle

	return &Model{
		track:     track,
		playlists: playlists,
		input:     input,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Value возвращает введенный текст
func (m *Model) Value() string {
	return m.input.Value()
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "tab":
			// Перебираем существующие плейлисты
			if len(m.playlists) > 0 {
				m.input.SetValue(m.playlists[m.suggest%len(m.playlists)])
				m.input.CursorEnd()
				m.suggest++
			}
			return m, nil

		case "enter":
			name := strings.TrimSpace(m.input.Value())
			switch name {
			case "":
				m.err = "Имя плейлиста не может быть пустым"
				return m, nil
			case data.LikedCollection:
				m.err = fmt.Sprintf("Имя %q зарезервировано", name)
				return m, nil
			}
			m.err = ""
			track := m.track
			return m, func() tea.Msg {
				return PlaylistChosenMsg{Track: track, Name: name}
			}
		}

	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 20
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Добавление в плейлист: %s", m.track.String())))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Плейлист:"))
	b.WriteString(" ")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.playlists) > 0 {
		b.WriteString(blurredStyle.Render("Существующие: " + strings.Join(m.playlists, ", ")))
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Enter: добавить • Tab: подставить существующий • Esc: отмена"))

	return b.String()
}
