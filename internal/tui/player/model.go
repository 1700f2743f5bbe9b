// Package player содержит модель экрана воспроизведения для TUI
package player

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/worship/internal/data"
	"github.com/hazadus/worship/internal/player"
	"github.com/hazadus/worship/internal/utils"
)

// SeekStep шаг перемотки стрелками
const SeekStep = 5 * time.Second

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff")).
			MarginBottom(1)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// GoBackMsg отправляется для возврата к списку треков
type GoBackMsg struct{}

// EventMsg событие плеера для экрана воспроизведения
type EventMsg struct {
	Event player.Event
}

// Controls управление воспроизведением
type Controls interface {
	Toggle()
	Stop()
	Seek(pos time.Duration)
}

// Model представляет модель экрана воспроизведения
type Model struct {
	track       data.Track
	controls    Controls
	progressBar progress.Model
	state       player.State
	position    time.Duration
	duration    time.Duration
	err         error
	width       int
	height      int
}

// NewModel создает новую модель плеера для уже запущенного трека
func NewModel(track data.Track, controls Controls) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &Model{
		track:       track,
		controls:    controls,
		progressBar: prog,
		state:       player.StateLoading,
		duration:    track.Duration(),
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// State возвращает последнее известное состояние
func (m *Model) State() player.State {
	return m.state
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(60, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			m.controls.Stop()
			return m, func() tea.Msg {
				return GoBackMsg{}
			}
		case " ":
			m.controls.Toggle()
		case "left":
			m.controls.Seek(max(0, m.position-SeekStep))
		case "right":
			m.controls.Seek(m.position + SeekStep)
		case "s":
			m.controls.Stop()
		}
		return m, nil

	case EventMsg:
		return m, m.apply(msg.Event)

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// apply учитывает событие плеера. События чужих треков пропускаются.
func (m *Model) apply(ev player.Event) tea.Cmd {
	if ev.Track != nil && ev.Track.ID != m.track.ID {
		return nil
	}

	if ev.Kind == player.EventState {
		// Idle после остановки или завершения не затирает итоговое состояние
		if ev.State == player.StateIdle && (m.state == player.StateStopped || m.state == player.StateCompleted) {
			return nil
		}
		m.state = ev.State
		m.err = ev.Err
	}
	m.position = ev.Position
	if ev.Duration > 0 {
		m.duration = ev.Duration
	}

	var percent float64
	if m.duration > 0 {
		percent = float64(m.position) / float64(m.duration)
	}
	if m.state == player.StateCompleted {
		percent = 1
	}
	return m.progressBar.SetPercent(min(1, percent))
}

// View отображает модель
func (m *Model) View() string {
	if m.state == player.StateError {
		msg := "неизвестная ошибка"
		if m.err != nil {
			msg = m.err.Error()
		}
		return fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			titleStyle.Render("❌ Ошибка воспроизведения"),
			errorStyle.Render(msg),
			controlsStyle.Render("Нажмите 'q' или 'esc' для возврата"),
		)
	}

	title := titleStyle.Render("🎵 Воспроизведение")

	album := m.track.AlbumTitle
	if album == "" {
		album = "—"
	}
	trackInfo := trackInfoStyle.Render(fmt.Sprintf(
		"🎤 %s\n🎵 %s\n💿 %s",
		m.track.ArtistName,
		m.track.Title,
		album,
	))

	statusText := statusStyle.Render(formatStatus(m.state))

	timeText := fmt.Sprintf(
		"%s / %s",
		utils.FormatDuration(m.position),
		utils.FormatDuration(m.duration),
	)

	controls := controlsStyle.Render(
		"Пробел: пауза/воспроизведение • ←/→: перемотка • s: стоп • q/esc: назад к списку",
	)

	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n\n%s\n%s\n\n%s",
		title,
		trackInfo,
		statusText,
		m.progressBar.View(),
		timeText,
		controls,
	)
}

func formatStatus(state player.State) string {
	switch state {
	case player.StateLoading, player.StatePrepared:
		return "⏳ Загрузка"
	case player.StatePlaying:
		return "▶️ Воспроизведение"
	case player.StatePaused:
		return "⏸️ Пауза"
	case player.StateStopped, player.StateIdle:
		return "⏹️ Остановлено"
	case player.StateCompleted:
		return "✅ Завершено"
	default:
		return state.String()
	}
}
