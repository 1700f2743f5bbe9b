// Package app содержит основную логику TUI приложения
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/worship/internal/data"
	"github.com/hazadus/worship/internal/player"
	"github.com/hazadus/worship/internal/search"
	"github.com/hazadus/worship/internal/track"
	tuiPlayer "github.com/hazadus/worship/internal/tui/player"
	"github.com/hazadus/worship/internal/tui/prompt"
	"github.com/hazadus/worship/internal/tui/tracklist"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(4)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).PaddingLeft(4)
	searchStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// TracklistScreen - экран результатов
	TracklistScreen ScreenType = iota
	// PlayerScreen - экран плеера
	PlayerScreen
	// PromptScreen - экран выбора плейлиста
	PromptScreen
)

// Searcher запускает поиск в каталоге
type Searcher interface {
	Search(ctx context.Context, req search.Request) <-chan search.Outcome
	Trending(ctx context.Context, limit, offset int) <-chan search.Outcome
}

// Engine движок воспроизведения
type Engine interface {
	tuiPlayer.Controls
	Play(track data.Track) error
	Events() <-chan player.Event
}

// Library понравившиеся треки и плейлисты
type Library interface {
	Annotate(tracks []data.Track) ([]track.Entry, error)
	ToggleLike(t data.Track) (bool, error)
	Liked() ([]data.Track, error)
	AddToPlaylist(t data.Track, name string) error
	Playlists() ([]string, error)
}

// OutcomeMsg итог поиска
type OutcomeMsg struct {
	Title   string
	Outcome search.Outcome
}

// EngineEventMsg событие движка воспроизведения
type EngineEventMsg struct {
	Event player.Event
}

// MainModel представляет главную модель TUI
type MainModel struct {
	ctx      context.Context
	searcher Searcher
	engine   Engine
	library  Library
	limit    int

	currentScreen  ScreenType
	tracklistModel *tracklist.Model
	playerModel    *tuiPlayer.Model
	promptModel    *prompt.Model

	searchInput textinput.Model
	searching   bool
	status      string
	statusErr   bool
	width       int
	height      int
}

// NewMainModel создает новую главную модель. limit задает размер страницы поиска.
func NewMainModel(ctx context.Context, searcher Searcher, engine Engine, library Library, limit int) *MainModel {
	input := textinput.New()
	input.Prompt = "🔍 "
	input.Placeholder = "Поиск: нажмите /"
	input.CharLimit = 120

	return &MainModel{
		ctx:            ctx,
		searcher:       searcher,
		engine:         engine,
		library:        library,
		limit:          limit,
		currentScreen:  TracklistScreen,
		tracklistModel: tracklist.NewModel("Популярное", nil),
		searchInput:    input,
		status:         "Загрузка популярного...",
	}
}

// Init загружает популярное и подписывается на события плеера
func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.trending(),
		m.listenForEvents(),
	)
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Глобальные горячие клавиши
		if msg.String() == "ctrl+c" {
			m.engine.Stop()
			return m, tea.Quit
		}
		if m.currentScreen == TracklistScreen {
			return m.updateTracklistKeys(msg)
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.searchInput.Width = msg.Width - 10
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.tracklistModel, cmd = m.tracklistModel.Update(msg)
		cmds = append(cmds, cmd)
		if m.playerModel != nil {
			_, cmd = m.playerModel.Update(msg)
			cmds = append(cmds, cmd)
		}
		if m.promptModel != nil {
			m.promptModel, cmd = m.promptModel.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case OutcomeMsg:
		m.applyOutcome(msg)
		return m, nil

	case EngineEventMsg:
		var cmd tea.Cmd
		if m.playerModel != nil {
			_, cmd = m.playerModel.Update(tuiPlayer.EventMsg{Event: msg.Event})
		}
		return m, tea.Batch(cmd, m.listenForEvents())

	case tracklist.TrackSelectedMsg:
		return m, m.play(msg.Entry.Track)

	case tracklist.ToggleLikeMsg:
		m.toggleLike(msg.Entry)
		return m, nil

	case tracklist.AddToPlaylistMsg:
		playlists, err := m.library.Playlists()
		if err != nil {
			m.setError(fmt.Sprintf("Ошибка чтения плейлистов: %v", err))
			return m, nil
		}
		m.currentScreen = PromptScreen
		m.promptModel = prompt.NewModel(msg.Entry.Track, playlists)
		return m, m.promptModel.Init()

	case prompt.PlaylistChosenMsg:
		if err := m.library.AddToPlaylist(msg.Track, msg.Name); err != nil {
			m.setError(fmt.Sprintf("Ошибка добавления в плейлист: %v", err))
		} else {
			m.setStatus(fmt.Sprintf("Добавлено в плейлист %q", msg.Name))
		}
		m.currentScreen = TracklistScreen
		m.promptModel = nil
		return m, nil

	case prompt.GoBackMsg:
		m.currentScreen = TracklistScreen
		m.promptModel = nil
		return m, nil

	case tuiPlayer.GoBackMsg:
		m.currentScreen = TracklistScreen
		m.playerModel = nil
		return m, nil
	}

	// Передаем сообщение активной модели
	var cmd tea.Cmd
	switch m.currentScreen {
	case TracklistScreen:
		if m.searching {
			m.searchInput, cmd = m.searchInput.Update(msg)
		} else {
			m.tracklistModel, cmd = m.tracklistModel.Update(msg)
		}
	case PlayerScreen:
		if m.playerModel != nil {
			_, cmd = m.playerModel.Update(msg)
		}
	case PromptScreen:
		if m.promptModel != nil {
			m.promptModel, cmd = m.promptModel.Update(msg)
		}
	}
	return m, cmd
}

// updateTracklistKeys обрабатывает клавиши экрана результатов
func (m *MainModel) updateTracklistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter":
			query := m.searchInput.Value()
			m.searching = false
			m.searchInput.Blur()
			return m, m.search(query)
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.engine.Stop()
		return m, tea.Quit
	case "/":
		m.searching = true
		m.searchInput.SetValue("")
		return m, m.searchInput.Focus()
	case "t":
		return m, m.trending()
	case "L":
		m.showLiked()
		return m, nil
	}

	var cmd tea.Cmd
	m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case TracklistScreen:
		status := statusStyle.Render(m.status)
		if m.statusErr {
			status = errorStyle.Render(m.status)
		}
		return strings.Join([]string{
			searchStyle.Render(m.searchInput.View()),
			m.tracklistModel.View(),
			status,
			tracklist.Help(),
		}, "\n")

	case PlayerScreen:
		if m.playerModel != nil {
			return m.playerModel.View()
		}
		return "Ошибка: модель плеера не инициализирована"

	case PromptScreen:
		if m.promptModel != nil {
			return m.promptModel.View()
		}
		return "Ошибка: модель плейлиста не инициализирована"

	default:
		return "Неизвестный экран"
	}
}

// search запускает поиск. Предыдущий поиск вытесняется оркестратором.
func (m *MainModel) search(query string) tea.Cmd {
	m.setStatus(fmt.Sprintf("Поиск %q...", strings.TrimSpace(query)))
	ch := m.searcher.Search(m.ctx, search.Request{Query: query, Limit: m.limit})
	return waitForOutcome(ch, fmt.Sprintf("Результаты: %s", strings.TrimSpace(query)))
}

// trending загружает популярные треки
func (m *MainModel) trending() tea.Cmd {
	m.setStatus("Загрузка популярного...")
	return waitForOutcome(m.searcher.Trending(m.ctx, m.limit, 0), "Популярное")
}

// waitForOutcome ждет итог поиска. Вытесненный поиск не порождает сообщения.
func waitForOutcome(ch <-chan search.Outcome, title string) tea.Cmd {
	return func() tea.Msg {
		outcome, ok := <-ch
		if !ok {
			return nil
		}
		return OutcomeMsg{Title: title, Outcome: outcome}
	}
}

// listenForEvents ждет следующее событие плеера
func (m *MainModel) listenForEvents() tea.Cmd {
	events := m.engine.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return EngineEventMsg{Event: ev}
	}
}

func (m *MainModel) applyOutcome(msg OutcomeMsg) {
	outcome := msg.Outcome
	if !outcome.OK() {
		m.tracklistModel.SetEntries(msg.Title, nil)
		if outcome.Kind == search.KindFailed {
			m.setError(outcome.UserMessage())
		} else {
			m.setStatus(outcome.UserMessage())
		}
		return
	}

	entries, err := m.library.Annotate(outcome.Tracks)
	if err != nil {
		m.setError(fmt.Sprintf("Ошибка чтения библиотеки: %v", err))
		return
	}
	m.tracklistModel.SetEntries(msg.Title, entries)
	m.setStatus(outcome.UserMessage())
}

func (m *MainModel) play(t data.Track) tea.Cmd {
	if err := m.engine.Play(t); err != nil {
		m.setError(fmt.Sprintf("Ошибка воспроизведения: %v", err))
		return nil
	}
	m.currentScreen = PlayerScreen
	m.playerModel = tuiPlayer.NewModel(t, m.engine)
	if m.width > 0 {
		m.playerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return m.playerModel.Init()
}

func (m *MainModel) toggleLike(entry track.Entry) {
	liked, err := m.library.ToggleLike(entry.Track)
	if err != nil {
		m.setError(fmt.Sprintf("Ошибка сохранения: %v", err))
		return
	}
	entry.Liked = liked
	m.tracklistModel.UpdateEntry(entry)
	if liked {
		m.setStatus(fmt.Sprintf("♥ %s", entry.String()))
	} else {
		m.setStatus(fmt.Sprintf("Отметка снята: %s", entry.String()))
	}
}

func (m *MainModel) showLiked() {
	tracks, err := m.library.Liked()
	if err == nil {
		var entries []track.Entry
		if entries, err = m.library.Annotate(tracks); err == nil {
			m.tracklistModel.SetEntries("Понравившиеся", entries)
			m.setStatus(fmt.Sprintf("Понравившихся треков: %d", len(entries)))
			return
		}
	}
	m.setError(fmt.Sprintf("Ошибка чтения библиотеки: %v", err))
}

func (m *MainModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *MainModel) setError(s string) {
	m.status, m.statusErr = s, true
}

// Screen возвращает текущий экран
func (m *MainModel) Screen() ScreenType {
	return m.currentScreen
}

// Status возвращает строку статуса
func (m *MainModel) Status() string {
	return m.status
}

// Entries возвращает записи текущего списка
func (m *MainModel) Entries() []track.Entry {
	return m.tracklistModel.Entries()
}

// Close останавливает воспроизведение. Движок закрывает его владелец.
func (m *MainModel) Close() {
	m.engine.Stop()
}
