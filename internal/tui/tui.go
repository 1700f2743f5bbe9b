// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/worship/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	searcher app.Searcher
	engine   app.Engine
	library  app.Library
	limit    int
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(searcher app.Searcher, engine app.Engine, library app.Library, limit int) *App {
	return &App{
		searcher: searcher,
		engine:   engine,
		library:  library,
		limit:    limit,
	}
}

// Run запускает TUI приложение. Отмена ctx прерывает поиск и закрывает программу.
func (tuiApp *App) Run(ctx context.Context) error {
	model := app.NewMainModel(ctx, tuiApp.searcher, tuiApp.engine, tuiApp.library, tuiApp.limit)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()

	// Останавливаем плеер после завершения программы
	model.Close()

	return err
}
