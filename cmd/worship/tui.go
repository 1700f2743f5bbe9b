package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/worship/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for searching, playing and collecting tracks.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			tuiApp := tui.NewApp(app.Search, app.Engine, app.Tracks, app.Config.Search.Limit)
			return tuiApp.Run(ctx)
		},
	}
}
