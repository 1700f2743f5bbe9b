package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/worship/internal/config"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "worship",
		Short: "Search, play and collect spiritual music",
		Long: `Search the Deezer catalogue for worship and gospel songs, play 30-second previews
and keep liked songs and playlists in a local library.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.setup(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "path to the config file")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createSearchCommand(ctx))
	rootCmd.AddCommand(app.createTrendingCommand(ctx))
	rootCmd.AddCommand(app.createClassifyCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createLikeCommand(ctx))
	rootCmd.AddCommand(app.createLikedCommand())
	rootCmd.AddCommand(app.createPlaylistCommand(ctx))
	rootCmd.AddCommand(app.createBackupCommand(ctx))
	rootCmd.AddCommand(app.createTUICommand(ctx))

	return rootCmd
}
