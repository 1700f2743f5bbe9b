package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hazadus/worship/internal/data"
)

// createLikeCommand создает команду like
func (app *Application) createLikeCommand(ctx context.Context) *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "like [query]",
		Short: "Like or unlike a track found by query",
		Long:  `Search the catalogue and toggle the liked mark of the selected track.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := app.resolveTrack(ctx, args[0], opts)
			if err != nil {
				return err
			}
			return app.toggleLike(t)
		},
	}
	opts.bind(cmd, true)
	return cmd
}

func (app *Application) toggleLike(t data.Track) error {
	liked, err := app.Tracks.ToggleLike(t)
	if err != nil {
		return fmt.Errorf("ошибка сохранения отметки: %w", err)
	}

	if liked {
		fmt.Printf("❤️  Добавлено в понравившиеся: %s\n", t.String())
	} else {
		fmt.Printf("💔 Удалено из понравившихся: %s\n", t.String())
	}
	return nil
}

// createLikedCommand создает команду liked
func (app *Application) createLikedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "liked",
		Short: "List liked tracks",
		Long:  `Display liked tracks, most recently liked first.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.listLiked()
		},
	}
}

func (app *Application) listLiked() error {
	tracks, err := app.Tracks.Liked()
	if err != nil {
		return fmt.Errorf("ошибка чтения библиотеки: %w", err)
	}

	if len(tracks) == 0 {
		fmt.Println("📚 Понравившихся треков пока нет. Отметьте треки с помощью команды 'like'.")
		return nil
	}

	fmt.Printf("❤️  Понравившиеся треки: %d\n\n", len(tracks))
	return app.printTracks(tracks)
}

func (app *Application) printTracks(tracks []data.Track) error {
	entries, err := app.Tracks.Annotate(tracks)
	if err != nil {
		return fmt.Errorf("ошибка чтения библиотеки: %w", err)
	}
	fmt.Println(renderEntries(entries))
	return nil
}

// createPlaylistCommand создает группу команд для плейлистов
func (app *Application) createPlaylistCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Manage playlists",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List playlists",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.listPlaylists()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show tracks of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.showPlaylist(args[0])
		},
	})

	opts := &searchOptions{}
	addCmd := &cobra.Command{
		Use:   "add [name] [query]",
		Short: "Add a track found by query to a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := app.resolveTrack(ctx, args[1], opts)
			if err != nil {
				return err
			}
			return app.addToPlaylist(args[0], t)
		},
	}
	opts.bind(addCmd, true)
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove [name] [trackid]",
		Short: "Remove a track from a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			trackID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("неверный ID трека: %s", args[1])
			}
			return app.removeFromPlaylist(args[0], trackID)
		},
	})

	return cmd
}

func (app *Application) listPlaylists() error {
	names, err := app.Tracks.Playlists()
	if err != nil {
		return fmt.Errorf("ошибка чтения библиотеки: %w", err)
	}

	if len(names) == 0 {
		fmt.Println("📚 Плейлистов пока нет. Создайте плейлист с помощью команды 'playlist add'.")
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		tracks, err := app.Tracks.Playlist(name)
		if err != nil {
			return fmt.Errorf("ошибка чтения плейлиста %q: %w", name, err)
		}
		rows = append(rows, []string{name, strconv.Itoa(len(tracks))})
	}

	fmt.Printf("📚 Плейлистов: %d\n\n", len(names))
	fmt.Println(renderTable([]string{"Плейлист", "Треков"}, rows, []columnAlignment{alignLeft, alignRight}))
	return nil
}

func (app *Application) showPlaylist(name string) error {
	tracks, err := app.Tracks.Playlist(name)
	if err != nil {
		return err
	}

	if len(tracks) == 0 {
		fmt.Printf("📚 Плейлист %q пуст\n", name)
		return nil
	}

	fmt.Printf("📚 Плейлист %q: %d треков\n\n", name, len(tracks))
	return app.printTracks(tracks)
}

func (app *Application) addToPlaylist(name string, t data.Track) error {
	if err := app.Tracks.AddToPlaylist(t, name); err != nil {
		return err
	}
	fmt.Printf("✅ Трек %s добавлен в плейлист %q\n", t.String(), name)
	return nil
}

func (app *Application) removeFromPlaylist(name string, trackID int64) error {
	removed, err := app.Tracks.RemoveFromPlaylist(trackID, name)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("трек с ID %d не найден в плейлисте %q", trackID, name)
	}
	fmt.Printf("🗑️  Трек с ID %d удален из плейлиста %q\n", trackID, name)
	return nil
}
