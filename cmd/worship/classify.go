package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/worship/internal/classifier"
	"github.com/hazadus/worship/internal/data"
)

// createClassifyCommand создает команду classify
func (app *Application) createClassifyCommand() *cobra.Command {
	var t data.Track
	var file string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Check whether a track looks like spiritual music",
		Long: `Score a track by its title, artist and album, or by the tags of a local mp3 file.
A track is spiritual when any field contains a keyword or the artist is well known.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.classifyCmd(t, file)
		},
	}
	cmd.Flags().StringVar(&t.Title, "title", "", "track title")
	cmd.Flags().StringVar(&t.ArtistName, "artist", "", "artist name")
	cmd.Flags().StringVar(&t.AlbumTitle, "album", "", "album title")
	cmd.Flags().StringVar(&file, "file", "", "local mp3 file to read tags from")
	cmd.MarkFlagsMutuallyExclusive("file", "title")
	cmd.MarkFlagsMutuallyExclusive("file", "artist")
	cmd.MarkFlagsMutuallyExclusive("file", "album")
	return cmd
}

func (app *Application) classifyCmd(t data.Track, file string) error {
	if file != "" {
		extracted, err := app.Extractor.ExtractTrack(file)
		if err != nil {
			return fmt.Errorf("ошибка чтения файла: %w", err)
		}
		t = extracted
	}

	if strings.TrimSpace(t.Title+t.ArtistName+t.AlbumTitle) == "" {
		return errors.New("укажите --title, --artist, --album или --file")
	}

	cls := app.Search.Classifier()
	score := cls.Score(t)

	fmt.Printf("🎵 Трек: %s\n", t.String())
	if t.AlbumTitle != "" {
		fmt.Printf("   Альбом: %s\n", t.AlbumTitle)
	}
	fmt.Printf("📊 Оценка: %d / %d\n", score, classifier.MaxScore)
	if cls.IsKnownArtist(t.ArtistName) {
		fmt.Println("⭐ Известный исполнитель духовной музыки")
	}

	if cls.IsSpiritual(t) {
		fmt.Println("✅ Духовная музыка")
	} else {
		fmt.Println("❌ Не похоже на духовную музыку")
	}
	return nil
}
