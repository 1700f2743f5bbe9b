package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hazadus/worship/internal/data"
	"github.com/hazadus/worship/internal/player"
	"github.com/hazadus/worship/internal/utils"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	opts := &searchOptions{}
	var file, previewURL string

	cmd := &cobra.Command{
		Use:   "play [query]",
		Short: "Play a 30-second preview",
		Long: `Play the preview of a track found by query, a local mp3 file or a preview URL.
Space toggles pause, s stops playback.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := app.playbackTrack(ctx, args, file, previewURL, opts)
			if err != nil {
				return err
			}
			return app.playTrack(ctx, t)
		},
	}
	opts.bind(cmd, true)
	cmd.Flags().StringVar(&file, "file", "", "local mp3 file")
	cmd.Flags().StringVar(&previewURL, "url", "", "preview URL")
	return cmd
}

// playbackTrack определяет трек по ровно одному из источников
func (app *Application) playbackTrack(ctx context.Context, args []string, file, previewURL string, opts *searchOptions) (data.Track, error) {
	sources := len(args)
	if file != "" {
		sources++
	}
	if previewURL != "" {
		sources++
	}
	if sources != 1 {
		return data.Track{}, errors.New("укажите ровно один источник: запрос, --file или --url")
	}

	switch {
	case file != "":
		return app.Extractor.ExtractTrack(file)
	case previewURL != "":
		return trackFromURL(previewURL)
	}

	t, err := app.resolveTrack(ctx, args[0], opts)
	if err != nil {
		return data.Track{}, err
	}
	if !t.HasPreview() {
		return data.Track{}, fmt.Errorf("у трека %s нет превью", t.String())
	}
	return t, nil
}

// trackFromURL создает трек для ссылки на превью
func trackFromURL(raw string) (data.Track, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return data.Track{}, fmt.Errorf("некорректная ссылка на превью: %s", raw)
	}

	title := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	if title == "" || title == "." || title == "/" {
		title = u.Host
	}
	return data.Track{Title: title, PreviewURI: raw}, nil
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

// readSingleChar читает одиночный символ без ожидания Enter
func readSingleChar() (byte, error) {
	buffer := make([]byte, 1)
	_, err := os.Stdin.Read(buffer)
	return buffer[0], err
}

// readControls переводит нажатия клавиш в команды плеера
func (app *Application) readControls() {
	for {
		char, err := readSingleChar()
		if err != nil {
			return
		}

		switch char {
		case ' ', '\n', '\r':
			app.Engine.Toggle()
		case 's', 'q':
			app.Engine.Stop()
			return
		}
	}
}

func (app *Application) playTrack(ctx context.Context, t data.Track) error {
	fmt.Printf("🎵 Сейчас играет:\n")
	if t.ID != 0 {
		fmt.Printf("   ID: %d\n", t.ID)
	}
	if t.ArtistName != "" {
		fmt.Printf("   Исполнитель: %s\n", t.ArtistName)
	}
	fmt.Printf("   Название: %s\n", t.Title)
	if t.AlbumTitle != "" {
		fmt.Printf("   Альбом: %s\n", t.AlbumTitle)
	}
	if t.DurationSeconds > 0 {
		fmt.Printf("   Продолжительность: %s\n", utils.FormatDurationFromSeconds(t.DurationSeconds))
	}
	fmt.Println()

	events := app.Engine.Events()
	if err := app.Engine.Play(t); err != nil {
		return fmt.Errorf("ошибка запуска воспроизведения: %w", err)
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Printf("🎮 Управление:\n")
		fmt.Printf("   [Пробел] - пауза/воспроизведение\n")
		fmt.Printf("   [s] - остановить\n")
		fmt.Printf("   [Ctrl+C] - остановить и выйти\n")
		fmt.Println()

		// Включаем raw режим для чтения одиночных клавиш
		enableRawMode()
		defer disableRawMode()
		go app.readControls()
	}

	// Главный цикл обработки событий
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Kind == player.EventProgress {
				displayProgress(ev)
				continue
			}

			switch ev.State {
			case player.StateLoading:
				fmt.Printf("🌐 Загружаем превью...\n")
			case player.StatePlaying:
				fmt.Printf("\r\033[K▶️  Воспроизведение\n")
			case player.StatePaused:
				fmt.Printf("\r\033[K⏸️  Пауза\n")
			case player.StateCompleted:
				fmt.Println("\n✅ Воспроизведение завершено")
				return nil
			case player.StateStopped:
				fmt.Println("\n⏹️  Воспроизведение остановлено")
				return nil
			case player.StateError:
				return fmt.Errorf("ошибка воспроизведения: %w", ev.Err)
			}
		case <-ctx.Done():
			app.Engine.Stop()
			fmt.Println("\n🚫 Воспроизведение прервано")
			return nil
		}
	}
}

// displayProgress отображает прогресс воспроизведения
func displayProgress(ev player.Event) {
	statusIcon := "⏱️"
	if ev.State == player.StatePaused {
		statusIcon = "⏸️"
	}

	if ev.Duration <= 0 {
		fmt.Printf("\r%s  %s", statusIcon, utils.FormatDuration(ev.Position))
		return
	}

	percent := float64(ev.Position) / float64(ev.Duration) * 100
	fmt.Printf("\r%s  %.1f%% | %s / %s",
		statusIcon,
		percent,
		utils.FormatDuration(ev.Position),
		utils.FormatDuration(ev.Duration))
}
