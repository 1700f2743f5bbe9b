package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/worship/internal/data"
	"github.com/hazadus/worship/internal/search"
)

// searchOptions флаги, общие для команд, которые ищут треки
type searchOptions struct {
	limit       int
	offset      int
	minScore    int
	highQuality bool
	index       int
}

func (o *searchOptions) bind(cmd *cobra.Command, withIndex bool) {
	cmd.Flags().IntVar(&o.limit, "limit", 0, "maximum number of tracks to request (0 uses the configured limit)")
	cmd.Flags().IntVar(&o.offset, "offset", 0, "offset of the first result")
	cmd.Flags().IntVar(&o.minScore, "min-score", 0, "keep only tracks scored at least this value")
	cmd.Flags().BoolVar(&o.highQuality, "high-quality", false, "apply the configured minimum score")
	if withIndex {
		cmd.Flags().IntVar(&o.index, "index", 1, "number of the track in the search results")
	}
}

// createSearchCommand создает команду search с привязкой к экземпляру приложения
func (app *Application) createSearchCommand(ctx context.Context) *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search spiritual songs in the catalogue",
		Long:  `Search the catalogue and keep only tracks the classifier considers spiritual.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.searchCmd(ctx, args[0], opts)
		},
	}
	opts.bind(cmd, false)
	return cmd
}

// createTrendingCommand создает команду trending
func (app *Application) createTrendingCommand(ctx context.Context) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show a selection of popular spiritual songs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.trendingCmd(ctx, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of tracks (0 uses the configured limit)")
	return cmd
}

func (app *Application) searchCmd(ctx context.Context, query string, opts *searchOptions) error {
	outcome, err := app.findTracks(ctx, query, opts)
	if err != nil {
		return err
	}
	return app.printOutcome(outcome)
}

func (app *Application) trendingCmd(ctx context.Context, limit int) error {
	fmt.Println("🔥 Подбираем популярные духовные треки...")

	outcome, err := awaitOutcome(ctx, app.Search.Trending(ctx, limit, 0))
	if err != nil {
		return err
	}
	return app.printOutcome(outcome)
}

// findTracks выполняет поиск и ждет его итог
func (app *Application) findTracks(ctx context.Context, query string, opts *searchOptions) (search.Outcome, error) {
	minScore := opts.minScore
	if minScore == 0 && opts.highQuality {
		minScore = app.Config.Search.MinimumScore
	}

	fmt.Printf("🔍 Ищем: %q\n", query)

	var outcomes <-chan search.Outcome
	if minScore > 0 {
		outcomes = app.Search.SearchHighQuality(ctx, query, minScore)
	} else {
		outcomes = app.Search.Search(ctx, search.Request{Query: query, Limit: opts.limit, Offset: opts.offset})
	}
	return awaitOutcome(ctx, outcomes)
}

// awaitOutcome ждет единственный итог поиска. Канал, закрытый без значения,
// означает, что поиск был отменен.
func awaitOutcome(ctx context.Context, outcomes <-chan search.Outcome) (search.Outcome, error) {
	select {
	case outcome, ok := <-outcomes:
		if !ok {
			if err := ctx.Err(); err != nil {
				return search.Outcome{}, fmt.Errorf("поиск отменен: %w", err)
			}
			return search.Outcome{}, errors.New("поиск прерван")
		}
		return outcome, nil
	case <-ctx.Done():
		return search.Outcome{}, fmt.Errorf("поиск отменен: %w", ctx.Err())
	}
}

// outcomeTracks возвращает найденные треки. Пустой итог не считается ошибкой.
func outcomeTracks(outcome search.Outcome) ([]data.Track, error) {
	switch outcome.Kind {
	case search.KindFound:
		return outcome.Tracks, nil
	case search.KindEmpty:
		fmt.Printf("🤷 %s\n", outcome.Reason)
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: %w", outcome.UserMessage(), outcome.Err)
	}
}

func (app *Application) printOutcome(outcome search.Outcome) error {
	tracks, err := outcomeTracks(outcome)
	if err != nil || len(tracks) == 0 {
		return err
	}

	entries, err := app.Tracks.Annotate(tracks)
	if err != nil {
		return fmt.Errorf("ошибка чтения библиотеки: %w", err)
	}

	fmt.Printf("📚 Найдено треков: %d (в ответе каталога: %d, всего у каталога: %d)\n\n",
		outcome.KeptAfterFilter, outcome.TotalReturned, outcome.RemoteTotal)
	fmt.Println(renderEntries(entries))
	fmt.Println()
	if outcome.Attempts > 1 {
		fmt.Printf("ℹ️  Использован запасной запрос: %q\n", outcome.Query)
	}
	fmt.Println("💡 Используйте 'worship play [query] --index N' для воспроизведения трека")
	return nil
}

// pickTrack выбирает трек по номеру, начиная с 1
func pickTrack(tracks []data.Track, index int) (data.Track, error) {
	if len(tracks) == 0 {
		return data.Track{}, errors.New("треки не найдены")
	}
	if index < 1 || index > len(tracks) {
		return data.Track{}, fmt.Errorf("номер трека %d вне диапазона 1..%d", index, len(tracks))
	}
	return tracks[index-1], nil
}

// resolveTrack ищет треки по запросу и выбирает один из них
func (app *Application) resolveTrack(ctx context.Context, query string, opts *searchOptions) (data.Track, error) {
	outcome, err := app.findTracks(ctx, query, opts)
	if err != nil {
		return data.Track{}, err
	}
	tracks, err := outcomeTracks(outcome)
	if err != nil {
		return data.Track{}, err
	}
	return pickTrack(tracks, opts.index)
}
