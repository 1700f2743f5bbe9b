// Package tui содержит тесты для TUI компонентов
package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/worship/internal/classifier"
	"github.com/hazadus/worship/internal/data"
	"github.com/hazadus/worship/internal/player"
	"github.com/hazadus/worship/internal/search"
	"github.com/hazadus/worship/internal/track"
	"github.com/hazadus/worship/internal/tui/app"
	tuiPlayer "github.com/hazadus/worship/internal/tui/player"
	"github.com/hazadus/worship/internal/tui/prompt"
	"github.com/hazadus/worship/internal/tui/tracklist"
)

var testTracks = []data.Track{
	{ID: 1, Title: "Amazing Grace", ArtistName: "Chris Tomlin", PreviewURI: "https://example.com/1.mp3"},
	{ID: 2, Title: "Oceans", ArtistName: "Hillsong United", PreviewURI: "https://example.com/2.mp3"},
}

// fakeSearcher отдает заранее заданные итоги
type fakeSearcher struct {
	outcome search.Outcome
	queries []string
}

func (f *fakeSearcher) deliver() <-chan search.Outcome {
	ch := make(chan search.Outcome, 1)
	ch <- f.outcome
	close(ch)
	return ch
}

func (f *fakeSearcher) Search(_ context.Context, req search.Request) <-chan search.Outcome {
	f.queries = append(f.queries, req.Query)
	return f.deliver()
}

func (f *fakeSearcher) Trending(context.Context, int, int) <-chan search.Outcome {
	f.queries = append(f.queries, "<trending>")
	return f.deliver()
}

// fakeEngine запоминает вызовы
type fakeEngine struct {
	played  []int64
	stops   int
	toggles int
	events  chan player.Event
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{events: make(chan player.Event, 8)}
}

func (f *fakeEngine) Play(t data.Track) error {
	f.played = append(f.played, t.ID)
	return nil
}
func (f *fakeEngine) Toggle()                     { f.toggles++ }
func (f *fakeEngine) Stop()                       { f.stops++ }
func (f *fakeEngine) Seek(time.Duration)          {}
func (f *fakeEngine) Events() <-chan player.Event { return f.events }

// memoryStore хранилище библиотеки в памяти
type memoryStore struct {
	collections map[string][]data.Track
}

func (s *memoryStore) IsLiked(id int64) (bool, error) {
	for _, t := range s.collections[data.LikedCollection] {
		if t.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) Save(t data.Track, collection string) error {
	s.collections[collection] = append([]data.Track{t}, s.collections[collection]...)
	return nil
}

func (s *memoryStore) Remove(id int64, collection string) (bool, error) {
	tracks := s.collections[collection]
	for i, t := range tracks {
		if t.ID == id {
			s.collections[collection] = append(tracks[:i:i], tracks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) ListByCollection(collection string) ([]data.Track, error) {
	return append([]data.Track{}, s.collections[collection]...), nil
}

func (s *memoryStore) ListCollectionNames() ([]string, error) {
	names := []string{}
	for name := range s.collections {
		names = append(names, name)
	}
	return names, nil
}

func newTestModel(outcome search.Outcome) (*app.MainModel, *fakeSearcher, *fakeEngine, *memoryStore) {
	searcher := &fakeSearcher{outcome: outcome}
	engine := newFakeEngine()
	store := &memoryStore{collections: map[string][]data.Track{}}
	manager := track.NewManager(store, classifier.New())
	return app.NewMainModel(context.Background(), searcher, engine, manager, 50), searcher, engine, store
}

func found(tracks []data.Track) search.Outcome {
	return search.Outcome{Kind: search.KindFound, Tracks: tracks}
}

// run выполняет команду и передает ее сообщение модели
func run(t *testing.T, model *app.MainModel, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("Ожидалась команда")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if inner := c(); inner != nil {
				if _, isEvent := inner.(app.EngineEventMsg); !isEvent {
					model.Update(inner)
				}
			}
		}
		return
	}
	if msg != nil {
		model.Update(msg)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMainModelLoadsTrendingOnStart(t *testing.T) {
	model, searcher, engine, _ := newTestModel(found(testTracks))
	// Событие нужно, чтобы подписка на плеер вернулась
	engine.events <- player.Event{Kind: player.EventState, State: player.StateIdle}

	run(t, model, model.Init())

	if len(searcher.queries) != 1 || searcher.queries[0] != "<trending>" {
		t.Errorf("Ожидался запрос популярного, получено %v", searcher.queries)
	}
	if len(model.Entries()) != 2 {
		t.Fatalf("Ожидалось 2 трека, получено %d", len(model.Entries()))
	}
	if model.Entries()[0].Score == 0 {
		t.Error("Записи должны содержать оценку")
	}
}

func TestMainModelSearch(t *testing.T) {
	model, searcher, _, _ := newTestModel(found(testTracks[:1]))

	model.Update(key("/"))
	model.Update(key("grace"))
	_, cmd := model.Update(key("enter"))
	run(t, model, cmd)

	if len(searcher.queries) != 1 || searcher.queries[0] != "grace" {
		t.Errorf("Ожидался запрос grace, получено %v", searcher.queries)
	}
	if len(model.Entries()) != 1 || model.Entries()[0].ID != 1 {
		t.Errorf("Неверные результаты: %v", model.Entries())
	}
}

func TestMainModelEmptyAndFailedOutcomes(t *testing.T) {
	model, _, _, _ := newTestModel(search.Outcome{Kind: search.KindEmpty, Reason: "No spiritual songs found"})
	model.Update(app.OutcomeMsg{Title: "Результаты", Outcome: found(testTracks)})

	model.Update(app.OutcomeMsg{Title: "Результаты", Outcome: search.Outcome{Kind: search.KindEmpty, Reason: "No spiritual songs found"}})
	if len(model.Entries()) != 0 || model.Status() != "No spiritual songs found" {
		t.Errorf("Пустой итог должен очистить список: %v, %q", model.Entries(), model.Status())
	}

	model.Update(app.OutcomeMsg{Outcome: search.Outcome{Kind: search.KindFailed, ErrKind: search.ErrKindTransport}})
	if !strings.Contains(model.Status(), "Не удалось связаться") {
		t.Errorf("Неожиданный статус: %q", model.Status())
	}
}

func TestMainModelRouting(t *testing.T) {
	model, _, engine, _ := newTestModel(found(testTracks))
	model.Update(app.OutcomeMsg{Title: "Популярное", Outcome: found(testTracks)})

	if model.Screen() != app.TracklistScreen {
		t.Errorf("Ожидался экран списка, получено %v", model.Screen())
	}

	// Выбор трека запускает воспроизведение
	_, cmd := model.Update(key("enter"))
	run(t, model, cmd)

	if model.Screen() != app.PlayerScreen {
		t.Fatalf("Ожидался экран плеера, получено %v", model.Screen())
	}
	if len(engine.played) != 1 || engine.played[0] != 1 {
		t.Errorf("Ожидалось воспроизведение трека 1, получено %v", engine.played)
	}
	if !strings.Contains(model.View(), "Amazing Grace") {
		t.Error("Экран плеера должен показывать трек")
	}

	// Пробел переключает паузу через движок
	model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if engine.toggles != 1 {
		t.Errorf("Ожидалось 1 переключение, получено %d", engine.toggles)
	}

	// Возврат к списку останавливает плеер
	_, cmd = model.Update(key("q"))
	run(t, model, cmd)
	if model.Screen() != app.TracklistScreen {
		t.Errorf("Ожидался экран списка после возврата, получено %v", model.Screen())
	}
	if engine.stops != 1 {
		t.Errorf("Ожидалась остановка, получено %d", engine.stops)
	}

	// Ctrl+C выходит из программы
	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("Ожидалась команда tea.Quit после Ctrl+C")
	}
}

func TestMainModelEngineEventsReachPlayer(t *testing.T) {
	model, _, _, _ := newTestModel(found(testTracks))
	model.Update(tracklist.TrackSelectedMsg{Entry: track.Entry{Track: testTracks[1]}})

	_, cmd := model.Update(app.EngineEventMsg{Event: player.Event{
		Kind: player.EventProgress, State: player.StatePlaying, Track: &testTracks[1],
		Position: 7 * time.Second, Duration: 30 * time.Second,
	}})
	if cmd == nil {
		t.Error("После события должна продолжиться подписка")
	}
	if !strings.Contains(model.View(), "0:07 / 0:30") {
		t.Errorf("Прогресс не дошел до экрана плеера: %s", model.View())
	}
}

func TestMainModelLikeAndPlaylist(t *testing.T) {
	model, _, _, store := newTestModel(found(testTracks))
	model.Update(app.OutcomeMsg{Title: "Популярное", Outcome: found(testTracks)})

	_, cmd := model.Update(key("l"))
	run(t, model, cmd)
	if !model.Entries()[0].Liked {
		t.Error("Трек должен быть отмечен")
	}
	if len(store.collections[data.LikedCollection]) != 1 {
		t.Errorf("Трек не сохранен: %v", store.collections)
	}

	// Список понравившихся
	model.Update(key("L"))
	if len(model.Entries()) != 1 || model.Entries()[0].ID != 1 {
		t.Errorf("Ожидался один понравившийся трек, получено %v", model.Entries())
	}

	_, cmd = model.Update(key("p"))
	run(t, model, cmd)
	if model.Screen() != app.PromptScreen {
		t.Fatalf("Ожидался экран плейлиста, получено %v", model.Screen())
	}

	model.Update(prompt.PlaylistChosenMsg{Track: testTracks[0], Name: "Sunday"})
	if model.Screen() != app.TracklistScreen {
		t.Errorf("Ожидался возврат к списку, получено %v", model.Screen())
	}
	if len(store.collections["Sunday"]) != 1 {
		t.Errorf("Трек не добавлен в плейлист: %v", store.collections)
	}
}

func TestMainModelView(t *testing.T) {
	model, _, _, _ := newTestModel(found(testTracks))

	if view := model.View(); !strings.Contains(view, "Популярное") {
		t.Errorf("Ожидался заголовок списка, получено %q", view)
	}

	model.Update(tuiPlayer.GoBackMsg{})
	if model.Screen() != app.TracklistScreen {
		t.Error("GoBackMsg должен вернуть к списку")
	}
}
