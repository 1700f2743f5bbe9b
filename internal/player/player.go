// Package player содержит движок воспроизведения превью: конечный автомат
// над одним потоковым ресурсом с управлением и событиями прогресса
package player

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hazadus/worship/internal/data"
	"github.com/hazadus/worship/internal/logger"
)

const (
	DefaultProgressInterval = 500 * time.Millisecond
	DefaultFallbackDuration = 30 * time.Second
)

// Engine управляет воспроизведением. Одновременно открыт не более чем один
// ресурс; все изменения состояния выполняются под одним мьютексом, а номер
// сеанса отсекает запоздавшие загрузки, тики и сигналы завершения.
type Engine struct {
	backend          Backend
	logger           *log.Logger
	interval         time.Duration
	fallbackDuration time.Duration

	mu       sync.Mutex
	closed   bool
	session  uint64
	state    State
	track    *data.Track
	res      Resource
	duration time.Duration
	pausedAt time.Duration
	lastErr  error

	sessionCancel context.CancelFunc // Отменяет загрузку и все горутины сеанса
	sessionCtx    context.Context
	tickCancel    context.CancelFunc

	pending *loadJob
	wake    chan struct{}

	queue  *eventQueue
	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
}

type loadJob struct {
	ctx     context.Context
	session uint64
	track   data.Track
}

// Option настраивает Engine
type Option func(*Engine)

// WithProgressInterval задает период событий прогресса
func WithProgressInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithFallbackDuration задает длительность, если ресурс не знает свою длину
func WithFallbackDuration(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.fallbackDuration = d
		}
	}
}

// WithLogger задает логгер
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New создает плеер в состоянии Idle
func New(backend Backend, opts ...Option) *Engine {
	e := &Engine{
		backend:          backend,
		logger:           logger.Discard(),
		interval:         DefaultProgressInterval,
		fallbackDuration: DefaultFallbackDuration,
		state:            StateIdle,
		wake:             make(chan struct{}, 1),
		queue:            newEventQueue(),
		events:           make(chan Event),
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.wg.Add(2)
	go e.loadLoop()
	go e.dispatch()
	return e
}

// Events возвращает канал событий. Канал закрывается после Close.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Play начинает воспроизведение трека из любого состояния. Загрузка идет
// асинхронно; ошибка загрузки переводит плеер в StateError.
func (e *Engine) Play(track data.Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	// Предыдущий ресурс закрывается до того, как новая загрузка попадет к загрузчику
	if e.res != nil {
		e.stopTickerLocked()
		e.releaseLocked()
		e.setStateLocked(StateStopped, nil)
	}
	e.endSessionLocked()

	t := track
	e.track = &t
	e.duration = 0
	e.pausedAt = 0
	e.lastErr = nil

	ctx, cancel := context.WithCancel(context.Background())
	e.sessionCtx = ctx
	e.sessionCancel = cancel
	e.pending = &loadJob{ctx: ctx, session: e.session, track: t}
	e.setStateLocked(StateLoading, nil)

	select {
	case e.wake <- struct{}{}:
	default:
	}

	e.logger.Debug("загрузка превью", "session", e.session, "track", t.String())
	return nil
}

// Pause ставит воспроизведение на паузу. Действует только в StatePlaying.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying || e.res == nil {
		return
	}
	e.pausedAt = e.res.Position()
	e.res.Pause()
	e.stopTickerLocked()
	e.setStateLocked(StatePaused, nil)
}

// Resume продолжает воспроизведение. Действует только в StatePaused.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePaused || e.res == nil {
		return
	}
	e.res.Start()
	e.setStateLocked(StatePlaying, nil)
	e.startTickerLocked()
}

// Toggle переключает паузу и воспроизведение
func (e *Engine) Toggle() {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()

	switch state {
	case StatePlaying:
		e.Pause()
	case StatePaused:
		e.Resume()
	}
}

// Stop освобождает ресурс и возвращает плеер в StateIdle. В StateIdle ничего не делает.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.state == StateIdle {
		return
	}
	e.stopTickerLocked()
	e.releaseLocked()
	e.setStateLocked(StateStopped, nil)
	e.endSessionLocked()
	e.resetLocked()
}

// Seek перемещает позицию с ограничением диапазоном [0, длительность].
// Без загруженного ресурса ничего не делает.
func (e *Engine) Seek(pos time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.res == nil || !e.preparedLocked() {
		return
	}
	pos = max(0, min(pos, e.duration))
	if err := e.res.Seek(pos); err != nil {
		e.logger.Warn("перемотка не удалась", "session", e.session, "position", pos, "err", err)
		return
	}
	if e.state == StatePaused {
		e.pausedAt = pos
	}
	e.emitLocked(Event{Kind: EventProgress, State: e.state, Position: pos, Duration: e.duration})
}

// Close освобождает ресурсы и останавливает фоновые горутины. Повторный вызов безопасен.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.endSessionLocked()
	e.releaseLocked()
	e.state = StateIdle
	e.resetLocked()
	e.closed = true
	e.mu.Unlock()

	close(e.done)
	e.wg.Wait()
	return nil
}

// State возвращает текущее состояние
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentTrack возвращает копию текущего трека или nil
func (e *Engine) CurrentTrack() *data.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trackLocked()
}

// Position возвращает текущую позицию
func (e *Engine) Position() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

// Duration возвращает длительность загруженного превью
func (e *Engine) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// IsPlaying возвращает true, если трек воспроизводится
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StatePlaying
}

// IsPrepared возвращает true, если ресурс загружен
func (e *Engine) IsPrepared() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.res != nil && e.preparedLocked()
}

// LastError возвращает ошибку, которая перевела плеер в StateError
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Snapshot возвращает состояние, трек и позицию, снятые атомарно
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:    e.state,
		Track:    e.trackLocked(),
		Position: e.positionLocked(),
		Duration: e.duration,
		Err:      e.lastErr,
	}
}

// loadLoop единственный загрузчик: загрузки никогда не идут параллельно,
// поэтому предыдущий ресурс всегда закрыт до открытия следующего
func (e *Engine) loadLoop() {
	defer e.wg.Done()

	for {
		select {
		case <-e.done:
			return
		case <-e.wake:
		}

		e.mu.Lock()
		job := e.pending
		e.pending = nil
		e.mu.Unlock()
		if job == nil {
			continue
		}

		res, err := e.open(job)
		e.finishLoad(job, res, err)
	}
}

func (e *Engine) open(job *loadJob) (Resource, error) {
	if job.ctx.Err() != nil {
		return nil, job.ctx.Err()
	}
	uri := strings.TrimSpace(job.track.PreviewURI)
	if uri == "" {
		return nil, errors.New("у трека нет ссылки на превью")
	}
	return e.backend.Open(job.ctx, uri)
}

func (e *Engine) finishLoad(job *loadJob, res Resource, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || job.session != e.session || e.state != StateLoading {
		if res != nil {
			e.closeResource(res)
		}
		e.logger.Debug("устаревшая загрузка отброшена", "session", job.session)
		return
	}

	if err != nil {
		e.lastErr = fmt.Errorf("%w: %w", ErrPlaybackResource, err)
		e.logger.Warn("не удалось загрузить превью", "session", job.session, "track", job.track.String(), "err", err)
		e.setStateLocked(StateError, e.lastErr)
		return
	}

	e.res = res
	e.duration = res.Duration()
	if e.duration <= 0 {
		e.duration = e.fallbackDuration
	}
	e.setStateLocked(StatePrepared, nil)

	res.Start()
	e.setStateLocked(StatePlaying, nil)
	e.startTickerLocked()

	e.wg.Add(1)
	go e.watchFinished(job.ctx, job.session, res)
}

func (e *Engine) watchFinished(ctx context.Context, session uint64, res Resource) {
	defer e.wg.Done()

	select {
	case <-ctx.Done():
	case <-e.done:
	case err := <-res.Finished():
		e.handleFinished(session, err)
	}
}

func (e *Engine) handleFinished(session uint64, streamErr error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || session != e.session || e.res == nil {
		return
	}

	if streamErr != nil {
		if e.state != StatePlaying && e.state != StatePaused {
			return
		}
		e.lastErr = fmt.Errorf("%w: %w", ErrPlaybackResource, streamErr)
		e.logger.Warn("поток прерван", "session", session, "err", streamErr)
		e.stopTickerLocked()
		e.releaseLocked()
		e.setStateLocked(StateError, e.lastErr)
		e.endSessionLocked()
		return
	}

	if e.state != StatePlaying {
		return
	}
	e.stopTickerLocked()
	e.releaseLocked()
	e.pausedAt = 0
	e.setStateLocked(StateCompleted, nil)
	e.endSessionLocked()
	e.resetLocked()
}

func (e *Engine) startTickerLocked() {
	e.stopTickerLocked()

	ctx, cancel := context.WithCancel(e.sessionCtx)
	e.tickCancel = cancel
	e.wg.Add(1)
	go e.tick(ctx, e.session)
}

func (e *Engine) stopTickerLocked() {
	if e.tickCancel != nil {
		e.tickCancel()
		e.tickCancel = nil
	}
}

func (e *Engine) tick(ctx context.Context, session uint64) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.done:
			return
		case <-ticker.C:
			e.mu.Lock()
			if session != e.session || e.state != StatePlaying || e.res == nil {
				e.mu.Unlock()
				return
			}
			e.emitLocked(Event{
				Kind:     EventProgress,
				State:    e.state,
				Position: e.res.Position(),
				Duration: e.duration,
			})
			e.mu.Unlock()
		}
	}
}

// endSessionLocked завершает текущий сеанс: отменяет загрузку, тикер и
// наблюдателя, а номер нового сеанса делает все их результаты устаревшими
func (e *Engine) endSessionLocked() {
	e.stopTickerLocked()
	if e.sessionCancel != nil {
		e.sessionCancel()
		e.sessionCancel = nil
	}
	e.pending = nil
	e.session++
}

func (e *Engine) releaseLocked() {
	if e.res == nil {
		return
	}
	e.closeResource(e.res)
	e.res = nil
}

func (e *Engine) closeResource(res Resource) {
	if err := res.Close(); err != nil {
		e.logger.Warn("ошибка закрытия ресурса", "err", err)
	}
}

// resetLocked переводит плеер в StateIdle без трека
func (e *Engine) resetLocked() {
	e.track = nil
	e.duration = 0
	e.pausedAt = 0
	e.lastErr = nil
	if e.state != StateIdle {
		e.setStateLocked(StateIdle, nil)
	}
}

func (e *Engine) setStateLocked(state State, err error) {
	e.state = state
	e.emitLocked(Event{
		Kind:     EventState,
		State:    state,
		Position: e.positionLocked(),
		Duration: e.duration,
		Err:      err,
	})
}

func (e *Engine) emitLocked(ev Event) {
	ev.Session = e.session
	ev.Track = e.trackLocked()
	e.queue.push(ev)
}

func (e *Engine) dispatch() {
	defer e.wg.Done()
	defer close(e.events)

	for {
		for _, ev := range e.queue.drain() {
			select {
			case e.events <- ev:
			case <-e.done:
				return
			}
		}

		select {
		case <-e.queue.signal:
		case <-e.done:
			return
		}
	}
}

func (e *Engine) preparedLocked() bool {
	return e.state == StatePrepared || e.state == StatePlaying || e.state == StatePaused
}

func (e *Engine) positionLocked() time.Duration {
	if e.res == nil {
		return 0
	}
	if e.state == StatePaused {
		return e.pausedAt
	}
	return e.res.Position()
}

func (e *Engine) trackLocked() *data.Track {
	if e.track == nil {
		return nil
	}
	t := *e.track
	return &t
}
