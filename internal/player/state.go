package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hazadus/worship/internal/data"
)

var (
	// ErrPlaybackResource ошибка загрузки, декодирования или воспроизведения превью
	ErrPlaybackResource = errors.New("ошибка ресурса воспроизведения")
	// ErrClosed плеер закрыт
	ErrClosed = errors.New("плеер закрыт")
)

// State состояние сеанса воспроизведения
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePrepared
	StatePlaying
	StatePaused
	StateStopped
	StateCompleted
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePrepared:
		return "prepared"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EventKind тип события плеера
type EventKind int

const (
	EventState    EventKind = iota // Смена состояния
	EventProgress                  // Периодическое обновление позиции
)

// Event событие плеера. События доставляются в порядке их принятия плеером.
type Event struct {
	Kind     EventKind
	Session  uint64
	State    State
	Track    *data.Track
	Position time.Duration
	Duration time.Duration
	Err      error // Только для StateError
}

// Snapshot согласованный снимок состояния плеера
type Snapshot struct {
	State    State
	Track    *data.Track
	Position time.Duration
	Duration time.Duration
	Err      error
}

// Resource открытый поток превью
type Resource interface {
	// Start начинает или продолжает вывод звука
	Start()
	// Pause останавливает вывод без освобождения ресурса
	Pause()
	Seek(pos time.Duration) error
	Position() time.Duration
	// Duration возвращает 0, если длина потока неизвестна
	Duration() time.Duration
	// Finished получает nil в конце потока или ошибку чтения
	Finished() <-chan error
	Close() error
}

// Backend открывает ресурсы воспроизведения
type Backend interface {
	Open(ctx context.Context, uri string) (Resource, error)
}
