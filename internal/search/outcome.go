package search

import (
	"errors"
	"fmt"

	"github.com/hazadus/worship/internal/data"
)

var (
	// ErrNoSpiritualResults каталог ответил, но после фильтрации ничего не осталось
	ErrNoSpiritualResults = errors.New("духовные треки не найдены")
	// ErrInvalidQuery пустой запрос
	ErrInvalidQuery = errors.New("пустой поисковый запрос")
)

// Kind тип итогового результата поиска
type Kind int

const (
	KindFound Kind = iota
	KindEmpty
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindEmpty:
		return "empty"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrKind причина неудачи поиска
type ErrKind int

const (
	ErrKindNone ErrKind = iota
	ErrKindTransport
	ErrKindDecoding
	ErrKindInvalidQuery
	ErrKindNoResults
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNone:
		return "none"
	case ErrKindTransport:
		return "transport"
	case ErrKindDecoding:
		return "decoding"
	case ErrKindInvalidQuery:
		return "invalid_query"
	case ErrKindNoResults:
		return "no_results"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Request параметры пользовательского поиска
type Request struct {
	Query  string
	Limit  int // 0 означает лимит по умолчанию
	Offset int
}

// Outcome итог одного логического поиска. Для каждого поиска, который
// не был вытеснен или отменен, доставляется ровно один Outcome.
type Outcome struct {
	Kind      Kind
	RequestID string
	Query     string // Запрос последней попытки
	Attempts  int    // Сколько раз обращались к каталогу

	// KindFound
	Tracks          []data.Track
	TotalReturned   int // Треков в ответе каталога до фильтрации
	KeptAfterFilter int
	RemoteTotal     int

	// KindEmpty
	Reason string

	// KindEmpty и KindFailed
	ErrKind ErrKind
	Err     error
}

// OK сообщает, найдены ли треки
func (o Outcome) OK() bool {
	return o.Kind == KindFound
}

// UserMessage возвращает текст для показа пользователю
func (o Outcome) UserMessage() string {
	switch o.Kind {
	case KindFound:
		return fmt.Sprintf("Найдено треков: %d", len(o.Tracks))
	case KindEmpty:
		return o.Reason
	}

	switch o.ErrKind {
	case ErrKindInvalidQuery:
		return "Введите поисковый запрос"
	case ErrKindDecoding:
		return "Каталог вернул некорректный ответ, попробуйте позже"
	default:
		return "Не удалось связаться с каталогом, проверьте подключение"
	}
}

func found(tracks []data.Track, page *data.Page) Outcome {
	return Outcome{
		Kind:            KindFound,
		Tracks:          tracks,
		TotalReturned:   len(page.Tracks),
		KeptAfterFilter: len(tracks),
		RemoteTotal:     page.Total,
	}
}

func empty(reason string) Outcome {
	return Outcome{
		Kind:    KindEmpty,
		Reason:  reason,
		ErrKind: ErrKindNoResults,
		Err:     fmt.Errorf("%w: %s", ErrNoSpiritualResults, reason),
	}
}

func failed(kind ErrKind, err error) Outcome {
	return Outcome{
		Kind:    KindFailed,
		ErrKind: kind,
		Err:     err,
	}
}
