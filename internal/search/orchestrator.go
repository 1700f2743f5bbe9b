// Package search превращает пользовательский запрос в поиск духовной музыки
// с дополнением запроса, одной запасной попыткой и вытеснением устаревших поисков
package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hazadus/worship/internal/classifier"
	"github.com/hazadus/worship/internal/data"
	"github.com/hazadus/worship/internal/deezer"
	"github.com/hazadus/worship/internal/logger"
)

// Searcher удаленный каталог треков
type Searcher interface {
	Search(ctx context.Context, query string, limit, offset int) (*data.Page, error)
}

// Orchestrator выполняет поиски. Одновременно активен только один поиск:
// новый поиск отменяет предыдущий, и результат предыдущего не доставляется.
type Orchestrator struct {
	client Searcher
	cls    *classifier.Classifier
	logger *log.Logger
	pick   func(n int) int

	searchLimit      int
	fallbackLimit    int
	highQualityLimit int
	phrases          []string

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Option настраивает Orchestrator
type Option func(*Orchestrator)

// WithLogger задает логгер
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPicker задает источник случайных индексов, pick(n) возвращает число из [0, n)
func WithPicker(pick func(n int) int) Option {
	return func(o *Orchestrator) {
		if pick != nil {
			o.pick = pick
		}
	}
}

// WithSearchLimit задает лимит основного запроса, если он не указан в Request
func WithSearchLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.searchLimit = n
		}
	}
}

// WithFallbackLimit задает лимит запасной попытки
func WithFallbackLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.fallbackLimit = n
		}
	}
}

// WithHighQualityLimit задает лимит запроса для SearchHighQuality
func WithHighQualityLimit(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.highQualityLimit = n
		}
	}
}

// WithTrendingPhrases заменяет список фраз для подборки популярного
func WithTrendingPhrases(phrases []string) Option {
	return func(o *Orchestrator) {
		if len(phrases) > 0 {
			o.phrases = phrases
		}
	}
}

// New создает Orchestrator
func New(client Searcher, cls *classifier.Classifier, opts ...Option) *Orchestrator {
	if cls == nil {
		cls = classifier.New()
	}
	o := &Orchestrator{
		client:           client,
		cls:              cls,
		logger:           logger.Discard(),
		pick:             rand.IntN,
		searchLimit:      DefaultSearchLimit,
		fallbackLimit:    DefaultFallbackLimit,
		highQualityLimit: DefaultHighQualityLimit,
		phrases:          TrendingPhrases,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Search ищет треки по пользовательскому запросу. Канал получает не более
// одного значения и закрывается; вытесненный или отмененный поиск закрывает
// канал без значения.
func (o *Orchestrator) Search(ctx context.Context, req Request) <-chan Outcome {
	return o.start(ctx, func(ctx context.Context, l *log.Logger) Outcome {
		return o.runSearch(ctx, l, req)
	})
}

// Trending возвращает подборку по случайной проверенной фразе
func (o *Orchestrator) Trending(ctx context.Context, limit, offset int) <-chan Outcome {
	return o.start(ctx, func(ctx context.Context, l *log.Logger) Outcome {
		return o.runTrending(ctx, l, limit, offset)
	})
}

// SearchHighQuality выполняет обычный поиск с увеличенным лимитом и оставляет
// треки с оценкой не ниже minimumScore
func (o *Orchestrator) SearchHighQuality(ctx context.Context, query string, minimumScore int) <-chan Outcome {
	return o.start(ctx, func(ctx context.Context, l *log.Logger) Outcome {
		outcome := o.runSearch(ctx, l, Request{Query: query, Limit: o.highQualityLimit})
		if outcome.Kind != KindFound {
			return outcome
		}

		kept := o.ScoreFilter(outcome.Tracks, minimumScore)
		l.Debug("фильтр по оценке", "minimum", minimumScore, "before", len(outcome.Tracks), "after", len(kept))
		if len(kept) == 0 {
			res := empty(fmt.Sprintf("No high-quality spiritual songs found for %q (minimum score %d)", strings.TrimSpace(query), minimumScore))
			res.Query = outcome.Query
			res.Attempts = outcome.Attempts
			return res
		}
		outcome.Tracks = kept
		outcome.KeptAfterFilter = len(kept)
		return outcome
	})
}

// ScoreFilter оставляет треки с оценкой не ниже minimumScore
func (o *Orchestrator) ScoreFilter(tracks []data.Track, minimumScore int) []data.Track {
	return o.cls.FilterByScore(tracks, minimumScore)
}

// Classifier возвращает классификатор, которым фильтруются результаты
func (o *Orchestrator) Classifier() *classifier.Classifier {
	return o.cls
}

// Cancel отменяет текущий поиск, если он есть
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.gen++
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Orchestrator) start(parent context.Context, run func(context.Context, *log.Logger) Outcome) <-chan Outcome {
	ctx, token := o.begin(parent)
	out := make(chan Outcome, 1)
	id := uuid.NewString()
	l := o.logger.With("request_id", id)

	go func() {
		outcome := run(ctx, l)
		outcome.RequestID = id
		o.deliver(ctx, token, out, outcome, l)
	}()
	return out
}

// begin отменяет предыдущий поиск и выдает токен нового
func (o *Orchestrator) begin(parent context.Context) (context.Context, uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.gen++
	ctx, cancel := context.WithCancel(parent)
	o.cancel = cancel
	return ctx, o.gen
}

// deliver отправляет результат, только если поиск остался актуальным.
// Проверка и отправка выполняются под мьютексом, поэтому новый поиск не может
// вклиниться между ними.
func (o *Orchestrator) deliver(ctx context.Context, token uint64, out chan<- Outcome, outcome Outcome, l *log.Logger) {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer close(out)

	current := token == o.gen
	alive := current && ctx.Err() == nil
	if current {
		o.cancel()
		o.cancel = nil
	}
	if !alive {
		l.Debug("результат отброшен", "kind", outcome.Kind, "superseded", !current)
		return
	}

	if outcome.Kind == KindFailed {
		l.Warn("поиск завершился ошибкой", "query", outcome.Query, "err_kind", outcome.ErrKind, "err", outcome.Err)
	} else {
		l.Info("поиск завершен", "query", outcome.Query, "kind", outcome.Kind,
			"attempts", outcome.Attempts, "returned", outcome.TotalReturned, "kept", outcome.KeptAfterFilter)
	}
	out <- outcome
}

func (o *Orchestrator) runSearch(ctx context.Context, l *log.Logger, req Request) Outcome {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return failed(ErrKindInvalidQuery, ErrInvalidQuery)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = o.searchLimit
	}

	enhanced := o.cls.EnhanceQuery(query)
	outcome := o.attempt(ctx, l, enhanced, limit, max(0, req.Offset), 1)
	if outcome.Kind != KindEmpty {
		return outcome
	}
	if ctx.Err() != nil {
		return failed(ErrKindTransport, ctx.Err())
	}

	template := FallbackTemplates[o.pickIndex(len(FallbackTemplates))]
	fallback := fmt.Sprintf(template, query)
	outcome = o.attempt(ctx, l, fallback, o.fallbackLimit, 0, 2)
	if outcome.Kind != KindEmpty {
		return outcome
	}

	res := empty(emptySearchReason(query))
	res.Query = fallback
	res.Attempts = 2
	return res
}

func (o *Orchestrator) runTrending(ctx context.Context, l *log.Logger, limit, offset int) Outcome {
	if limit <= 0 {
		limit = o.searchLimit
	}

	first := o.pickIndex(len(o.phrases))
	outcome := o.attempt(ctx, l, o.phrases[first], limit, max(0, offset), 1)
	if outcome.Kind != KindEmpty {
		return outcome
	}
	if ctx.Err() != nil {
		return failed(ErrKindTransport, ctx.Err())
	}

	// Повтор берет другую фразу из того же списка
	second := first
	if len(o.phrases) > 1 {
		second = o.pickIndex(len(o.phrases) - 1)
		if second >= first {
			second++
		}
	}
	outcome = o.attempt(ctx, l, o.phrases[second], o.fallbackLimit, 0, 2)
	if outcome.Kind != KindEmpty {
		return outcome
	}

	res := empty(emptyTrendingReason)
	res.Query = o.phrases[second]
	res.Attempts = 2
	return res
}

// attempt выполняет одно обращение к каталогу. Пустой после фильтрации
// ответ возвращается как KindEmpty без причины; причину задает вызывающий.
func (o *Orchestrator) attempt(ctx context.Context, l *log.Logger, query string, limit, offset, n int) Outcome {
	l.Debug("запрос к каталогу", "attempt", n, "query", query, "limit", limit, "offset", offset)

	page, err := o.client.Search(ctx, query, limit, offset)
	if err != nil {
		res := failed(errKindOf(err), fmt.Errorf("ошибка поиска %q: %w", query, err))
		res.Query = query
		res.Attempts = n
		return res
	}
	if page == nil {
		page = &data.Page{}
	}

	kept := o.cls.Filter(page.Tracks)
	l.Debug("ответ каталога", "attempt", n, "returned", len(page.Tracks), "kept", len(kept), "total", page.Total)

	var res Outcome
	if len(kept) > 0 {
		res = found(kept, page)
	} else {
		res = Outcome{Kind: KindEmpty}
	}
	res.Query = query
	res.Attempts = n
	return res
}

func (o *Orchestrator) pickIndex(n int) int {
	if n <= 1 {
		return 0
	}
	i := o.pick(n)
	if i < 0 || i >= n {
		return 0
	}
	return i
}

func errKindOf(err error) ErrKind {
	if errors.Is(err, deezer.ErrDecoding) {
		return ErrKindDecoding
	}
	return ErrKindTransport
}
