package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"github.com/hazadus/worship/internal/streaming"
)

// DefaultSampleRate частота, с которой инициализируются динамики
const DefaultSampleRate = 44100

// BeepOptions настройки воспроизведения через динамики
type BeepOptions struct {
	SampleRate int
	BufferSize int // Буфер потокового чтения в байтах
	UserAgent  string
	HTTPClient *http.Client
}

// BeepBackend открывает MP3 по ссылке или локальному пути и выводит звук через speaker
type BeepBackend struct {
	opts       BeepOptions
	sampleRate beep.SampleRate

	initOnce sync.Once
	initErr  error
}

// NewBeepBackend создает бэкенд. Динамики инициализируются при первом открытии.
func NewBeepBackend(opts BeepOptions) *BeepBackend {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = streaming.DefaultBufferSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = streaming.NewHTTPClient()
	}
	return &BeepBackend{
		opts:       opts,
		sampleRate: beep.SampleRate(opts.SampleRate),
	}
}

// Open открывает и декодирует MP3. Звук начинается только после Start.
func (b *BeepBackend) Open(ctx context.Context, uri string) (Resource, error) {
	rc, err := b.openSource(ctx, uri)
	if err != nil {
		return nil, err
	}

	streamer, format, err := mp3.Decode(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}

	// Динамики инициализируются один раз на процесс, поэтому частота фиксирована,
	// а потоки с другой частотой передискретизируются
	b.initOnce.Do(func() {
		b.initErr = speaker.Init(b.sampleRate, b.sampleRate.N(time.Second/5))
	})
	if b.initErr != nil {
		streamer.Close()
		return nil, fmt.Errorf("ошибка инициализации динамиков: %w", b.initErr)
	}

	var out beep.Streamer = streamer
	if format.SampleRate != b.sampleRate {
		out = beep.Resample(4, format.SampleRate, b.sampleRate, streamer)
	}

	res := &beepResource{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: out, Paused: true},
		finished: make(chan error, 1),
	}
	speaker.Play(beep.Seq(res.ctrl, beep.Callback(res.signalFinished)))
	return res, nil
}

func (b *BeepBackend) openSource(ctx context.Context, uri string) (io.ReadCloser, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return nil, errors.New("пустая ссылка на превью")
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		reader, err := streaming.Open(ctx, uri, streaming.Options{
			BufferSize: b.opts.BufferSize,
			UserAgent:  b.opts.UserAgent,
			Client:     b.opts.HTTPClient,
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания потокового ридера: %w", err)
		}
		return reader, nil
	default:
		file, err := os.Open(strings.TrimPrefix(uri, "file://"))
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия файла: %w", err)
		}
		return file, nil
	}
}

// beepResource один воспроизводимый поток. Все обращения к потоку идут под speaker.Lock.
type beepResource struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	finished chan error

	closeOnce sync.Once
}

func (r *beepResource) Start() {
	speaker.Lock()
	r.ctrl.Paused = false
	speaker.Unlock()
}

func (r *beepResource) Pause() {
	speaker.Lock()
	r.ctrl.Paused = true
	speaker.Unlock()
}

func (r *beepResource) Seek(pos time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()

	n := r.format.SampleRate.N(pos)
	if length := r.streamer.Len(); length > 0 && n >= length {
		n = length - 1
	}
	if err := r.streamer.Seek(max(0, n)); err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}
	return nil
}

func (r *beepResource) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return r.format.SampleRate.D(r.streamer.Position())
}

func (r *beepResource) Duration() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()

	// У потокового MP3 длина часто неизвестна
	if n := r.streamer.Len(); n > 0 {
		return r.format.SampleRate.D(n)
	}
	return 0
}

func (r *beepResource) Finished() <-chan error {
	return r.finished
}

func (r *beepResource) Close() error {
	var err error
	r.closeOnce.Do(func() {
		// Ctrl без потока завершает последовательность в динамиках
		speaker.Lock()
		r.ctrl.Streamer = nil
		speaker.Unlock()
		err = r.streamer.Close()
	})
	return err
}

// signalFinished вызывается динамиками под их блокировкой, поэтому не ждет
func (r *beepResource) signalFinished() {
	select {
	case r.finished <- r.streamer.Err():
	default:
	}
}
