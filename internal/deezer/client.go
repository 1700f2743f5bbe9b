// Package deezer реализует поиск треков через публичный API Deezer
package deezer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hazadus/worship/internal/data"
)

// DefaultBaseURL адрес публичного API Deezer
const DefaultBaseURL = "https://api.deezer.com"

var (
	// ErrTransport сеть недоступна, истек таймаут, сервер ответил не 2xx или вернул ошибку API
	ErrTransport = errors.New("ошибка обращения к каталогу")
	// ErrDecoding тело ответа не удалось разобрать
	ErrDecoding = errors.New("ошибка разбора ответа каталога")
)

// Config содержит настройки клиента
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64 // Запросов в секунду, 0 отключает ограничение
	UserAgent  string
	HTTPClient *http.Client
}

// Client клиент поиска Deezer
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient создает клиент Deezer
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  cfg.UserAgent,
		limiter:    limiter,
	}
}

// Search выполняет запрос GET /search и возвращает страницу треков
func (c *Client) Search(ctx context.Context, query string, limit, offset int) (*data.Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("%w: некорректный адрес API: %w", ErrTransport, err)
	}
	params := searchURL.Query()
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("index", strconv.Itoa(offset))
	searchURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка создания запроса: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Тело читается, чтобы соединение вернулось в пул
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("%w: HTTP %d", ErrTransport, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrDecoding, err)
	}
	if body.Error != nil {
		return nil, fmt.Errorf("%w: %s (%s, код %d)", ErrTransport, body.Error.Message, body.Error.Type, body.Error.Code)
	}

	return mapPage(body), nil
}
