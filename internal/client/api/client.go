package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/iudanet/mailcheck/pkg/api"
)

// ClientAPI описывает вызовы backend, которые использует контроллер авторизации
type ClientAPI interface {
	// Login обменивает email и пароль на токен сессии
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	// Register создает аккаунт и сразу открывает сессию
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	// Me возвращает текущего пользователя по токену сессии
	Me(ctx context.Context) (*api.MeResponse, error)
	// ResendVerification повторно отправляет письмо подтверждения email
	ResendVerification(ctx context.Context) (*api.MessageResponse, error)
}

// TokenSource возвращает bearer токен для исходящих запросов.
// Пустая строка означает, что заголовок Authorization не ставится.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Option настраивает Client
type Option func(*Client)

// WithTokenSource задает источник bearer токена
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithClientID задает идентификатор установки клиента (заголовок X-Client-ID)
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// WithUserAgent задает заголовок User-Agent
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout задает таймаут HTTP клиента
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger включает логирование запросов через slog
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client представляет HTTP клиент для взаимодействия с backend
type Client struct {
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
	baseURL    string
	clientID   string
	userAgent  string
}

// Compile-time check that Client implements ClientAPI
var _ ClientAPI = (*Client)(nil)

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		userAgent: "mailcheck-client",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger != nil {
		c.httpClient.Transport = NewLoggingTransport(c.httpClient.Transport, c.logger)
	}

	return c
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", req, &resp, false); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	if err := validateAuthResponse(&resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", req, &resp, false); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	if err := validateAuthResponse(&resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Me получает текущего пользователя
func (c *Client) Me(ctx context.Context) (*api.MeResponse, error) {
	var resp api.MeResponse
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("get current user failed: %w", err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("get current user failed: %w", ErrMalformedResponse)
	}
	return &resp, nil
}

// ResendVerification запрашивает повторную отправку письма подтверждения
func (c *Client) ResendVerification(ctx context.Context) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/resend-verification", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("resend verification failed: %w", err)
	}
	return &resp, nil
}

func validateAuthResponse(resp *api.AuthResponse) error {
	if resp.Token == "" || resp.User == nil {
		return ErrMalformedResponse
	}
	return nil
}

// doRequest выполняет HTTP запрос
// authorized == true добавляет bearer токен из TokenSource
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any, authorized bool) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	if authorized && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to read session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, respBody)
	}

	// Декодируем успешный ответ
	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
