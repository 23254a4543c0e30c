package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/skytrack-dev/skytrack/internal/client/models"
	"github.com/skytrack-dev/skytrack/internal/common"
	"github.com/skytrack-dev/skytrack/internal/logging"
)

// Gateway responses never legitimately exceed this.
const maxResponseBytes = 1 << 20

// envelope is the uniform response shape of every gateway endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginData struct {
	Token string `json:"token"`
}

// HTTPClient talks to the auth gateway over REST.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	limiter  *rate.Limiter
	validate *validator.Validate
	log      logging.Logger
}

// NewHTTPClient builds a gateway client. attemptsPerMinute throttles login
// calls locally so a misbehaving form cannot hammer the gateway; zero
// disables the throttle. A nil logger is replaced with a no-op one.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, attemptsPerMinute int, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.NewNopLogger()
	}

	var limiter *rate.Limiter
	if attemptsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(attemptsPerMinute)), attemptsPerMinute)
	}

	return &HTTPClient{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		limiter:  limiter,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// Login exchanges credentials for a bearer token. Failures carry the
// server-provided message when one is available and a generic default
// otherwise; both match common.ErrLoginFailed via errors.Is.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	req := loginRequest{Email: email, Password: password}
	if err := c.validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: invalid email or empty password", common.ErrLoginFailed)
	}

	if c.limiter != nil && !c.limiter.Allow() {
		return "", fmt.Errorf("%w: too many login attempts, try again shortly", common.ErrLoginFailed)
	}

	env, err := c.do(ctx, http.MethodPost, "/auth/login", req, false)
	if err != nil {
		c.log.Warn(ctx, "login request failed", "error", err)
		return "", loginError(env)
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		c.log.Warn(ctx, "login response carried no token", "error", err)
		return "", loginError(env)
	}

	return data.Token, nil
}

// Logout invalidates the server-side session. The caller decides whether
// a failure matters; the session layer swallows it.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, true)
	return err
}

// Profile fetches the identity behind the current bearer token. Every
// failure mode (network, non-2xx, success:false, malformed body) comes back
// as a plain error; callers treat them uniformly as "verification failed".
func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/auth/profile", nil, true)
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := json.Unmarshal(env.Data, &u); err != nil {
		return nil, fmt.Errorf("malformed profile payload: %w", err)
	}
	if u.ID == "" {
		return nil, fmt.Errorf("profile payload missing id: %w", common.ErrUnauthorized)
	}

	return &u, nil
}

// Close releases idle connections held by the underlying HTTP client.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs one gateway round trip and decodes the response envelope.
// A transport error, a non-2xx status, or success:false all yield an error;
// the envelope is still returned when one was decodable so callers can
// surface the server's message.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, authed bool) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeader, uuid.NewString())

	if authed && c.tokens != nil {
		tok, err := c.tokens(ctx)
		if err != nil {
			c.log.Warn(ctx, "token source failed", "error", err)
		} else if tok != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerScheme+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading gateway response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("malformed gateway response: %w", err)
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &env, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	if !env.Success {
		return &env, fmt.Errorf("gateway rejected request: %s", env.Message)
	}

	return &env, nil
}

func loginError(env *envelope) error {
	msg := common.DefaultLoginMessage
	if env != nil && env.Message != "" {
		msg = env.Message
	}
	return fmt.Errorf("%w: %s", common.ErrLoginFailed, msg)
}
