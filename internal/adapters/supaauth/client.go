// Package supaauth is a thin client for the Supabase auth (GoTrue) REST api
package supaauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bluebird/internal/platform/config"
	perr "bluebird/internal/platform/errors"
	"bluebird/internal/platform/logger"
	"bluebird/internal/platform/resilience"
)

const defaultTimeout = 5 * time.Second

// Options configures the Client
type Options struct {
	BaseURL    string
	AnonKey    string
	Timeout    time.Duration
	Resilience resilience.Config
}

// OptionsFromConf reads SUPABASE_* keys, e.g. config.New().Prefix("SUPABASE_")
func OptionsFromConf(cfg config.Conf) Options {
	return Options{
		BaseURL:    cfg.MayString("URL", ""),
		AnonKey:    cfg.MayString("ANON_KEY", ""),
		Timeout:    cfg.MayDuration("AUTH_TIMEOUT", defaultTimeout),
		Resilience: resilience.FromConf(cfg.Prefix("AUTH_")),
	}
}

// Configured reports whether both url and key are present
func (o Options) Configured() bool {
	return strings.TrimSpace(o.BaseURL) != "" && strings.TrimSpace(o.AnonKey) != ""
}

// User is the authenticated principal
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the token pair returned by a credential exchange
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// Client calls /auth/v1 endpoints
type Client struct {
	http *http.Client
	opts Options
	exec *resilience.Executor
	log  logger.Logger
}

// NewClient builds a Client, filling defaults
func NewClient(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Resilience.RetryMaxAttempts == 0 {
		o.Resilience = resilience.DefaultConfig()
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		exec: resilience.NewExecutor(o.Resilience),
		log:  *logger.Named("supaauth"),
	}
}

// Configured reports whether the client can talk to a provider
func (c *Client) Configured() bool { return c.opts.Configured() }

// User resolves the owner of an access token. An invalid or expired token
// yields ok=false and no error
func (c *Client) User(ctx context.Context, token string) (User, bool, error) {
	if token == "" {
		return User{}, false, nil
	}
	var u User
	err := c.do(ctx, "user", http.MethodGet, "/auth/v1/user", token, nil, &u)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeUnauthorized) {
			return User{}, false, nil
		}
		return User{}, false, err
	}
	if u.ID == "" {
		return User{}, false, nil
	}
	return u, true, nil
}

// SignIn exchanges email and password for a session
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "sign_in", http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Refresh exchanges a refresh token for a new session
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	var s Session
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, "refresh", http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", body, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// SignOut revokes the session behind token
func (c *Client) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return c.do(ctx, "sign_out", http.MethodPost, "/auth/v1/logout", token, nil, nil)
}

// authError is the provider's error body
type authError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
	Message     string `json:"message"`
}

func (e authError) text() string {
	for _, s := range []string{e.Description, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any) error {
	if !c.Configured() {
		return perr.Unavailablef("auth provider not configured")
	}
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "encode auth request")
		}
		payload = b
	}

	return c.exec.Execute(ctx, "supaauth."+op, func(ctx context.Context) error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.opts.BaseURL+path, body)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "auth %s request", op)
		}
		req.Header.Set("apikey", c.opts.AnonKey)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "auth provider unreachable")
		}
		defer func() { _ = resp.Body.Close() }()

		c.log.Debug().
			Str("op", op).
			Int("status", resp.StatusCode).
			Dur("latency", time.Since(start)).
			Msg("auth http response")

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			var ae authError
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			_ = json.Unmarshal(raw, &ae)
			msg := ae.text()
			if msg == "" {
				msg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			return statusErr(resp.StatusCode, msg)
		}
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "decode auth response")
		}
		return nil
	}, nil)
}

func statusErr(code int, msg string) error {
	switch {
	case code == http.StatusTooManyRequests:
		return perr.TooManyRequestsf("auth provider rate limited: %s", msg)
	case code >= 500:
		return perr.Unavailablef("auth provider error: %s", msg)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return perr.Unauthorizedf("%s", msg)
	case code == http.StatusBadRequest:
		// invalid_grant and friends
		return perr.Unauthorizedf("%s", msg)
	default:
		return perr.Validationf("%s", msg)
	}
}
