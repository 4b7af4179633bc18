// Package pec implements the session-based HTTP contract of the e-SUS PEC
// national receiver: a multipart login that yields a JSESSIONID cookie,
// followed by zip-wrapped ficha uploads on the same session.
package pec

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	loginPath = "/api/recebimento/login"
	sendPath  = "/api/v1/recebimento/ficha"

	// sessionDegraded marks a login that returned 2xx without a JSESSIONID
	// cookie. Some PEC builds only set the cookie on the first login of the
	// server session; sends still work without resending it.
	sessionDegraded = "SESSION_ESTABLISHED"
)

var jsessionPattern = regexp.MustCompile(`JSESSIONID=([^;]+)`)

// Config holds the connection settings for one municipality's PEC.
type Config struct {
	BaseURL    string
	Username   string
	Password   string
	Timeout    time.Duration
	RetryCount int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:    30 * time.Second,
		RetryCount: 2,
	}
}

// SendResult reports the PEC's verdict on a single ficha upload. A rejected
// upload is a result, not an error: the caller records it and moves on.
type SendResult struct {
	Success    bool
	StatusCode int
	Message    string
}

// Client talks to one PEC installation. It is safe for concurrent use; the
// session cookie is shared across goroutines.
type Client struct {
	http   *resty.Client
	cfg    Config
	logger *zap.Logger
	tracer trace.Tracer

	mu        sync.Mutex
	sessionID string
}

// New creates a Client for the given PEC installation.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)

	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("pec-client"),
	}
}

// Login authenticates against the PEC and captures the session cookie. It
// must succeed before any Send for the municipality; a failed login aborts
// the whole municipality run.
func (c *Client) Login(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "pec_login",
		trace.WithAttributes(attribute.String("pec.base_url", c.cfg.BaseURL)))
	defer span.End()

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"usuario": c.cfg.Username,
			"senha":   c.cfg.Password,
		}).
		Post(loginPath)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("pec login request failed: %w", err)
	}
	if resp.IsError() {
		err := fmt.Errorf("pec login rejected: status %d", resp.StatusCode())
		span.RecordError(err)
		return err
	}

	session := extractSessionID(resp)
	if session == "" {
		c.logger.Warn("pec login succeeded without JSESSIONID cookie, continuing degraded",
			zap.String("base_url", c.cfg.BaseURL))
		session = sessionDegraded
	}

	c.mu.Lock()
	c.sessionID = session
	c.mu.Unlock()

	c.logger.Info("pec session established",
		zap.String("base_url", c.cfg.BaseURL),
		zap.Bool("degraded", session == sessionDegraded))
	return nil
}

// Send uploads one encoded ficha. The payload travels inside a zip archive
// holding a single <uuid>.esus entry, posted as the multipart field "ficha".
// When no session exists yet, Send logs in first; a login failure is an
// error. A non-2xx answer to the upload itself comes back as an unsuccessful
// SendResult, not an error.
func (c *Client) Send(ctx context.Context, uuid string, payload []byte) (*SendResult, error) {
	ctx, span := c.tracer.Start(ctx, "pec_send",
		trace.WithAttributes(
			attribute.String("ficha.uuid", uuid),
			attribute.Int("payload.bytes", len(payload)),
		))
	defer span.End()

	c.mu.Lock()
	needsLogin := c.sessionID == ""
	c.mu.Unlock()
	if needsLogin {
		if err := c.Login(ctx); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	archive, err := wrapEsus(uuid, payload)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to zip ficha %s: %w", uuid, err)
	}

	req := c.http.R().
		SetContext(ctx).
		SetFileReader("ficha", uuid+".zip", bytes.NewReader(archive))

	c.mu.Lock()
	if c.sessionID != "" && c.sessionID != sessionDegraded {
		req.SetHeader("Cookie", "JSESSIONID="+c.sessionID)
	}
	c.mu.Unlock()

	resp, err := req.Post(sendPath)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("pec send request failed: %w", err)
	}

	result := &SendResult{
		Success:    resp.IsSuccess(),
		StatusCode: resp.StatusCode(),
		Message:    strings.TrimSpace(resp.String()),
	}
	span.SetAttributes(
		attribute.Bool("pec.accepted", result.Success),
		attribute.Int("pec.status_code", result.StatusCode),
	)
	if !result.Success {
		c.logger.Warn("pec rejected ficha",
			zap.String("uuid", uuid),
			zap.Int("status", result.StatusCode),
			zap.String("message", result.Message))
	}
	return result, nil
}

// TestConnection probes the installation by logging in and discarding the
// session.
func (c *Client) TestConnection(ctx context.Context) error {
	return c.Login(ctx)
}

func extractSessionID(resp *resty.Response) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "JSESSIONID" {
			return cookie.Value
		}
	}
	// Some PEC builds emit the cookie on a header resty does not surface as a
	// parsed cookie.
	for _, raw := range resp.Header().Values("Set-Cookie") {
		if m := jsessionPattern.FindStringSubmatch(raw); m != nil {
			return m[1]
		}
	}
	return ""
}
