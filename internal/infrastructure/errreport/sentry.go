// Package errreport forwards panics and unexpected server errors to Sentry.
package errreport

import (
	"context"
	"fmt"
	"time"

	"github.com/agrifarma/backend/internal/infrastructure/config"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FlushTimeout bounds how long shutdown waits for queued events
const FlushTimeout = 2 * time.Second

// Reporter sends errors to Sentry. A Reporter built without a DSN is
// disabled and every method is a no-op.
type Reporter struct {
	enabled bool
	logger  *zap.Logger
}

// Options carry process metadata attached to every event
type Options struct {
	Environment string
	Release     string
	ServerName  string
	// Transport overrides the HTTP transport, used by tests
	Transport sentry.Transport
}

// New initializes the global Sentry client when cfg.DSN is set
func New(cfg config.SentryConfig, opts Options, logger *zap.Logger) (*Reporter, error) {
	logger = logger.Named("sentry")
	if cfg.DSN == "" {
		logger.Info("Sentry disabled, no DSN configured")
		return &Reporter{logger: logger}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		ServerName:       opts.ServerName,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
		Transport:        opts.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	logger.Info("Sentry initialized", zap.String("environment", opts.Environment))
	return &Reporter{enabled: true, logger: logger}, nil
}

// IsEnabled reports whether events are sent
func (r *Reporter) IsEnabled() bool {
	return r != nil && r.enabled
}

// Middleware captures panics and re-panics so the logger recovery
// middleware still renders the response. Disabled reporters pass through.
func (r *Reporter) Middleware() gin.HandlerFunc {
	if !r.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         FlushTimeout,
	})
}

// CaptureError reports err on the request hub when present, tagged with
// the request ID.
func (r *Reporter) CaptureError(c *gin.Context, err error) {
	if !r.IsEnabled() || err == nil {
		return
	}
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if requestID, ok := c.Get("request_id"); ok {
			scope.SetTag("request_id", fmt.Sprint(requestID))
		}
		if route := c.FullPath(); route != "" {
			scope.SetTag("route", route)
		}
		hub.CaptureException(err)
	})
}

// ErrorCapture reports the private errors handlers attached with c.Error
// once the request completes.
func (r *Reporter) ErrorCapture() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if !r.IsEnabled() {
			return
		}
		for _, e := range c.Errors.ByType(gin.ErrorTypePrivate) {
			r.CaptureError(c, e.Err)
		}
	}
}

// CaptureMessage reports a message outside a request, e.g. a failed
// background step.
func (r *Reporter) CaptureMessage(_ context.Context, msg string) {
	if !r.IsEnabled() {
		return
	}
	sentry.CaptureMessage(msg)
}

// Flush waits for queued events up to FlushTimeout
func (r *Reporter) Flush() {
	if !r.IsEnabled() {
		return
	}
	if !sentry.Flush(FlushTimeout) {
		r.logger.Warn("Sentry flush timed out, some events were dropped")
	}
}
