package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ceverett10/holibob-booking/config"
	"github.com/ceverett10/holibob-booking/utils"
)

// Client executes GraphQL operations against the Holibob API. Implementations
// are stateless and safe to share across concurrent callers.
type Client interface {
	Execute(ctx context.Context, operationName, query string, variables map[string]any, out any) error
}

// Options is the transport configuration surface.
type Options struct {
	APIURL    string
	APIKey    string
	APISecret string // presence toggles signed mode
	PartnerID string
	Timeout   time.Duration // default 30s
	Retries   int           // default 3
	// RateLimitRPS caps outgoing requests per second; 0 disables limiting.
	RateLimitRPS int
}

// OptionsFromConfig builds transport options from the loaded app config.
func OptionsFromConfig() Options {
	return Options{
		APIURL:       config.AppConfig.HolibobAPIURL,
		APIKey:       config.AppConfig.HolibobAPIKey,
		APISecret:    config.AppConfig.HolibobAPISecret,
		PartnerID:    config.AppConfig.HolibobPartnerID,
		Timeout:      time.Duration(config.AppConfig.HolibobTimeoutMs) * time.Millisecond,
		Retries:      config.AppConfig.HolibobRetries,
		RateLimitRPS: config.AppConfig.HolibobRateLimitRPS,
	}
}

// HolibobTransport implements Client with API-key or HMAC-signed auth and the
// retry/backoff policy.
type HolibobTransport struct {
	hc      *http.Client
	opts    Options
	limiter *rate.Limiter

	// test seams
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a transport. Zero-value options fall back to defaults: 30s
// timeout, 3 attempts.
func New(opts Options) *HolibobTransport {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	t := &HolibobTransport{
		hc:    &http.Client{Timeout: opts.Timeout},
		opts:  opts,
		now:   time.Now,
		sleep: sleepCtx,
	}
	if opts.RateLimitRPS > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitRPS)
	}
	return t
}

type gqlRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// Execute runs one GraphQL operation and decodes the data envelope into out.
// Client-class failures are returned immediately; server and network failures
// are retried with exponential backoff (2^n seconds before attempt n+1) until
// the attempt budget is spent, then the last error is returned.
func (t *HolibobTransport) Execute(ctx context.Context, operationName, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{OperationName: operationName, Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	logger := utils.GetLogger()
	requestID := uuid.New().String()

	var lastErr error
	for attempt := 0; attempt < t.opts.Retries; attempt++ {
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return &Error{Class: ErrorClassNetwork, Message: "rate limiter wait aborted", Err: err}
			}
		}

		err := t.doOnce(ctx, requestID, body, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var te *Error
		if errors.As(err, &te) && !te.Retryable() {
			logger.Debug("upstream client error, not retrying",
				zap.String("requestId", requestID),
				zap.String("operation", operationName),
				zap.Int("status", te.Status))
			return err
		}

		if attempt < t.opts.Retries-1 {
			delay := time.Duration(1<<uint(attempt)) * time.Second
			logger.Warn("upstream call failed, backing off",
				zap.String("requestId", requestID),
				zap.String("operation", operationName),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(err))
			if err := t.sleep(ctx, delay); err != nil {
				return err
			}
		}
	}

	logger.Error("upstream call failed after all attempts",
		zap.String("requestId", requestID),
		zap.String("operation", operationName),
		zap.Int("attempts", t.opts.Retries),
		zap.Error(lastErr))
	return lastErr
}

func (t *HolibobTransport) doOnce(ctx context.Context, requestID string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.opts.APIURL, bytes.NewReader(body))
	if err != nil {
		return &Error{Class: ErrorClassNetwork, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("X-API-Key", t.opts.APIKey)
	if t.opts.PartnerID != "" {
		req.Header.Set("X-Partner-Id", t.opts.PartnerID)
	}
	if t.opts.APISecret != "" {
		// Fresh timestamp per attempt: it is part of the signed payload.
		ts := FormatTimestamp(t.now())
		req.Header.Set("X-Holibob-Date", ts)
		req.Header.Set("X-Holibob-Signature", Sign(ts, t.opts.APIKey, body, t.opts.APISecret))
	}

	res, err := t.hc.Do(req)
	if err != nil {
		return &Error{Class: ErrorClassNetwork, Message: err.Error(), Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &Error{Class: ErrorClassNetwork, Message: "failed to read response body", Err: err}
	}

	switch {
	case res.StatusCode >= 400 && res.StatusCode < 500:
		return &Error{Class: ErrorClassClient, Status: res.StatusCode, Message: upstreamMessage(raw)}
	case res.StatusCode >= 500:
		return &Error{Class: ErrorClassServer, Status: res.StatusCode, Message: upstreamMessage(raw)}
	}

	var env gqlEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Error{Class: ErrorClassServer, Status: res.StatusCode, Message: "malformed response envelope", Err: err}
	}
	if len(env.Errors) > 0 {
		// GraphQL validation/resolution errors come back on a 200; they are
		// caller bugs, not congestion, so they share the client class.
		return &Error{Class: ErrorClassClient, Status: res.StatusCode, Message: env.Errors[0].Message}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Class: ErrorClassClient, Status: res.StatusCode, Message: "failed to decode data", Err: err}
		}
	}
	return nil
}

// upstreamMessage pulls a human-readable message out of an error body, falling
// back to the raw text.
func upstreamMessage(raw []byte) string {
	var env gqlEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Errors) > 0 {
		return env.Errors[0].Message
	}
	var r struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &r); err == nil && r.Message != "" {
		return r.Message
	}
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return string(raw)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
