// Package oracle implements the text oracle on top of the OpenAI chat API.
// Sentence generation and translation go to the generation model; answer
// analysis goes to the analysis model.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/heartmarshall/lasty-backend/internal/config"
	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// chatClient is the slice of the OpenAI client the oracle uses.
// Declared here so tests can substitute a stub.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client talks to an OpenAI-compatible API.
type Client struct {
	api             chatClient
	generationModel string
	analysisModel   string
	timeout         time.Duration
	maxAttempts     int
	initialWait     time.Duration
}

// New creates an oracle client from configuration.
func New(cfg config.OracleConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("oracle API key is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:             openai.NewClientWithConfig(apiCfg),
		generationModel: cfg.GenerationModel,
		analysisModel:   cfg.AnalysisModel,
		timeout:         cfg.RequestTimeout,
		maxAttempts:     cfg.MaxAttempts,
		initialWait:     cfg.InitialWait,
	}, nil
}

// Error wraps an oracle failure so callers can match domain.ErrOracle
// while keeping the underlying cause in the chain.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("oracle: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{domain.ErrOracle, e.Err}
}

func oracleErr(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// chat sends one system+user exchange and returns the raw assistant text.
// Each attempt gets its own timeout; transient API failures are retried
// with exponential backoff and jitter.
func (c *Client) chat(ctx context.Context, model, system, user string, temperature float32) (string, error) {
	var content string

	err := c.withRetry(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       model,
			Temperature: temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("no choices in response")
		}

		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}

	return content, nil
}

// withRetry runs op up to maxAttempts times with exponential backoff.
func (c *Client) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == c.maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}

	return lastErr
}

// shouldRetry reports whether the failure is worth another attempt.
// Caller context errors are never retried; rate limits, 5xx responses,
// and transport errors are.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= 500
	}

	return true
}

// backoff computes the wait before the next attempt with ±20% jitter.
func (c *Client) backoff(attempt int) time.Duration {
	wait := float64(c.initialWait) * math.Pow(2, float64(attempt))

	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
