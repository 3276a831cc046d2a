package normalizer

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"contactbase/internal"
	"contactbase/internal/config"
)

// Normalizer rewrites one free-text field into its cleaned form.
type Normalizer interface {
	Normalize(ctx context.Context, text string, kind internal.FieldKind) (string, error)
}

var (
	ErrMissingAPIKey = errors.New("missing OPENAI_API_KEY")
	ErrEmptyResponse = errors.New("empty response from model")
	ErrEmptyInput    = errors.New("normalize called with empty text")
)

type Client struct {
	maxTokens int
	timeout   time.Duration
	limiter   *RateLimiter

	newModel func() (llms.Model, error)
	once     sync.Once
	model    llms.Model
	modelErr error
}

// NewClient builds an OpenAI-backed client. The API key is checked on the
// first call, not here.
func NewClient(cfg config.Config) *Client {
	httpClient := &http.Client{Timeout: timeout(cfg)}
	c := newClient(cfg)
	c.newModel = func() (llms.Model, error) {
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
			return nil, ErrMissingAPIKey
		}
		opts := []openai.Option{
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.OpenAIModel),
			openai.WithHTTPClient(httpClient),
		}
		if base := strings.TrimSpace(cfg.OpenAIBaseURL); base != "" {
			opts = append(opts, openai.WithBaseURL(base))
		}
		return openai.New(opts...)
	}
	return c
}

// NewClientWithModel uses an existing model, e.g. a stub or another provider.
func NewClientWithModel(model llms.Model, cfg config.Config) *Client {
	c := newClient(cfg)
	c.newModel = func() (llms.Model, error) { return model, nil }
	return c
}

func newClient(cfg config.Config) *Client {
	maxTokens := cfg.OpenAIMaxTokens
	if maxTokens <= 0 {
		maxTokens = 50
	}
	return &Client{
		maxTokens: maxTokens,
		timeout:   timeout(cfg),
		limiter:   NewRateLimiter(cfg.OpenAIRateLimitRPS),
	}
}

func timeout(cfg config.Config) time.Duration {
	return time.Duration(cfg.OpenAITimeoutMs) * time.Millisecond
}

func (c *Client) llm() (llms.Model, error) {
	c.once.Do(func() {
		c.model, c.modelErr = c.newModel()
	})
	return c.model, c.modelErr
}

// Normalize sends one prompt and returns the trimmed answer. Failures come
// back as *internal.ExternalServiceError; cancellation of ctx itself is
// returned as ctx.Err().
func (c *Client) Normalize(ctx context.Context, text string, kind internal.FieldKind) (string, error) {
	if text == "" {
		return "", ErrEmptyInput
	}
	prompt, err := BuildPrompt(kind, text)
	if err != nil {
		return "", err
	}

	fail := func(err error) (string, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &internal.ExternalServiceError{Kind: kind, Input: text, Err: err}
	}

	model, err := c.llm()
	if err != nil {
		return fail(err)
	}
	if err := c.limiter.WaitTurn(ctx); err != nil {
		return fail(err)
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := model.GenerateContent(callCtx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, llms.WithMaxTokens(c.maxTokens))
	if err != nil {
		return fail(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return fail(ErrEmptyResponse)
	}
	out := strings.TrimSpace(resp.Choices[0].Content)
	if out == "" {
		return fail(ErrEmptyResponse)
	}
	return out, nil
}

// Func adapts a plain function to Normalizer.
type Func func(ctx context.Context, text string, kind internal.FieldKind) (string, error)

func (f Func) Normalize(ctx context.Context, text string, kind internal.FieldKind) (string, error) {
	return f(ctx, text, kind)
}

var _ Normalizer = (*Client)(nil)
