package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 3

	// Quota errors asking us to wait longer than this are not worth retrying
	// inside a single request.
	maxQuotaDelay = 30 * time.Second
)

// Overridable in tests.
var sleep = time.Sleep

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	client *genai.Client
}

func (c *genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	return c.client.Chats.Create(ctx, model, config, history)
}

// Generator wraps the Google GenAI client to provide single-shot,
// system-instructed completions with bounded retries on temporary errors.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		chats:      &genaiChats{client: client},
		model:      model,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

// GenerateContent sends one message under the given system instruction and
// returns the concatenated text of the first completion. Temporary API errors
// are retried up to maxRetries attempts in total.
func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	if message = strings.TrimSpace(message); message == "" {
		return "", errors.New("message must not be empty")
	}

	config := &genai.GenerateContentConfig{}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		chat, err := g.chats.Create(ctx, g.model, config, nil)
		if err != nil {
			return "", fmt.Errorf("create chat session: %w", err)
		}

		resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
		if err == nil {
			return collectText(resp)
		}

		lastErr = err
		if !isTemporary(err) || attempt == g.maxRetries {
			break
		}

		delay := time.Duration(attempt) * time.Second
		g.logger.Debug("retrying gemini request",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		sleep(delay)
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func collectText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned empty response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

var retryAfterRe = regexp.MustCompile(`(?i)retry\s+after\s+(\d+)`)

// isTemporary reports whether the error is worth another attempt: any 5xx, or
// a quota error whose advertised delay is short enough.
func isTemporary(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	if apiErr.Code >= http.StatusInternalServerError {
		return true
	}

	if apiErr.Code == http.StatusTooManyRequests {
		if m := retryAfterRe.FindStringSubmatch(apiErr.Message); m != nil {
			seconds, convErr := strconv.Atoi(m[1])
			if convErr == nil && time.Duration(seconds)*time.Second > maxQuotaDelay {
				return false
			}
		}
		return true
	}

	return false
}
