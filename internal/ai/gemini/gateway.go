package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/founderhub/founderhub/internal/ai"
	"github.com/founderhub/founderhub/internal/logger"
	"github.com/founderhub/founderhub/internal/recommend"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Gateway is the sole caller of the language-model backend. It composes the
// system instruction, validates the model's structured output, and masks
// every failure with the fixed fallback response.
//
// Founder lists are subject to deterministic override: when the query
// classifies as nearby or recommended, the list is recomputed by the
// recommendation engine and replaces whatever the model produced. The model's
// prose is kept; its ranking is not trusted.
type Gateway struct {
	generator contentGenerator
	engine    *recommend.Engine
	logger    *zap.Logger
	maxLogLen int
}

func NewGateway(generator contentGenerator, engine *recommend.Engine, log *zap.Logger, maxLogLength int) *Gateway {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Gateway{
		generator: generator,
		engine:    engine,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Ask sends one query to the backend and returns a well-formed response. It
// never returns an error: backend failures, unparseable output, and
// referential violations all produce the fixed fallback. Exactly one backend
// call is made per invocation; identical queries are never cached.
func (g *Gateway) Ask(ctx context.Context, query string, conv *ai.Context) *ai.Response {
	query = strings.TrimSpace(query)
	if query == "" || conv == nil || conv.CurrentFounder == nil || conv.AllFounders == nil {
		g.logger.Warn("assistant query rejected", zap.String("reason", "empty query or incomplete context"))
		return ai.Fallback()
	}

	system, err := g.buildSystemPrompt(conv)
	if err != nil {
		g.logger.Error("composing system prompt", zap.Error(err))
		return ai.Fallback()
	}

	g.logger.Debug("assistant request",
		zap.String("founder_id", conv.CurrentFounder.ID),
		zap.Int("roster_size", conv.AllFounders.Len()),
		zap.Int("prompt_length", utf8.RuneCountInString(system)),
		zap.String("query_preview", logger.TruncateForLog(query, g.maxLogLen)),
	)

	raw, err := g.generator.GenerateContent(ctx, system, query)
	if err != nil {
		g.logger.Warn("assistant backend call failed", zap.Error(err))
		return ai.Fallback()
	}

	g.logger.Debug("assistant response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, g.maxLogLen)),
	)

	resp, err := parseResponse(raw)
	if err != nil {
		g.logger.Warn("malformed assistant response", zap.Error(err))
		return ai.Fallback()
	}

	if err := validateFounders(resp, conv); err != nil {
		g.logger.Warn("assistant response failed validation", zap.Error(err))
		return ai.Fallback()
	}

	g.applyOverride(query, conv, resp)

	return resp
}

func (g *Gateway) buildSystemPrompt(conv *ai.Context) (string, error) {
	current, err := json.Marshal(conv.CurrentFounder)
	if err != nil {
		return "", fmt.Errorf("marshal current founder: %w", err)
	}

	roster, err := json.Marshal(conv.AllFounders.Items)
	if err != nil {
		return "", fmt.Errorf("marshal founder roster: %w", err)
	}

	history := conv.PreviousMessages
	if history == nil {
		history = []ai.Message{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("marshal conversation history: %w", err)
	}

	radius := float64(recommend.DefaultRadiusKm)
	maxRecommended := recommend.DefaultMaxRecommended
	if g.engine != nil {
		radius = g.engine.RadiusKm()
		maxRecommended = g.engine.MaxRecommended()
	}

	prompt := promptTemplate
	prompt = strings.ReplaceAll(prompt, "{{CURRENT_FOUNDER}}", string(current))
	prompt = strings.ReplaceAll(prompt, "{{ALL_FOUNDERS}}", string(roster))
	prompt = strings.ReplaceAll(prompt, "{{HISTORY}}", string(historyJSON))
	prompt = strings.ReplaceAll(prompt, "{{NEARBY_RADIUS_KM}}", strconv.FormatFloat(radius, 'f', -1, 64))
	prompt = strings.ReplaceAll(prompt, "{{MAX_RECOMMENDED}}", strconv.Itoa(maxRecommended))

	return prompt, nil
}

// applyOverride replaces the model's founder list with the engine's
// deterministic ranking for the nearby and recommended intents.
func (g *Gateway) applyOverride(query string, conv *ai.Context, resp *ai.Response) {
	if g.engine == nil {
		return
	}

	intent := recommend.DetectIntent(query)
	if intent == recommend.IntentGeneral {
		return
	}

	ranked := g.engine.Recommend(intent, conv.CurrentFounder, conv.AllFounders)
	refs := make([]ai.FounderRef, 0, len(ranked))
	for _, r := range ranked {
		refs = append(refs, ai.FounderRef{
			ID:       r.Founder.ID,
			Name:     r.Founder.Name,
			Skills:   r.Founder.Skills,
			Distance: r.DistanceKm,
		})
	}

	g.logger.Debug("deterministic override applied",
		zap.String("intent", intent.String()),
		zap.Int("model_list", len(resp.Founders)),
		zap.Int("engine_list", len(refs)),
	)

	resp.Founders = refs
}

// parseResponse decodes the model output strictly as the mandated
// {message, founders|null} shape. Missing fields, extra fields, mistyped
// fields and an empty message are all rejected.
func parseResponse(raw string) (*ai.Response, error) {
	cleaned := extractJSON(raw)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return nil, fmt.Errorf("parse assistant response: %w", err)
	}

	for key := range top {
		if key != "message" && key != "founders" {
			return nil, fmt.Errorf("unexpected field %q in assistant response", key)
		}
	}

	rawMessage, ok := top["message"]
	if !ok {
		return nil, fmt.Errorf("assistant response is missing the message field")
	}
	rawFounders, ok := top["founders"]
	if !ok {
		return nil, fmt.Errorf("assistant response is missing the founders field")
	}

	var message string
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		return nil, fmt.Errorf("message field is not a string: %w", err)
	}
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message field is empty")
	}

	resp := &ai.Response{Message: message}

	if string(bytes.TrimSpace(rawFounders)) != "null" {
		dec := json.NewDecoder(bytes.NewReader(rawFounders))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&resp.Founders); err != nil {
			return nil, fmt.Errorf("founders field is not a valid founder list: %w", err)
		}
	}

	return resp, nil
}

// validateFounders rejects responses referencing founders outside the
// request roster. Stale ids are a validation failure rather than entries to
// drop silently.
func validateFounders(resp *ai.Response, conv *ai.Context) error {
	for _, ref := range resp.Founders {
		if strings.TrimSpace(ref.ID) == "" {
			return fmt.Errorf("founder entry without an id")
		}
		if !conv.AllFounders.Contains(ref.ID) {
			return fmt.Errorf("founder id %q is not in the roster", ref.ID)
		}
	}
	return nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
