// Package ai defines the assistant contract between the application and an
// external language-model backend.
package ai

import (
	"context"

	"github.com/founderhub/founderhub/internal/founder"
)

// FallbackMessage is returned whenever the backend call fails or its output
// cannot be trusted. It is the only assistant failure surface callers see.
const FallbackMessage = "I'm sorry, I encountered an error while processing your request."

// Message is one prior conversation turn, oldest first.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Context is the per-request snapshot an Ask call operates on. It is owned by
// the caller; the assistant retains nothing across calls.
type Context struct {
	CurrentFounder   *founder.Founder
	AllFounders      *founder.Founders
	PreviousMessages []Message
}

// FounderRef is one entry of a response founder list.
type FounderRef struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Skills   string   `json:"skills"`
	Distance *float64 `json:"distance,omitempty"`
}

// Response is the normalized assistant answer. Founders is nil when no
// founder list applies (general advice), which marshals as JSON null.
type Response struct {
	Message  string       `json:"message"`
	Founders []FounderRef `json:"founders"`
}

// Fallback returns the fixed schema-valid apology response.
func Fallback() *Response {
	return &Response{Message: FallbackMessage, Founders: nil}
}

// Assistant answers founder-networking queries. Implementations must always
// return a well-formed response; failures are masked with Fallback, never
// surfaced as errors.
type Assistant interface {
	Ask(ctx context.Context, query string, conv *Context) *Response
}
