// Package converse defines the single uniform model-call contract the
// agent runtime invokes against. Per spec §9's adopted resolution of an
// observed source ambiguity, only Converse exists here — there is no
// parallel invoke_model shape; an adapter to a different provider's
// native shape is the implementer's concern, not this package's.
package converse

import "context"

// Role is the role of one message in a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a Converse call.
type Message struct {
	Role    Role
	Content string
}

// InferenceConfig is the per-call model configuration an agent
// descriptor supplies (spec §4.3's "model configuration").
type InferenceConfig struct {
	Temperature    float64
	MaxOutputTokens int
	TopP           float64
	Timeout        int // seconds
}

// StopReason reports why the model stopped generating.
type StopReason string

const (
	StopEndTurn    StopReason = "end_turn"
	StopMaxTokens  StopReason = "max_tokens"
	StopError      StopReason = "error"
)

// Usage is the token accounting a Converse response carries.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is what one Converse call returns.
type Response struct {
	Content    string
	Usage      Usage
	LatencyMs  int64
	StopReason StopReason
}

// Client is the uniform model-call capability the agent runtime depends
// on. Given (model_id, system_text, messages, inference_config) it
// returns {content_text, input_tokens, output_tokens, latency_ms,
// stop_reason}. No streaming.
type Client interface {
	Converse(ctx context.Context, modelID string, system string, messages []Message, cfg InferenceConfig) (Response, error)
}
