package agentrt

import (
	"github.com/ma-za-kpe/vibejudge/converse"
	"github.com/ma-za-kpe/vibejudge/model"
)

// Descriptor is the (name, prompt_version, output_schema, model
// configuration) triple spec §4.3 defines a judge agent as.
type Descriptor struct {
	Agent           model.AgentName
	PromptVersion   string
	SystemPrompt    string
	ModelID         string
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
	TimeoutSeconds  int
}

// InferenceConfig converts d's model configuration into the shape
// converse.Client.Converse expects.
func (d Descriptor) InferenceConfig() converse.InferenceConfig {
	return converse.InferenceConfig{
		Temperature:     d.Temperature,
		MaxOutputTokens: d.MaxOutputTokens,
		TopP:            d.TopP,
		Timeout:         d.TimeoutSeconds,
	}
}

// DefaultDescriptors is the fixed set of four concrete judge agents
// (spec §4.3, §6), each with its own versioned system prompt. Model
// configuration defaults are conservative; callers may replace
// Runtime.Descriptors to use different settings.
var DefaultDescriptors = map[model.AgentName]Descriptor{
	model.AgentBugHunter: {
		Agent:           model.AgentBugHunter,
		PromptVersion:   "bug_hunter@1",
		SystemPrompt:    bugHunterSystemPrompt,
		ModelID:         "claude-sonnet",
		Temperature:     0.2,
		MaxOutputTokens: 4096,
		TopP:            1.0,
		TimeoutSeconds:  900,
	},
	model.AgentPerformance: {
		Agent:           model.AgentPerformance,
		PromptVersion:   "performance@1",
		SystemPrompt:    performanceSystemPrompt,
		ModelID:         "claude-sonnet",
		Temperature:     0.2,
		MaxOutputTokens: 4096,
		TopP:            1.0,
		TimeoutSeconds:  900,
	},
	model.AgentInnovation: {
		Agent:           model.AgentInnovation,
		PromptVersion:   "innovation@1",
		SystemPrompt:    innovationSystemPrompt,
		ModelID:         "claude-sonnet",
		Temperature:     0.4,
		MaxOutputTokens: 4096,
		TopP:            1.0,
		TimeoutSeconds:  900,
	},
	model.AgentAIDetection: {
		Agent:           model.AgentAIDetection,
		PromptVersion:   "ai_detection@1",
		SystemPrompt:    aiDetectionSystemPrompt,
		ModelID:         "claude-sonnet",
		Temperature:     0.1,
		MaxOutputTokens: 4096,
		TopP:            1.0,
		TimeoutSeconds:  900,
	},
}

const bugHunterSystemPrompt = `You are a hackathon judge evaluating code quality, security, test coverage, error handling, and dependency hygiene. Score each sub-dimension 0-10. Cite concrete evidence: file paths and line numbers for every finding. Respond with ONLY a single JSON object matching the provided schema.`

const performanceSystemPrompt = `You are a hackathon judge evaluating architecture, database design, api design, scalability, and resource efficiency. Score each sub-dimension 0-10. Cite concrete evidence: file paths and line numbers for every finding. Respond with ONLY a single JSON object matching the provided schema.`

const innovationSystemPrompt = `You are a hackathon judge evaluating technical novelty, creative problem solving, architecture elegance, readme quality, and demo potential. Score each sub-dimension 0-10. Cite concrete evidence: file paths and line numbers for every finding. Respond with ONLY a single JSON object matching the provided schema.`

const aiDetectionSystemPrompt = `You are a hackathon judge assessing whether a submission's commit history and authorship patterns look organic or AI-generated. Score commit_authenticity, development_velocity, authorship_consistency, iteration_depth, and ai_generation_indicators 0-10. You will be told the hackathon's ai_policy_mode; it governs how AI assistance should be weighed, not whether it should be detected. Cite concrete evidence: commit hashes and file paths. Respond with ONLY a single JSON object matching the provided schema.`
