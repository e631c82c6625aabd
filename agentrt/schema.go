// Package agentrt implements the Agent Runtime: invoking a judge agent
// against a model through the uniform converse.Client contract, parsing
// and validating its structured JSON output, grounding its evidence
// against a RepoContext, and capturing its token cost (spec §4.3).
package agentrt

import (
	"fmt"

	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/schema"
)

// AIUsageEstimate is the ai_detection agent's coarse usage estimate.
type AIUsageEstimate string

const (
	AIUsageNone     AIUsageEstimate = "none"
	AIUsageMinimal  AIUsageEstimate = "minimal"
	AIUsageModerate AIUsageEstimate = "moderate"
	AIUsageHeavy    AIUsageEstimate = "heavy"
	AIUsageFull     AIUsageEstimate = "full"
)

// DevelopmentPattern is the ai_detection agent's classification of how
// the repository appears to have been built.
type DevelopmentPattern string

const (
	PatternOrganic             DevelopmentPattern = "organic"
	PatternAIAssistedIterative DevelopmentPattern = "ai_assisted_iterative"
	PatternAIAssistedBulk      DevelopmentPattern = "ai_assisted_bulk"
	PatternAIGenerated         DevelopmentPattern = "ai_generated"
)

// AgentSchema is the fixed sub-dimension schema for one concrete judge
// agent, used both to validate the parsed model response and to supply
// the dimensions averaged with equal weight when OverallScore must be
// recomputed.
type AgentSchema struct {
	Agent      model.AgentName
	Dimensions []string
}

// Schemas enumerates the four concrete agents' fixed sub-dimension sets
// (spec §6).
var Schemas = map[model.AgentName]AgentSchema{
	model.AgentBugHunter: {
		Agent:      model.AgentBugHunter,
		Dimensions: []string{"code_quality", "security", "test_coverage", "error_handling", "dependency_hygiene"},
	},
	model.AgentPerformance: {
		Agent:      model.AgentPerformance,
		Dimensions: []string{"architecture", "database_design", "api_design", "scalability", "resource_efficiency"},
	},
	model.AgentInnovation: {
		Agent:      model.AgentInnovation,
		Dimensions: []string{"technical_novelty", "creative_problem_solving", "architecture_elegance", "readme_quality", "demo_potential"},
	},
	model.AgentAIDetection: {
		Agent:      model.AgentAIDetection,
		Dimensions: []string{"commit_authenticity", "development_velocity", "authorship_consistency", "iteration_depth", "ai_generation_indicators"},
	},
}

// JSONSchema renders s as a schema.JSON document, the hand-rolled
// JSON-Schema DSL every agent's expected response shape is expressed in
// (used for documentation/tooling, not for runtime validation — runtime
// validation is the explicit field-by-field check in validate.go, not
// schema.JSON.Validate).
func (s AgentSchema) JSONSchema() schema.JSON {
	scores := make(map[string]schema.JSON, len(s.Dimensions))
	for _, dim := range s.Dimensions {
		scores[dim] = schema.JSON{Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(10)}
	}

	properties := map[string]schema.JSON{
		"scores":        {Type: "object", Properties: scores},
		"overall_score": {Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(10)},
		"confidence":    {Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(1)},
		"summary":       schema.String(),
		"strengths":     {Type: "array", Items: &schema.JSON{Type: "string"}},
		"improvements":  {Type: "array", Items: &schema.JSON{Type: "string"}},
		"evidence": {
			Type: "array",
			Items: &schema.JSON{
				Type: "object",
				Properties: map[string]schema.JSON{
					"finding":        schema.String(),
					"file":           schema.String(),
					"line":           {Type: "integer"},
					"severity":       {Type: "string", Enum: []any{"critical", "high", "medium", "low", "info"}},
					"category":       schema.String(),
					"recommendation": schema.String(),
				},
			},
		},
	}

	if s.Agent == model.AgentAIDetection {
		properties["ai_usage_estimate"] = schema.JSON{Type: "string", Enum: []any{"none", "minimal", "moderate", "heavy", "full"}}
		properties["development_pattern"] = schema.JSON{Type: "string", Enum: []any{"organic", "ai_assisted_iterative", "ai_assisted_bulk", "ai_generated"}}
	}

	return schema.JSON{
		Type:        "object",
		Description: fmt.Sprintf("output schema for the %s agent", s.Agent),
		Properties:  properties,
		Required:    []string{"scores", "summary"},
	}
}

func floatPtr(f float64) *float64 { return &f }
