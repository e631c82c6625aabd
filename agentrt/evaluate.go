package agentrt

import (
	"context"
	"time"

	"github.com/ma-za-kpe/vibejudge/converse"
	"github.com/ma-za-kpe/vibejudge/costs"
	"github.com/ma-za-kpe/vibejudge/model"
	"github.com/ma-za-kpe/vibejudge/policy"
	"github.com/ma-za-kpe/vibejudge/vjerr"
	"github.com/ma-za-kpe/vibejudge/vjlog"
)

// Runtime evaluates judge agents against a RepoContext through a
// converse.Client, implementing the full spec §4.3 execution sequence.
type Runtime struct {
	Client      converse.Client
	Descriptors map[model.AgentName]Descriptor
	Rates       costs.RateTable

	// Policy applies spec §4.3 step 8's ai_policy_mode interpretation
	// to ai_detection results. Nil disables the policy-review flag
	// entirely (e.g. in tests that don't exercise it).
	Policy *policy.Evaluator
}

// New builds a Runtime with the default agent descriptors.
func New(client converse.Client, rates costs.RateTable, policyEval *policy.Evaluator) *Runtime {
	return &Runtime{Client: client, Descriptors: DefaultDescriptors, Rates: rates, Policy: policyEval}
}

// Evaluate runs one agent against repo for one submission, returning its
// AgentResult and recording its cost on tracker. On JSON parse failure
// it issues the single corrective retry spec §4.3 step 3 mandates; a
// second failure (or a schema validation failure on the corrective
// response) fails the agent with vjerr.ErrInvalidOutput and contributes
// no score.
func (rt *Runtime) Evaluate(ctx context.Context, subID, hackID string, agent model.AgentName, repo model.RepoContext, policyMode model.AIPolicyMode, rubric model.Rubric, tracker *costs.Tracker) (model.AgentResult, error) {
	desc, ok := rt.Descriptors[agent]
	if !ok {
		return model.AgentResult{}, vjerr.New("agentrt.Evaluate", vjerr.CodeInput, "unknown agent "+string(agent))
	}
	schema, ok := Schemas[agent]
	if !ok {
		return model.AgentResult{}, vjerr.New("agentrt.Evaluate", vjerr.CodeInput, "no schema registered for agent "+string(agent))
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(desc.TimeoutSeconds)*time.Second)
	defer cancel()

	logger := vjlog.FromContext(ctx).With("sub_id", subID, "agent", agent)

	userMsg := BuildUserMessage(desc, repo, policyMode, rubric)
	messages := []converse.Message{{Role: converse.RoleUser, Content: userMsg}}

	result, usage, err := rt.converseAndValidate(ctx, desc, schema, messages)
	if err != nil {
		logger.Warn("agent evaluation failed", "error", err)
		return model.AgentResult{}, err
	}

	if tracker != nil {
		record := rt.Rates.Compute(subID, hackID, agent, desc.ModelID, usage)
		tracker.Add(record)
	}

	result.SubID = subID
	result.PromptVersion = desc.PromptVersion
	result.ModelID = desc.ModelID
	result.CreatedAt = time.Now()

	result = GroundEvidence(result, repo)
	result = ApplySanityChecks(result)

	if agent == model.AgentAIDetection && rt.Policy != nil {
		if flag, err := rt.Policy.ShouldFlagAIIndicators(policyMode, result.Scores["ai_generation_indicators"]); err != nil {
			logger.Warn("policy evaluation failed", "error", err)
		} else if flag && !result.HasFlag(model.FlagAIPolicyReview) {
			result.Flags = append(result.Flags, model.FlagAIPolicyReview)
		}
	}

	logger.Info("agent evaluation complete", "overall_score", result.OverallScore, "flags", result.Flags)
	return result, nil
}

// converseAndValidate performs the invoke/parse/validate sequence with
// the single corrective retry on parse or validation failure.
func (rt *Runtime) converseAndValidate(ctx context.Context, desc Descriptor, schema AgentSchema, messages []converse.Message) (model.AgentResult, costs.Usage, error) {
	resp, err := rt.Client.Converse(ctx, desc.ModelID, desc.SystemPrompt, messages, desc.InferenceConfig())
	if err != nil {
		return model.AgentResult{}, costs.Usage{}, vjerr.New("agentrt.Evaluate", vjerr.CodeTransient, "model call failed").WithCause(err)
	}
	usage := costs.Usage{InputTokens: int64(resp.Usage.InputTokens), OutputTokens: int64(resp.Usage.OutputTokens), LatencyMs: resp.LatencyMs}

	result, parseErr := parseAndValidate(resp.Content, schema)
	if parseErr == nil {
		return result, usage, nil
	}

	retryMessages := append(append([]converse.Message{}, messages...),
		converse.Message{Role: converse.RoleAssistant, Content: resp.Content},
		converse.Message{Role: converse.RoleUser, Content: correctiveRetryMessage},
	)

	retryResp, retryErr := rt.Client.Converse(ctx, desc.ModelID, desc.SystemPrompt, retryMessages, desc.InferenceConfig())
	if retryErr != nil {
		return model.AgentResult{}, usage, vjerr.New("agentrt.Evaluate", vjerr.CodeTransient, "corrective retry call failed").WithCause(retryErr)
	}
	usage.InputTokens += int64(retryResp.Usage.InputTokens)
	usage.OutputTokens += int64(retryResp.Usage.OutputTokens)
	usage.LatencyMs += retryResp.LatencyMs

	result, parseErr = parseAndValidate(retryResp.Content, schema)
	if parseErr != nil {
		return model.AgentResult{}, usage, vjerr.New("agentrt.Evaluate", vjerr.CodeData, "agent output invalid after corrective retry").WithCause(vjerr.ErrInvalidOutput)
	}
	return result, usage, nil
}

func parseAndValidate(content string, schema AgentSchema) (model.AgentResult, error) {
	raw, err := ParseAgentResponse(content)
	if err != nil {
		return model.AgentResult{}, err
	}
	return ValidateAndExtract(raw, schema)
}
