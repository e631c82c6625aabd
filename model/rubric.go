package model

import "math"

// weightTolerance is the maximum allowed deviation of a rubric's
// dimension weights from summing to 1.0.
const weightTolerance = 1e-3

// RubricDimension is one weighted, agent-scored axis of a hackathon's
// judging rubric.
type RubricDimension struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Agent       string  `json:"agent"`
	Description string  `json:"description"`
}

// Rubric is the ordered set of weighted dimensions a hackathon scores
// submissions against. Dimension weights must sum to 1.0 within
// weightTolerance, and every dimension must reference an agent enabled
// on the owning hackathon.
type Rubric struct {
	MaxScore   float64           `json:"max_score"`
	Dimensions []RubricDimension `json:"dimensions"`
}

// Validate checks the weight-sum invariant and that every dimension
// references one of enabledAgents.
func (r Rubric) Validate(enabledAgents []AgentName) error {
	if len(r.Dimensions) == 0 {
		return fieldError("Dimensions", "rubric must have at least one dimension")
	}

	enabled := make(map[AgentName]bool, len(enabledAgents))
	for _, a := range enabledAgents {
		enabled[a] = true
	}

	var sum float64
	for _, d := range r.Dimensions {
		if d.Name == "" {
			return fieldError("Dimensions", "dimension name must not be empty")
		}
		if d.Weight < 0 || d.Weight > 1 {
			return fieldError("Dimensions", "dimension %q weight %f out of [0,1]", d.Name, d.Weight)
		}
		if !enabled[AgentName(d.Agent)] {
			return fieldError("Dimensions", "dimension %q references agent %q not in agents_enabled", d.Name, d.Agent)
		}
		sum += d.Weight
	}

	if math.Abs(sum-1.0) > weightTolerance {
		return fieldError("Dimensions", "weights sum to %f, want 1.0 ± %g", sum, weightTolerance)
	}
	return nil
}

// DimensionsForAgent returns the subset of dimensions scored by agent.
func (r Rubric) DimensionsForAgent(agent AgentName) []RubricDimension {
	var out []RubricDimension
	for _, d := range r.Dimensions {
		if AgentName(d.Agent) == agent {
			out = append(out, d)
		}
	}
	return out
}
