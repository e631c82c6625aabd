package converse

import (
	"context"
	"fmt"
)

// FakeClient is an in-process stand-in for Client used in tests across
// the agentrt and orchestrator packages, mirroring the donor's
// mockLLMProvider idiom (eval/scorer_llm_judge_test.go).
type FakeClient struct {
	// Responses is the queue of responses to return, one per call, in
	// order. If exhausted, the last entry is reused.
	Responses []Response

	// Err, if set, is returned instead of a response on every call.
	Err error

	calls int
}

// Converse returns the next queued response (or Err).
func (f *FakeClient) Converse(_ context.Context, _ string, _ string, _ []Message, _ InferenceConfig) (Response, error) {
	if f.Err != nil {
		return Response{}, f.Err
	}
	if len(f.Responses) == 0 {
		return Response{}, fmt.Errorf("converse: fake client has no queued responses")
	}
	idx := f.calls
	if idx >= len(f.Responses) {
		idx = len(f.Responses) - 1
	}
	f.calls++
	return f.Responses[idx], nil
}

// Calls returns the number of times Converse was invoked.
func (f *FakeClient) Calls() int {
	return f.calls
}
