package agentrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences_PlainJSONUnchanged(t *testing.T) {
	in := `{"summary":"ok"}`
	assert.Equal(t, in, StripFences(in))
}

func TestStripFences_RemovesJSONFenceAndProse(t *testing.T) {
	in := "Here is my analysis:\n```json\n{\"summary\":\"ok\"}\n```\nLet me know if you need more."
	assert.Equal(t, `{"summary":"ok"}`, StripFences(in))
}

func TestStripFences_BareFence(t *testing.T) {
	in := "```\n{\"summary\":\"ok\"}\n```"
	assert.Equal(t, `{"summary":"ok"}`, StripFences(in))
}

func TestParseAgentResponse_ParsesFencedObject(t *testing.T) {
	raw, err := ParseAgentResponse("```json\n{\"summary\":\"ok\",\"scores\":{\"code_quality\":8}}\n```")
	require.NoError(t, err)
	assert.Equal(t, "ok", raw["summary"])
}

func TestParseAgentResponse_ErrorsOnGarbage(t *testing.T) {
	_, err := ParseAgentResponse("not json at all")
	assert.Error(t, err)
}
