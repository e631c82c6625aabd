package agentrt

import (
	"regexp"
	"strings"

	"github.com/ma-za-kpe/vibejudge/parser"
)

// fencedBlockPattern matches a ```json ... ``` or bare ``` ... ```
// fenced code block, the shape models most commonly wrap JSON in
// despite being told not to.
var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// StripFences applies spec §4.3 step 3's permissive pre-parser: if the
// response is wrapped in a fenced code block, the fenced content is
// extracted; otherwise, any prose before the first '{' and after the
// last matching '}' is trimmed. It never alters well-formed input.
func StripFences(content string) string {
	trimmed := strings.TrimSpace(content)

	if m := fencedBlockPattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}

	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start < 0 || end < 0 || end < start {
		return trimmed
	}
	return trimmed[start : end+1]
}

// rawAgentOutput is the permissive top-level shape every agent response
// is first decoded into: map values rather than concrete fields, so
// that schema validation (not json.Unmarshal) is the single place
// unknown keys get dropped and missing fields get reported (spec §4.3
// step 4).
type rawAgentOutput map[string]any

// ParseAgentResponse strips fences/prose from content and decodes the
// remainder as a single JSON object. It never fails on unknown keys;
// those are dropped later by schema validation.
func ParseAgentResponse(content string) (rawAgentOutput, error) {
	stripped := StripFences(content)
	parsed, err := parser.ParseJSON[rawAgentOutput]([]byte(stripped))
	if err != nil {
		return nil, err
	}
	return *parsed, nil
}

// correctiveRetryMessage is the exact corrective user turn spec §4.3
// step 3 mandates on a first parse failure.
const correctiveRetryMessage = "Previous response was not valid JSON; respond with ONLY a JSON object matching the schema."
