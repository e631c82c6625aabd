package agentrt

import "github.com/ma-za-kpe/vibejudge/model"

// unverifiedEvidenceThreshold is the fraction of file-referencing
// evidence that must be unverifiable before FABRICATED_EVIDENCE fires
// and confidence is forced down (spec §4.3 step 5).
const unverifiedEvidenceThreshold = 0.4

// forcedConfidenceCeiling is the confidence ceiling FABRICATED_EVIDENCE
// imposes.
const forcedConfidenceCeiling = 0.3

// GroundEvidence implements spec §4.3 step 5: every evidence item
// citing a file is marked verified against repo.HasFile, every item
// citing a commit against repo.HasCommit. If the unverified fraction of
// file-citing evidence reaches unverifiedEvidenceThreshold, confidence
// is capped and FlagFabricatedEvidence is appended.
func GroundEvidence(result model.AgentResult, repo model.RepoContext) model.AgentResult {
	for i := range result.Evidence {
		ev := &result.Evidence[i]
		switch {
		case ev.File != "":
			ev.Verified = repo.HasFile(ev.File)
			if !ev.Verified {
				ev.Note = "file not in repo"
			}
		case ev.Commit != "":
			ev.Verified = repo.HasCommit(ev.Commit)
			if !ev.Verified {
				ev.Note = "commit not in repo"
			}
		default:
			ev.Verified = true
		}
	}

	if result.UnverifiedEvidenceRatio() >= unverifiedEvidenceThreshold {
		if result.Confidence > forcedConfidenceCeiling {
			result.Confidence = forcedConfidenceCeiling
		}
		if !result.HasFlag(model.FlagFabricatedEvidence) {
			result.Flags = append(result.Flags, model.FlagFabricatedEvidence)
		}
	}

	return result
}

// ApplySanityChecks implements spec §4.3 step 6: uniform 5.0 sub-scores
// halve confidence and add FlagUniformScores; all sub-scores at or
// above 9.0 adds FlagUnusuallyHigh (confidence is left alone — the flag
// exists so the aggregator and downstream review can see it, not to
// force another confidence penalty on top of scores that may be
// legitimately excellent).
func ApplySanityChecks(result model.AgentResult) model.AgentResult {
	if len(result.Scores) == 0 {
		return result
	}

	allUniform := true
	allHigh := true
	for _, v := range result.Scores {
		if v != 5.0 {
			allUniform = false
		}
		if v < 9.0 {
			allHigh = false
		}
	}

	if allUniform {
		result.Confidence /= 2
		if !result.HasFlag(model.FlagUniformScores) {
			result.Flags = append(result.Flags, model.FlagUniformScores)
		}
	}
	if allHigh {
		if !result.HasFlag(model.FlagUnusuallyHigh) {
			result.Flags = append(result.Flags, model.FlagUnusuallyHigh)
		}
	}

	return result
}
