package agentrt

import (
	"fmt"
	"strings"

	"github.com/ma-za-kpe/vibejudge/extractor"
	"github.com/ma-za-kpe/vibejudge/model"
)

// contextWindowTokens is the assumed model context window used to
// derive repo_data_budget for every agent (Descriptor has no
// context-window field). Expressed in tokens; converted to characters via
// charsPerToken for the purposes of the fixed-template budget split
// (spec §4.3 step 1).
const contextWindowTokens = 200000

// charsPerToken is a coarse token-to-character ratio used only to turn
// a token budget into a character budget for prompt assembly; it is
// never used for cost accounting (costs.Tracker uses the model's
// reported usage, not this estimate).
const charsPerToken = 4

// systemShareMax bounds the system prompt's share of
// the context window (spec §4.3 step 1: "system ≈ 1-3%").
const systemShareMax = 0.03

// historyShare is the fraction of repo_data_budget reserved for commit
// history and workflow data, left unfilled by source files.
const historyShare = 0.20

// BuildUserMessage renders RepoContext into the fixed-template user
// message for d, budgeting source file inclusion against the
// descriptor's context window the way spec §4.3 step 1 describes:
// README and manifest/entry files are always included, remaining
// budget is filled by source files in priority order, and the final
// historyShare of the repo-data budget is reserved for commit history
// and workflow data regardless of how much budget source files used.
func BuildUserMessage(d Descriptor, repo model.RepoContext, policyMode model.AIPolicyMode, rubric model.Rubric) string {
	responseBudgetChars := d.MaxOutputTokens * charsPerToken
	systemBudgetChars := int(float64(contextWindowTokens*charsPerToken) * systemShareMax)
	totalChars := contextWindowTokens * charsPerToken
	repoDataBudget := totalChars - responseBudgetChars - systemBudgetChars
	if repoDataBudget < 0 {
		repoDataBudget = 0
	}
	historyBudget := int(float64(repoDataBudget) * historyShare)
	fileBudget := repoDataBudget - historyBudget

	var b strings.Builder

	fmt.Fprintf(&b, "Repository: %s/%s (default branch %s)\n", repo.Owner, repo.Repo, repo.DefaultBranch)
	fmt.Fprintf(&b, "AI policy mode: %s\n", policyMode)
	fmt.Fprintf(&b, "Rubric dimensions for this agent:\n")
	for _, dim := range rubric.DimensionsForAgent(d.Agent) {
		fmt.Fprintf(&b, "- %s (weight %.2f): %s\n", dim.Name, dim.Weight, dim.Description)
	}

	b.WriteString("\nFile tree:\n")
	for _, f := range repo.FileTree {
		b.WriteString(f)
		b.WriteByte('\n')
	}

	if repo.Readme != "" {
		b.WriteString("\nREADME:\n")
		b.WriteString(repo.Readme)
		b.WriteByte('\n')
	}

	used := b.Len()
	b.WriteString("\nSource files (priority order, always-include files first):\n")
	for _, sf := range prioritizedForPrompt(repo.SourceFiles) {
		entry := fmt.Sprintf("\n--- %s ---\n%s\n", sf.Path, sf.Content)
		if sf.Priority != extractor.PriorityEntryPoint && sf.Priority != extractor.PriorityManifest {
			if used+len(entry) > fileBudget {
				continue
			}
		}
		b.WriteString(entry)
		used += len(entry)
	}

	b.WriteString("\nCommit history:\n")
	historyUsed := 0
	for _, c := range repo.Commits {
		line := fmt.Sprintf("%s %s %s %s\n", c.ShortHash, c.CommitterAt.Format("2006-01-02"), c.Author, c.MessageFirstLine)
		if historyUsed+len(line) > historyBudget {
			break
		}
		b.WriteString(line)
		historyUsed += len(line)
	}

	if len(repo.WorkflowRuns) > 0 {
		fmt.Fprintf(&b, "\nCI workflow runs: %d recorded, success rate %.0f%%\n", len(repo.WorkflowRuns), repo.Meta.WorkflowSuccessRate*100)
	}

	return b.String()
}

// prioritizedForPrompt sorts SourceFiles so always-include entry point
// and manifest files come first, preserving the extractor's relative
// ordering within each priority tier otherwise.
func prioritizedForPrompt(files []model.SourceFile) []model.SourceFile {
	out := make([]model.SourceFile, len(files))
	copy(out, files)

	alwaysFirst := func(p int) int {
		if p == extractor.PriorityEntryPoint || p == extractor.PriorityManifest {
			return 0
		}
		return 1
	}

	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && alwaysFirst(out[j-1].Priority) > alwaysFirst(out[j].Priority) {
			out[j-1], out[j] = out[j], out[j-1]
			j--
		}
	}
	return out
}
