package review

import (
	"fmt"
	"strings"
)

// juniorSystemPrompt frames the screening task for the junior reviewer role.
// Keep prompt text centralized here so it is easy to tweak without hunting
// through call sites.
const juniorSystemPrompt = `You are a reviewer screening papers for a systematic literature review.

Score how well the paper matches the inclusion criteria on a 1-5 scale:

- 5: clearly matches the inclusion criteria
- 4: likely matches, minor doubts
- 3: cannot decide from title and abstract alone
- 2: likely does not match
- 1: clearly does not match

Set "discard" to true ONLY when the paper plainly violates an exclusion criterion (wrong publication type, wrong language, retracted). A low score alone is not a discard.

You must respond ONLY with a JSON object like: {"evaluation": 4, "reasoning": "short justification", "discard": false}`

// seniorSystemPrompt frames the escalation task. The senior reviewer sees
// both junior outputs and settles the disagreement.
const seniorSystemPrompt = `You are the senior reviewer in a systematic literature review. Two junior reviewers disagreed or were uncertain about this paper; their scores and reasoning are included below.

Weigh their arguments against the criteria and produce your own final score on the same 1-5 scale. Your score decides the paper's fate.

You must respond ONLY with a JSON object like: {"evaluation": 2, "reasoning": "short justification", "discard": false}`

func juniorUserPrompt(doc promptCriteria, paper Paper) string {
	var b strings.Builder
	writeCriteria(&b, doc)
	writePaper(&b, paper)
	return b.String()
}

func seniorUserPrompt(doc promptCriteria, paper Paper, juniorA, juniorB *ReviewerOutput) string {
	var b strings.Builder
	writeCriteria(&b, doc)
	writePaper(&b, paper)
	b.WriteString("\nJunior reviewer A:\n")
	writeReviewerOutput(&b, juniorA)
	b.WriteString("\nJunior reviewer B:\n")
	writeReviewerOutput(&b, juniorB)
	return b.String()
}

// promptCriteria carries the rendered rule text fed into prompts.
type promptCriteria struct {
	Inclusion string
	Exclusion string
}

func writeCriteria(b *strings.Builder, doc promptCriteria) {
	b.WriteString("Inclusion criteria:\n")
	b.WriteString(strings.TrimSpace(doc.Inclusion))
	b.WriteString("\n\nExclusion criteria:\n")
	b.WriteString(strings.TrimSpace(doc.Exclusion))
	b.WriteString("\n")
}

func writePaper(b *strings.Builder, paper Paper) {
	fmt.Fprintf(b, "\nTitle: %s\n", strings.TrimSpace(paper.Title))
	abstract := strings.TrimSpace(paper.Abstract)
	if abstract == "" {
		abstract = "(no abstract available)"
	}
	fmt.Fprintf(b, "Abstract: %s\n", abstract)
}

func writeReviewerOutput(b *strings.Builder, out *ReviewerOutput) {
	if out == nil {
		b.WriteString("(no response)\n")
		return
	}
	fmt.Fprintf(b, "score: %d\nreasoning: %s\n", out.Evaluation, strings.TrimSpace(out.Reasoning))
}
