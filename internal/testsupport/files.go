package testsupport

import (
	"testing"

	"litsieve/internal/review"
	"litsieve/internal/workspace"
)

// WriteBaseReview drops a base review artifact into the workspace root so an
// orchestrator run can start from it.
func WriteBaseReview(t testing.TB, workspaceDir string, records []review.Record) {
	t.Helper()

	if err := workspace.WriteJSON(workspace.BaseReviewPathIn(workspaceDir), records); err != nil {
		t.Fatalf("write base review: %v", err)
	}
}
