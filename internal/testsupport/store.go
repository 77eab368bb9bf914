package testsupport

import (
	"testing"

	"litsieve/internal/logging"
	"litsieve/internal/registry"
	"litsieve/internal/workspace"
)

// SeedRegistry saves a registry holding the given entries under the workspace
// root and returns its path.
func SeedRegistry(t testing.TB, workspaceDir, criteriaHash string, entries ...registry.Entry) string {
	t.Helper()

	reg := registry.New(logging.NewNop())
	reg.SetCriteriaHash(criteriaHash)
	for _, entry := range entries {
		reg.Upsert(entry)
	}
	path := workspace.RegistryPathIn(workspaceDir)
	if err := reg.Save(path); err != nil {
		t.Fatalf("save registry: %v", err)
	}
	return path
}
