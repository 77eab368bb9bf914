package workspace

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"litsieve/internal/logging"
	"litsieve/internal/services"
)

const (
	registryFileName   = "registry.json"
	harvestDBFileName  = "harvest.db"
	lockFileName       = ".litsieve.lock"
	criteriaFileName   = "criteria.yaml"
	baseReviewFileName = "base_review.json"
	roundsDirName      = "rounds"
	metadataFileName   = "metadata.json"
	recordsFileName    = "records.json"
)

// Workspace is an opened, locked review project directory.
type Workspace struct {
	root   string
	runID  string
	lock   *flock.Flock
	logger *slog.Logger
}

// Open prepares the workspace directory structure and takes the run lock.
// A second concurrent run against the same root fails fast rather than
// interleaving registry writes.
func Open(root string, logger *slog.Logger) (*Workspace, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("workspace: root directory required")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("workspace: resolve root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(absRoot, roundsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("workspace: create layout: %w", err)
	}

	ws := &Workspace{
		root:   absRoot,
		runID:  uuid.NewString(),
		lock:   flock.New(filepath.Join(absRoot, lockFileName)),
		logger: logging.NewComponentLogger(logger, "workspace"),
	}
	ok, err := ws.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("workspace: acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "workspace", "open",
			fmt.Sprintf("another run holds the lock on %s", absRoot), nil)
	}
	ws.logger.Debug("workspace opened",
		logging.String("root", absRoot),
		logging.String(logging.FieldRunID, ws.runID))
	return ws, nil
}

// Close releases the run lock.
func (w *Workspace) Close() error {
	if w == nil || w.lock == nil {
		return nil
	}
	if err := w.lock.Unlock(); err != nil {
		return fmt.Errorf("workspace: release lock: %w", err)
	}
	return nil
}

// Root returns the absolute workspace directory.
func (w *Workspace) Root() string { return w.root }

// RunID identifies this run in logs and round metadata.
func (w *Workspace) RunID() string { return w.runID }

// RegistryPath is the persisted registry document.
func (w *Workspace) RegistryPath() string { return filepath.Join(w.root, registryFileName) }

// HarvestDBPath is the SQLite harvest cache.
func (w *Workspace) HarvestDBPath() string { return filepath.Join(w.root, harvestDBFileName) }

// CriteriaPath is the inclusion/exclusion criteria document.
func (w *Workspace) CriteriaPath() string { return filepath.Join(w.root, criteriaFileName) }

// BaseReviewPath is the round-zero review artifact that seeds round one.
func (w *Workspace) BaseReviewPath() string { return filepath.Join(w.root, baseReviewFileName) }

// RoundDir is the directory holding one round's artifacts.
func (w *Workspace) RoundDir(round int) string {
	return filepath.Join(w.root, roundsDirName, fmt.Sprintf("round-%03d", round))
}

// RoundMetadataPath is the per-round metadata document.
func (w *Workspace) RoundMetadataPath(round int) string {
	return filepath.Join(w.RoundDir(round), metadataFileName)
}

// RoundRecordsPath is the per-round review record dump.
func (w *Workspace) RoundRecordsPath(round int) string {
	return filepath.Join(w.RoundDir(round), recordsFileName)
}

// Rounds lists the round numbers that have a metadata document, ascending.
func (w *Workspace) Rounds() ([]int, error) {
	return RoundsIn(w.root)
}

// RemoveRegistry deletes the persisted registry, used by the rebuild flag.
func (w *Workspace) RemoveRegistry() error {
	err := os.Remove(w.RegistryPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("workspace: remove registry: %w", err)
	}
	return nil
}

// RegistryPathIn returns the registry document path for a workspace root
// without opening (and locking) the workspace. Read-only inspection commands
// use this so they never block a running review.
func RegistryPathIn(root string) string {
	return filepath.Join(root, registryFileName)
}

// BaseReviewPathIn is the unlocked counterpart of BaseReviewPath.
func BaseReviewPathIn(root string) string {
	return filepath.Join(root, baseReviewFileName)
}

// RoundMetadataPathIn is the unlocked counterpart of RoundMetadataPath.
func RoundMetadataPathIn(root string, round int) string {
	return filepath.Join(root, roundsDirName, fmt.Sprintf("round-%03d", round), metadataFileName)
}

// RoundsIn lists executed rounds under a workspace root without locking it.
func RoundsIn(root string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(root, roundsDirName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("workspace: list rounds: %w", err)
	}
	var rounds []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(entry.Name(), "round-%d", &n); err != nil {
			continue
		}
		if _, err := os.Stat(RoundMetadataPathIn(root, n)); err != nil {
			continue
		}
		rounds = append(rounds, n)
	}
	return rounds, nil
}

// WriteJSON persists v at path via a whole-document atomic replace.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("workspace: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("workspace: create %s directory: %w", filepath.Base(path), err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("workspace: write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("workspace: replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadJSON loads a JSON document from path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("workspace: parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
