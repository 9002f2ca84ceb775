// Package organizer files sprint artifacts into folders named after their status.
//
// Every status maps to exactly one folder: an allow-listed status maps to the
// folder of the same name and anything else goes to the default folder. Files
// that are no longer at the top of the base directory are skipped silently, so
// re-running after a partial or complete run is safe.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/gracestowel/storekit/internal/fileutil"
	"github.com/gracestowel/storekit/internal/sprint"
)

// LockFileName is created in the base directory while a run is in progress.
const LockFileName = ".storekit-organize.lock"

// ErrLocked is returned when another run holds the base directory lock.
var ErrLocked = errors.New("another organize run is in progress")

// Action describes what happened to one story file.
type Action string

const (
	ActionMoved   Action = "moved"
	ActionMissing Action = "missing"
	ActionFailed  Action = "failed"
	ActionPlanned Action = "planned"
)

// Outcome is the per-record result of a run.
type Outcome struct {
	Record sprint.StoryRecord
	Folder string
	Action Action
	Err    error
}

// Summary aggregates a run.
type Summary struct {
	BaseDir  string
	Outcomes []Outcome
	Moved    int
	Missing  int
	Failed   int
	Planned  int
}

// Organizer moves files from BaseDir into BaseDir/<folder>.
type Organizer struct {
	BaseDir       string
	Folders       []string
	DefaultFolder string
	// DryRun reports planned moves without touching the filesystem.
	DryRun bool

	allowed map[string]bool
}

// New creates an organizer. defaultFolder should be one of folders.
func New(baseDir string, folders []string, defaultFolder string) *Organizer {
	allowed := make(map[string]bool, len(folders))
	for _, f := range folders {
		allowed[f] = true
	}
	return &Organizer{
		BaseDir:       baseDir,
		Folders:       folders,
		DefaultFolder: defaultFolder,
		allowed:       allowed,
	}
}

// FolderFor maps a status to its destination folder.
func (o *Organizer) FolderFor(status string) string {
	if o.allowed[status] {
		return status
	}
	return o.DefaultFolder
}

// EnsureFolders creates every status folder under BaseDir.
func (o *Organizer) EnsureFolders() error {
	for _, folder := range o.Folders {
		if err := os.MkdirAll(filepath.Join(o.BaseDir, folder), 0o755); err != nil {
			return fmt.Errorf("create folder %s: %w", folder, err)
		}
		slog.Info("Created/verified folder", "folder", folder+"/")
	}
	return nil
}

// Lock takes the exclusive run lock for BaseDir. The caller must invoke the
// returned release function.
func (o *Organizer) Lock() (func() error, error) {
	lock := flock.New(filepath.Join(o.BaseDir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w in %s", ErrLocked, o.BaseDir)
	}
	return lock.Unlock, nil
}

// Organize moves each record's file into its status folder. Item failures are
// logged and counted; the returned error covers setup problems and cancellation.
func (o *Organizer) Organize(ctx context.Context, records []sprint.StoryRecord) (Summary, error) {
	summary := Summary{BaseDir: o.BaseDir}

	if !o.DryRun {
		if err := os.MkdirAll(o.BaseDir, 0o755); err != nil {
			return summary, fmt.Errorf("create base directory: %w", err)
		}
		release, err := o.Lock()
		if err != nil {
			return summary, err
		}
		defer func() {
			if err := release(); err != nil {
				slog.Warn("Failed to release lock", "error", err)
			}
		}()

		if err := o.EnsureFolders(); err != nil {
			return summary, err
		}
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome := o.organizeOne(record)
		summary.Outcomes = append(summary.Outcomes, outcome)

		switch outcome.Action {
		case ActionMoved:
			summary.Moved++
			slog.Info("Moved", "folder", outcome.Folder+"/", "file", record.Filename)
		case ActionPlanned:
			summary.Planned++
			slog.Info("Would move", "folder", outcome.Folder+"/", "file", record.Filename)
		case ActionMissing:
			summary.Missing++
			slog.Debug("Not at top level, skipping", "file", record.Filename)
		case ActionFailed:
			summary.Failed++
			slog.Error("Error moving", "file", record.Filename, "error", outcome.Err)
		}
	}

	return summary, nil
}

func (o *Organizer) organizeOne(record sprint.StoryRecord) Outcome {
	folder := o.FolderFor(record.Status)
	outcome := Outcome{Record: record, Folder: folder}

	src := filepath.Join(o.BaseDir, record.Filename)
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			outcome.Action = ActionMissing
			return outcome
		}
		outcome.Action = ActionFailed
		outcome.Err = err
		return outcome
	}

	if o.DryRun {
		outcome.Action = ActionPlanned
		return outcome
	}

	dst := filepath.Join(o.BaseDir, folder, record.Filename)
	if err := fileutil.Move(src, dst); err != nil {
		outcome.Action = ActionFailed
		outcome.Err = err
		return outcome
	}
	outcome.Action = ActionMoved
	return outcome
}
