package organizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracestowel/storekit/internal/sprint"
)

var folders = []string{"done", "ready-for-dev", "in-progress", "backlog", "drafted"}

func newTestOrganizer(t *testing.T) (*Organizer, string) {
	t.Helper()
	base := t.TempDir()
	return New(base, folders, "backlog"), base
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("# "+filepath.Base(path)), 0o644))
}

func TestFolderForIsTotal(t *testing.T) {
	o := New("", folders, "backlog")
	tests := map[string]string{
		"done":          "done",
		"ready-for-dev": "ready-for-dev",
		"in-progress":   "in-progress",
		"backlog":       "backlog",
		"drafted":       "drafted",
		"review":        "backlog",
		"Done":          "backlog",
		"":              "backlog",
	}
	for status, want := range tests {
		assert.Equal(t, want, o.FolderFor(status), "status %q", status)
	}
}

func TestOrganizeMovesByStatus(t *testing.T) {
	o, base := newTestOrganizer(t)
	touch(t, filepath.Join(base, "1-1-setup.md"))
	touch(t, filepath.Join(base, "1-2-catalog.md"))
	touch(t, filepath.Join(base, "1-4-reviewed.md"))

	records := []sprint.StoryRecord{
		{Key: "1-1-setup", Filename: "1-1-setup.md", Status: "done"},
		{Key: "1-2-catalog", Filename: "1-2-catalog.md", Status: "in-progress"},
		{Key: "1-3-gone", Filename: "1-3-gone.md", Status: "done"},
		{Key: "1-4-reviewed", Filename: "1-4-reviewed.md", Status: "review"},
	}

	summary, err := o.Organize(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Moved)
	assert.Equal(t, 1, summary.Missing)
	assert.Zero(t, summary.Failed)
	require.Len(t, summary.Outcomes, 4)
	assert.Equal(t, ActionMissing, summary.Outcomes[2].Action)

	assert.FileExists(t, filepath.Join(base, "done", "1-1-setup.md"))
	assert.FileExists(t, filepath.Join(base, "in-progress", "1-2-catalog.md"))
	assert.FileExists(t, filepath.Join(base, "backlog", "1-4-reviewed.md"))
	assert.NoFileExists(t, filepath.Join(base, "1-1-setup.md"))

	for _, f := range folders {
		assert.DirExists(t, filepath.Join(base, f))
	}
}

func TestOrganizeRerunSkipsMovedFiles(t *testing.T) {
	o, base := newTestOrganizer(t)
	touch(t, filepath.Join(base, "story.md"))
	records := []sprint.StoryRecord{{Key: "story", Filename: "story.md", Status: "drafted"}}

	first, err := o.Organize(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Moved)

	second, err := o.Organize(context.Background(), records)
	require.NoError(t, err)
	assert.Zero(t, second.Moved)
	assert.Zero(t, second.Failed)
	assert.Equal(t, 1, second.Missing)
	assert.FileExists(t, filepath.Join(base, "drafted", "story.md"))
}

func TestOrganizeContinuesAfterFailure(t *testing.T) {
	o, base := newTestOrganizer(t)
	touch(t, filepath.Join(base, "blocked.md"))
	touch(t, filepath.Join(base, "fine.md"))

	// a non-empty directory at the destination makes the rename fail
	blocker := filepath.Join(base, "done", "blocked.md")
	require.NoError(t, os.MkdirAll(blocker, 0o755))
	touch(t, filepath.Join(blocker, "keep"))

	records := []sprint.StoryRecord{
		{Filename: "blocked.md", Status: "done"},
		{Filename: "fine.md", Status: "done"},
	}
	summary, err := o.Organize(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Moved)
	assert.Error(t, summary.Outcomes[0].Err)
	assert.FileExists(t, filepath.Join(base, "blocked.md"))
	assert.FileExists(t, filepath.Join(base, "done", "fine.md"))
}

func TestOrganizeDryRun(t *testing.T) {
	o, base := newTestOrganizer(t)
	o.DryRun = true
	touch(t, filepath.Join(base, "story.md"))

	summary, err := o.Organize(context.Background(), []sprint.StoryRecord{
		{Filename: "story.md", Status: "ready-for-dev"},
		{Filename: "absent.md", Status: "done"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Planned)
	assert.Equal(t, 1, summary.Missing)
	assert.Equal(t, "ready-for-dev", summary.Outcomes[0].Folder)
	assert.FileExists(t, filepath.Join(base, "story.md"))
	assert.NoDirExists(t, filepath.Join(base, "ready-for-dev"))
	assert.NoFileExists(t, filepath.Join(base, LockFileName))
}

func TestOrganizeRefusesWhenLocked(t *testing.T) {
	o, base := newTestOrganizer(t)
	touch(t, filepath.Join(base, "story.md"))

	release, err := o.Lock()
	require.NoError(t, err)

	_, err = New(base, folders, "backlog").Organize(context.Background(), []sprint.StoryRecord{{Filename: "story.md", Status: "done"}})
	assert.ErrorIs(t, err, ErrLocked)
	assert.FileExists(t, filepath.Join(base, "story.md"))

	require.NoError(t, release())
	summary, err := o.Organize(context.Background(), []sprint.StoryRecord{{Filename: "story.md", Status: "done"}})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Moved)
}

func TestOrganizeCancelled(t *testing.T) {
	o, base := newTestOrganizer(t)
	touch(t, filepath.Join(base, "story.md"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Organize(ctx, []sprint.StoryRecord{{Filename: "story.md", Status: "done"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, filepath.Join(base, "story.md"))
}
