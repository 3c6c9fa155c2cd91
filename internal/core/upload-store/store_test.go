package uploadstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveNamesArtifactsWithEpochPrefix(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	before := time.Now().UnixMilli()
	art, err := store.Save("scan.png", []byte("png-bytes"))
	require.NoError(t, err)
	after := time.Now().UnixMilli()

	name := filepath.Base(art.Path)
	parts := strings.SplitN(name, "-", 2)
	require.Len(t, parts, 2)
	ms, err := strconv.ParseInt(parts[0], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ms, before)
	assert.LessOrEqual(t, ms, after)
	assert.Equal(t, "scan.png", parts[1])

	data, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestSaveFlattensPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	art, err := store.Save("../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(art.Path))
	assert.True(t, strings.HasSuffix(art.Path, "-passwd"))
}

func TestRemoveRollsBackSingleArtifact(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	art, err := store.Save("a.png", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(art))
	_, statErr := os.Stat(art.Path)
	assert.True(t, os.IsNotExist(statErr))

	// removing twice is fine; rollback is best-effort
	assert.NoError(t, store.Remove(art))
}

func writeAged(t *testing.T, dir string, age time.Duration, suffix string) string {
	t.Helper()
	name := fmt.Sprintf("%d-%s", time.Now().Add(-age).UnixMilli(), suffix)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestReapDeletesOnlyExpiredArtifacts(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	fresh := writeAged(t, dir, 23*time.Hour+59*time.Minute, "fresh.png")
	stale := writeAged(t, dir, 24*time.Hour+1*time.Minute, "stale.png")
	ancient := writeAged(t, dir, 48*time.Hour, "ancient.png")

	removed, err := store.Reap(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = os.Stat(fresh)
	assert.NoError(t, err, "artifact inside the retention window must survive")
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(ancient)
	assert.True(t, os.IsNotExist(err))
}

func TestReapFallsBackToModTime(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	// no epoch prefix in the name, so age comes from mtime
	path := filepath.Join(dir, "unprefixed.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	removed, err := store.Reap(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestReapDoesNotCountFilesRemovedByOthers(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	// expired by its name prefix but already gone from disk, as if a
	// concurrent delete won the race
	ghost := fmt.Sprintf("%d-ghost.png", time.Now().Add(-48*time.Hour).UnixMilli())
	cutoff := time.Now().Add(-24 * time.Hour)

	assert.False(t, store.reapOne(ghost, cutoff))

	present := writeAged(t, dir, 48*time.Hour, "present.png")
	assert.True(t, store.reapOne(filepath.Base(present), cutoff))
	_, err = os.Stat(present)
	assert.True(t, os.IsNotExist(err))
}

func TestReapLeavesFreshUnprefixedFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "just-written.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	removed, err := store.Reap(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
