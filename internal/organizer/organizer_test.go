package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("pixels"), 0o644))
}

func TestMoveBasic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeFile(t, src)

	sub := filepath.Join(dir, "out")
	m := NewMover(false, nil)
	require.NoError(t, m.EnsureDir(sub))

	final, err := m.Move(src, filepath.Join(sub, "renamed.jpg"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sub, "renamed.jpg"), final)
	assert.NoFileExists(t, src)
	assert.FileExists(t, final)
}

func TestMoveCollisionOnDisk(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeFile(t, src)
	existing := filepath.Join(dir, "pick.jpg")
	writeFile(t, existing)

	m := NewMover(false, nil)
	final, err := m.Move(src, existing)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "pick-01.jpg"), final)
	assert.FileExists(t, existing)
	assert.FileExists(t, final)
}

func TestMoveCollisionWithinRun(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "pick.jpg")

	m := NewMover(false, nil)
	var finals []string
	for i := 0; i < 3; i++ {
		src := filepath.Join(dir, fmt.Sprintf("src-%d.jpg", i))
		writeFile(t, src)
		final, err := m.Move(src, dest)
		require.NoError(t, err)
		finals = append(finals, filepath.Base(final))
	}

	assert.Equal(t, []string{"pick.jpg", "pick-01.jpg", "pick-02.jpg"}, finals)
}

func TestMoveConcurrentSameStem(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "pick.jpg")
	m := NewMover(false, nil)

	const n = 8
	finals := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		src := filepath.Join(dir, fmt.Sprintf("src-%d.jpg", i))
		writeFile(t, src)
		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()
			final, err := m.Move(src, dest)
			assert.NoError(t, err)
			finals[i] = final
		}(i, src)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, final := range finals {
		assert.False(t, seen[final], "duplicate destination %s", final)
		seen[final] = true
		assert.FileExists(t, final)
	}
}

func TestDryRunMutatesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeFile(t, src)

	m := NewMover(true, nil)
	sub := filepath.Join(dir, "out")
	require.NoError(t, m.EnsureDir(sub))

	final, err := m.Move(src, filepath.Join(sub, "renamed.jpg"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sub, "renamed.jpg"), final, "preview plans the same path as a real run")

	assert.FileExists(t, src)
	assert.NoDirExists(t, sub)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.jpg", entries[0].Name())
}

func TestDryRunPlansCollisionsConsistently(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "pick.jpg")
	writeFile(t, filepath.Join(dir, "src1.jpg"))
	writeFile(t, filepath.Join(dir, "src2.jpg"))

	m := NewMover(true, nil)
	first, err := m.Move(filepath.Join(dir, "src1.jpg"), dest)
	require.NoError(t, err)
	second, err := m.Move(filepath.Join(dir, "src2.jpg"), dest)
	require.NoError(t, err)

	assert.Equal(t, "pick.jpg", filepath.Base(first))
	assert.Equal(t, "pick-01.jpg", filepath.Base(second))
}

func TestCopyLeavesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeFile(t, src)

	m := NewMover(false, nil)
	final, err := m.Copy(src, filepath.Join(dir, "copy.jpg"))
	require.NoError(t, err)

	assert.FileExists(t, src)
	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}

func TestAuditLogFormat(t *testing.T) {
	dir := t.TempDir()
	audit := NewAuditLog(dir, "20260828_120000")
	assert.Equal(t, filepath.Join(dir, "_rename_log_20260828_120000.txt"), audit.Path())

	audit.Record("IMG_0001.jpg", "surfer_PICK.jpg", filepath.Join(dir, "_Bursts", "surfer_burst"))

	data, err := os.ReadFile(audit.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4, "header is three lines plus one record")
	assert.True(t, strings.HasPrefix(lines[0], "# PhotoSort rename log"))
	assert.Contains(t, lines[3], " | IMG_0001.jpg -> surfer_PICK.jpg | ")
}

func TestMoveWritesAuditLine(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeFile(t, src)

	audit := NewAuditLog(dir, "20260828_130000")
	m := NewMover(false, audit)

	_, err := m.Move(src, filepath.Join(dir, "b.jpg"))
	require.NoError(t, err)

	data, err := os.ReadFile(audit.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "a.jpg -> b.jpg")
}

func TestDryRunWritesNoAuditLines(t *testing.T) {
	srcDir := t.TempDir()
	logDir := t.TempDir()
	src := filepath.Join(srcDir, "a.jpg")
	writeFile(t, src)

	audit := NewAuditLog(logDir, "20260828_140000")
	headerOnly, err := os.ReadFile(audit.Path())
	require.NoError(t, err)

	m := NewMover(true, audit)
	_, err = m.Move(src, filepath.Join(srcDir, "b.jpg"))
	require.NoError(t, err)

	after, err := os.ReadFile(audit.Path())
	require.NoError(t, err)
	assert.Equal(t, string(headerOnly), string(after))
}
