// Package organizer is the only place the pipeline mutates the filesystem.
// Everything upstream plans paths; the Mover commits them, resolving name
// collisions, honoring dry-run, and appending an audit trail of every
// committed move.
package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Mover commits planned file moves. Safe for concurrent use: collision
// resolution serializes on an internal mutex so two workers can never claim
// the same destination.
type Mover struct {
	// DryRun disables every mutation. Planned destination paths are still
	// resolved and returned so a preview matches the real run exactly.
	DryRun bool

	mu      sync.Mutex
	claimed map[string]bool
	audit   *AuditLog
}

// NewMover creates a Mover. audit may be nil when no trail is wanted.
func NewMover(dryRun bool, audit *AuditLog) *Mover {
	return &Mover{
		DryRun:  dryRun,
		claimed: make(map[string]bool),
		audit:   audit,
	}
}

// EnsureDir creates dir (and parents) unless running dry.
func (m *Mover) EnsureDir(dir string) error {
	if m.DryRun {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// Move relocates src to the planned dest, resolving collisions, and returns
// the final destination path. The audit line is written only for a committed
// move; audit failure never fails the move.
func (m *Mover) Move(src, dest string) (string, error) {
	final := m.claim(dest)

	if m.DryRun {
		log.Info().Str("from", src).Str("to", final).Msg("[preview] Would move")
		return final, nil
	}

	if err := os.Rename(src, final); err != nil {
		return "", fmt.Errorf("move %s: %w", filepath.Base(src), err)
	}

	log.Debug().Str("from", src).Str("to", final).Msg("Moved")
	if m.audit != nil {
		m.audit.Record(filepath.Base(src), filepath.Base(final), filepath.Dir(final))
	}
	return final, nil
}

// Copy duplicates src at the planned dest, resolving collisions the same way
// Move does. Used by export flows that must leave the source in place.
func (m *Mover) Copy(src, dest string) (string, error) {
	final := m.claim(dest)

	if m.DryRun {
		log.Info().Str("from", src).Str("to", final).Msg("[preview] Would copy")
		return final, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	defer in.Close()

	out, err := os.Create(final)
	if err != nil {
		return "", fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	return final, nil
}

// claim resolves dest to a collision-free path and reserves it for this run.
// Collisions against the disk and against paths already claimed this run get
// a -01, -02, ... stem suffix.
func (m *Mover) claim(dest string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir := filepath.Dir(dest)
	base := filepath.Base(dest)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	final := dest
	for counter := 1; m.taken(final); counter++ {
		final = filepath.Join(dir, fmt.Sprintf("%s-%02d%s", stem, counter, ext))
	}
	m.claimed[final] = true
	return final
}

func (m *Mover) taken(path string) bool {
	if m.claimed[path] {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}
