package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// AuditLog is the append-only rename trail: one line per committed move so a
// card backup can be reconciled with the renamed shoot. Best-effort by
// contract: a write failure warns and is forgotten, it never fails or rolls
// back the move it describes.
type AuditLog struct {
	path string
	mu   sync.Mutex
}

// NewAuditLog creates the log file with its header. The filename carries the
// session timestamp: _rename_log_<stamp>.txt in dir.
func NewAuditLog(dir, sessionStamp string) *AuditLog {
	a := &AuditLog{path: filepath.Join(dir, fmt.Sprintf("_rename_log_%s.txt", sessionStamp))}

	header := fmt.Sprintf("# PhotoSort rename log - %s\n", sessionStamp) +
		"# Format: timestamp | original_name -> new_name | destination\n" +
		strings.Repeat("=", 80) + "\n"
	if err := os.WriteFile(a.path, []byte(header), 0o644); err != nil {
		log.Warn().Err(err).Str("path", a.path).Msg("Could not initialize rename log")
	}
	return a
}

// Path returns the log file location.
func (a *AuditLog) Path() string {
	return a.path
}

// Record appends one rename line.
func (a *AuditLog) Record(originalName, newName, destination string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	line := fmt.Sprintf("%s | %s -> %s | %s\n",
		time.Now().Format("2006-01-02 15:04:05"), originalName, newName, destination)

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn().Err(err).Str("path", a.path).Msg("Could not append to rename log")
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		log.Warn().Err(err).Str("path", a.path).Msg("Could not append to rename log")
	}
}
