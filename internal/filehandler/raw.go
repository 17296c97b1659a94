package filehandler

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
)

// rawConvertTimeout bounds a single dcraw invocation. Thumbnail extraction
// is fast; anything longer means a wedged process or a corrupt file.
const rawConvertTimeout = 5 * time.Second

// CheckDcraw reports whether the dcraw binary is available on PATH.
// RAW support degrades to skip-and-report when it is missing.
func CheckDcraw() bool {
	_, err := exec.LookPath("dcraw")
	return err == nil
}

// ConvertRawToJPEG extracts the embedded JPEG preview from a RAW file using
// `dcraw -e -c`. The preview is what every downstream analysis sees; the RAW
// pixels themselves are never decoded here.
func ConvertRawToJPEG(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, rawConvertTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "dcraw", "-e", "-c", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("dcraw timed out after %s", rawConvertTimeout)
		}
		return nil, fmt.Errorf("dcraw failed: %w (%s)", err, bytes.TrimSpace(stderr.Bytes()))
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("dcraw produced no output for %s", path)
	}

	log.Debug().
		Str("path", path).
		Int("bytes", stdout.Len()).
		Msg("RAW preview extracted")

	return stdout.Bytes(), nil
}
