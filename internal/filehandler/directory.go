package filehandler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// ScanDirectory scans a flat directory for supported image files.
// Subdirectories are not descended into: the pipeline operates on a single
// folder of photos from a shoot, and its own output folders (_Bursts,
// _Tier_A, ...) live alongside the sources. Entries whose names start with
// "_" or "." are skipped so a re-run never ingests previous output or logs.
// Files are sorted alphabetically by name, which approximates capture order
// for sequential camera filenames.
func ScanDirectory(dirPath string) ([]ImageFile, error) {
	log.Info().Str("path", dirPath).Msg("Scanning directory for images")

	info, err := os.Stat(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s", dirPath)
		}
		return nil, fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []ImageFile
	var skipped int

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}

		ext := strings.ToLower(filepath.Ext(name))
		if !IsSupported(ext) {
			skipped++
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Failed to stat file, skipping")
			continue
		}

		files = append(files, ImageFile{
			Path: filepath.Join(dirPath, name),
			Ext:  ext,
			Size: fi.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Base() < files[j].Base()
	})

	log.Info().
		Str("path", dirPath).
		Int("images", len(files)).
		Int("skipped_unsupported", skipped).
		Msg("Directory scan complete")

	return files, nil
}
