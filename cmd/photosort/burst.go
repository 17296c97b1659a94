package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"photosort/internal/burst"
	"photosort/internal/cli"
	"photosort/internal/filehandler"
	"photosort/internal/organizer"
)

var burstCmd = &cobra.Command{
	Use:   "burst",
	Short: "Group near-identical frames and stack each burst into its own folder",
	Run:   runBurst,
}

func init() {
	burstCmd.Flags().Float64Var(&thresholdFlag, "threshold", -1, "Fingerprint distance threshold (-1 = config default)")
	burstCmd.Flags().StringVar(&algorithmFlag, "algorithm", "", "Fingerprint algorithm: phash or embedding (overrides config)")
}

func runBurst(cmd *cobra.Command, args []string) {
	start := time.Now()
	ctx := context.Background()

	dirPath := resolveDirectory()
	cfg := loadConfig()
	if algorithmFlag != "" {
		cfg.Burst.Algorithm = algorithmFlag
	}
	if thresholdFlag >= 0 {
		cfg.Burst.Threshold = thresholdFlag
	}

	if filehandler.CheckDcraw() {
		log.Info().Msg("dcraw found - RAW files will be analyzed via their embedded previews")
	} else {
		log.Warn().Msg("dcraw not found - RAW files will be skipped")
	}

	files, err := filehandler.ScanDirectory(dirPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to scan directory")
	}
	if len(files) < 2 {
		log.Info().Int("images", len(files)).Msg("Not enough images to group, nothing to do")
		return
	}

	provider := newProvider(cfg)

	result := burst.Detect(ctx, files, provider, cfg.Burst.Threshold, cfg.Run.Workers)
	if len(result.Groups) == 0 {
		fmt.Println("\nNo burst groups found. All images are unique!")
		return
	}

	burst.SelectPicks(ctx, result.Groups)

	// Naming degrades gracefully: an unreachable model means sequential
	// labels, not an aborted run.
	var namer burst.Namer
	client := newVLMClient(cfg)
	if err := client.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Vision model unreachable, bursts get sequential names")
	} else {
		namer = client
	}

	burstsParent := filepath.Join(dirPath, burst.BurstsDirName)
	labeler := &burst.Labeler{
		Namer: namer,
		FolderExists: func(name string) bool {
			_, err := os.Stat(filepath.Join(burstsParent, name))
			return err == nil
		},
	}
	labeler.AssignLabels(ctx, result.Groups)

	moves := burst.Plan(result.Groups, dirPath)

	var audit *organizer.AuditLog
	if !dryRunFlag {
		audit = organizer.NewAuditLog(dirPath, sessionStamp)
	}
	mover := organizer.NewMover(dryRunFlag, audit)

	var moved, failed int
	for _, group := range result.Groups {
		if err := mover.EnsureDir(filepath.Join(burstsParent, group.Folder)); err != nil {
			log.Error().Err(err).Str("folder", group.Folder).Msg("Could not create burst folder")
			failed += len(group.Members)
			continue
		}
	}
	for _, move := range moves {
		if _, err := mover.Move(move.Source, move.Dest); err != nil {
			log.Error().Err(err).Str("file", filepath.Base(move.Source)).Msg("Move failed")
			failed++
			continue
		}
		moved++
	}

	fmt.Printf("\nStacked %d burst groups (%d files", len(result.Groups), moved)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Printf(") in %s\n", cli.FormatDurationShort(time.Since(start)))
	if dryRunFlag {
		fmt.Println("Dry run: no files were moved.")
	} else if audit != nil {
		fmt.Printf("Rename log: %s\n", filepath.Base(audit.Path()))
	}
}
