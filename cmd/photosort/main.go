package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"photosort/internal/cli"
	"photosort/internal/config"
	"photosort/internal/fingerprint"
	"photosort/internal/logging"
	"photosort/internal/vlm"
)

// CLI flags
var (
	directoryFlag string
	dryRunFlag    bool
	modelFlag     string
	thresholdFlag float64
	workersFlag   int
	algorithmFlag string
	forceVLMFlag  bool
)

// sessionStamp names the run's log artifacts.
var sessionStamp = time.Now().Format("20060102_150405")

var rootCmd = &cobra.Command{
	Use:   "photosort",
	Short: "Burst grouping and quality triage for photo shoot folders",
	Long: `PhotoSort organizes a folder of photos from a shoot.

The burst command finds runs of near-identical frames, picks the sharpest of
each, names the group with a local vision model, and stacks it into its own
folder. The cull command sorts single images into quality tiers from cheap
sharpness and exposure metrics. The assess command runs the full two-stage
cascade, asking the vision model only about images the cheap metrics could
not decide.

Examples:
  photosort burst -d /path/to/shoot
  photosort burst -d ./shoot --threshold 6 --dry-run
  photosort cull -d ./shoot
  photosort assess -d ./shoot --force-vlm
  photosort burst   # Interactive mode - prompts for directory`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&directoryFlag, "directory", "d", "", "Directory containing the shoot to process")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Preview every decision without touching any file")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 0, "Concurrent analysis workers (0 = config default)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Vision model name (overrides config)")

	rootCmd.AddCommand(burstCmd, cullCmd, assessCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads ~/.photosort.toml and folds the global flag overrides in.
func loadConfig() config.Config {
	path, err := config.DefaultPath()
	if err != nil {
		log.Warn().Err(err).Msg("Could not resolve config path, using defaults")
		return config.Default()
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration file is malformed")
	}

	if modelFlag != "" {
		cfg.VLM.Model = modelFlag
	}
	if workersFlag > 0 {
		cfg.Run.Workers = workersFlag
	}
	return cfg
}

// resolveDirectory picks the target directory from the flag or an interactive
// prompt, then validates it.
func resolveDirectory() string {
	dirPath := directoryFlag
	if dirPath == "" {
		dirPath = cli.PromptForDirectory()
	}
	return cli.ValidateAndResolveDirectory(dirPath)
}

// newVLMClient builds the vision-model client from config.
func newVLMClient(cfg config.Config) *vlm.Client {
	return vlm.NewClient(cfg.VLM.URL, cfg.VLM.Model, vlm.WithTimeouts(
		time.Duration(cfg.VLM.AnalyzeTimeoutSecs)*time.Second,
		time.Duration(cfg.VLM.NamingTimeoutSecs)*time.Second,
	))
}

// newProvider selects the fingerprint family from config.
func newProvider(cfg config.Config) fingerprint.Provider {
	switch cfg.Burst.Algorithm {
	case "embedding":
		log.Info().Msg("Using embedding fingerprints")
		return fingerprint.EmbeddingProvider{Embedder: fingerprint.LuminanceEmbedder{}}
	case "phash", "":
		return fingerprint.PerceptualProvider{}
	default:
		log.Fatal().Str("algorithm", cfg.Burst.Algorithm).Msg("Unknown burst algorithm (want phash or embedding)")
		return nil
	}
}
