package vlm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"photosort/internal/assets"
	"photosort/internal/filehandler"
	"photosort/internal/jsonutil"
)

// Analyze sends the image for the consolidated assessment: culling decision,
// naming suggestion, and critique in one call. The returned Result is tagged;
// a failed or garbled call is StatusMalformed / StatusTimeout /
// StatusUnreachable, never a panic or error.
func (c *Client) Analyze(ctx context.Context, f filehandler.ImageFile) Result {
	imageB64, ok := encodeImage(ctx, f)
	if !ok {
		return Result{Status: StatusMalformed}
	}

	content, status := c.chat(ctx, assets.AnalysisPrompt, imageB64, c.analyzeTimeout)
	if !status.OK() {
		return Result{Status: status}
	}

	analysis, ok := parseAnalysis(content)
	if !ok {
		log.Warn().Str("file", f.Base()).Msg("Vision model analysis payload failed validation")
		return Result{Status: StatusMalformed}
	}

	log.Debug().
		Str("file", f.Base()).
		Bool("is_keeper", analysis.Technical.IsKeeper).
		Bool("is_dud", analysis.Technical.IsDud).
		Str("suggested_filename", analysis.Naming.SuggestedFilename).
		Msg("Vision model analysis parsed")

	return Result{Status: StatusSuccess, Analysis: analysis}
}

// parseAnalysis validates the minimal required key set (technical, naming,
// critique) before trusting the payload. A reply missing any section is
// malformed even if it is valid JSON.
func parseAnalysis(content string) (*Analysis, bool) {
	sections, err := jsonutil.ParseJSON[map[string]json.RawMessage](content)
	if err != nil {
		return nil, false
	}
	for _, key := range []string{"technical", "naming", "critique"} {
		if _, present := sections[key]; !present {
			return nil, false
		}
	}

	analysis, err := jsonutil.ParseJSON[Analysis](content)
	if err != nil {
		return nil, false
	}
	return &analysis, true
}

// Name asks the model for a descriptive filename and tags for the image,
// used to label burst picks. Tagged result, same failure semantics as Analyze.
func (c *Client) Name(ctx context.Context, f filehandler.ImageFile) NameResult {
	imageB64, ok := encodeImage(ctx, f)
	if !ok {
		return NameResult{Status: StatusMalformed}
	}

	content, status := c.chat(ctx, assets.NamingPrompt, imageB64, c.namingTimeout)
	if !status.OK() {
		return NameResult{Status: status}
	}

	type namingPayload struct {
		Filename string   `json:"filename"`
		Tags     []string `json:"tags"`
	}
	payload, err := jsonutil.ParseJSON[namingPayload](content)
	if err != nil || payload.Filename == "" || payload.Tags == nil {
		log.Warn().Str("file", f.Base()).Msg("Vision model naming payload failed validation")
		return NameResult{Status: StatusMalformed}
	}

	// Models sometimes return a full filename with extension; keep the stem.
	stem := strings.TrimSuffix(payload.Filename, filepath.Ext(payload.Filename))
	clean := CleanFilename(stem)
	if clean == "" {
		return NameResult{Status: StatusMalformed}
	}

	return NameResult{Status: StatusSuccess, Filename: clean, Tags: payload.Tags}
}

var (
	disallowedChars = regexp.MustCompile(`[^\w\s-]`)
	separatorRuns   = regexp.MustCompile(`[-\s]+`)
)

// CleanFilename normalizes a model-suggested name into a safe lowercase
// hyphenated stem of at most 60 characters.
func CleanFilename(name string) string {
	clean := strings.Trim(name, `"'.,!?`)
	clean = disallowedChars.ReplaceAllString(clean, "")
	clean = separatorRuns.ReplaceAllString(clean, "-")
	clean = strings.ToLower(clean)
	if len(clean) > 60 {
		clean = clean[:60]
	}
	return strings.Trim(clean, "-")
}

// encodeImage loads the analyzable bytes (RAW previews included) and base64
// encodes them for the wire.
func encodeImage(ctx context.Context, f filehandler.ImageFile) (string, bool) {
	data, err := filehandler.ImageBytes(ctx, f)
	if err != nil {
		log.Warn().Err(err).Str("file", f.Base()).Msg("Failed to load image bytes for vision model")
		return "", false
	}
	return base64.StdEncoding.EncodeToString(data), true
}
