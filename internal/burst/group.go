// Package burst finds runs of near-identical shots in a directory, elects the
// sharpest frame of each run as the pick, labels the run, and plans the moves
// that stack it into its own folder.
//
// Planning and mutation are split: everything here is pure computation over
// paths and fingerprints; the organizer package commits the plan to disk.
package burst

import (
	"photosort/internal/filehandler"
)

// BurstsDirName is the parent directory all burst folders are stacked under.
const BurstsDirName = "_Bursts"

// Group is one detected burst: two or more visually adjacent frames in
// filename order. Members keeps the detection order (sorted by base name,
// seed first).
type Group struct {
	Members []filehandler.ImageFile

	// Pick is the path of the sharpest member, set by SelectPicks. Empty when
	// no member could be decoded; the group is then stacked without a pick.
	Pick          string
	PickSharpness float64

	// Label and Folder are set by a Labeler. Label stems the member
	// filenames; Folder is the directory name, collision-suffixed.
	Label   string
	Folder  string
	AINamed bool
}

// Failure records an image that could not be fingerprinted. Such images never
// join a group; they fall through to the singles path.
type Failure struct {
	File filehandler.ImageFile
	Err  error
}

// DetectResult is the outcome of burst detection over a file set.
type DetectResult struct {
	Groups  []*Group
	Singles []filehandler.ImageFile
	Failed  []Failure
}
