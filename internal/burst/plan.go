package burst

import (
	"fmt"
	"path/filepath"
)

// PlannedMove pairs a source file with its destination inside a burst folder.
type PlannedMove struct {
	Source string
	Dest   string
}

// Plan lays out the destination path of every member of every labeled group
// under parentDir/_Bursts/<folder>/. The pick becomes <label>_PICK.<ext>;
// alternates are numbered <label>_001.<ext> onward in member order. Pure:
// nothing here touches the filesystem, so a dry run and a real run plan the
// exact same paths.
func Plan(groups []*Group, parentDir string) []PlannedMove {
	var moves []PlannedMove

	for _, group := range groups {
		folder := filepath.Join(parentDir, BurstsDirName, group.Folder)

		alternate := 1
		for _, member := range group.Members {
			var name string
			if group.Pick != "" && member.Path == group.Pick {
				name = fmt.Sprintf("%s_PICK%s", group.Label, member.Ext)
			} else {
				name = fmt.Sprintf("%s_%03d%s", group.Label, alternate, member.Ext)
				alternate++
			}
			moves = append(moves, PlannedMove{
				Source: member.Path,
				Dest:   filepath.Join(folder, name),
			})
		}
	}

	return moves
}
