/*
DESCRIPTION
  job.go provides the per-video job state machine and the results of a bulk
  upload run.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean)

  This is free software: you can redistribute it and/or modify it
  under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.

  It is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see http://www.gnu.org/licenses/.
*/

package bulk

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// State is the processing state of a Job.
type State int

// Job states, in the order a job passes through them. Uploaded, Failed,
// SkippedDuplicate and SkippedByUser are final.
const (
	StatePending State = iota
	StateTitleDetermined
	StateDescriptionDetermined
	StateThumbnailDetermined
	StateDuplicateChecked
	StateConfirmed
	StateUploaded
	StateFailed
	StateSkippedDuplicate
	StateSkippedByUser
)

var stateNames = [...]string{
	StatePending:               "pending",
	StateTitleDetermined:       "title determined",
	StateDescriptionDetermined: "description determined",
	StateThumbnailDetermined:   "thumbnail determined",
	StateDuplicateChecked:      "duplicate checked",
	StateConfirmed:             "confirmed",
	StateUploaded:              "uploaded",
	StateFailed:                "failed",
	StateSkippedDuplicate:      "skipped duplicate",
	StateSkippedByUser:         "skipped by user",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Final reports whether no further transitions follow s.
func (s State) Final() bool { return s >= StateUploaded }

// Job is a single video file being processed. Its fields are filled in as
// it moves through its states.
type Job struct {
	SourcePath    string
	Title         string
	Description   string
	ThumbnailPath string // Empty for none.
	Privacy       string
	State         State
}

// Result describes a successfully uploaded video.
type Result struct {
	InputFilename string
	Title         string
	ID            string
	URL           string
}

// RunStats counts the outcomes of a run.
type RunStats struct {
	Candidates       int
	Uploaded         int
	SkippedDuplicate int
	SkippedByUser    int
	Failed           int
}

func (s RunStats) String() string {
	return fmt.Sprintf("%d uploaded of %d candidates (%d duplicates, %d declined, %d failed)",
		s.Uploaded, s.Candidates, s.SkippedDuplicate, s.SkippedByUser, s.Failed)
}

// FindInputFiles returns the paths of the regular files in dir whose
// extensions are in exts, compared without regard to case, in name order.
// It returns ErrNoInputFiles if there are none.
func FindInputFiles(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, want := range exts {
			if strings.EqualFold(ext, want) {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	if len(files) == 0 {
		return nil, ErrNoInputFiles
	}
	sort.Strings(files)
	return files, nil
}
