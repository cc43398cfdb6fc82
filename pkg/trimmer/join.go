package trimmer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
)

// Job is one clip to trim: a mapping record joined with a cut.
type Job struct {
	Record model.ClipRecord
	Cut    Cut
	// Number counts clips of the same player and category, from 1.
	Number int
}

// ClipName is "<Player_Name>_<category>_<n>.mp4".
func (j Job) ClipName() string {
	return fmt.Sprintf("%s_%s_%d.mp4", PlayerFolder(j.Record.PlayerName), j.Record.Category.Slug(), j.Number)
}

// OutputPath places the clip under finalDir, inside a per-player folder when asked.
func (j Job) OutputPath(finalDir string, perPlayer bool) string {
	if perPlayer {
		return filepath.Join(finalDir, PlayerFolder(j.Record.PlayerName), j.ClipName())
	}
	return filepath.Join(finalDir, j.ClipName())
}

// PlayerFolder turns a display name into a path-safe token.
func PlayerFolder(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// Join pairs records and cuts on temp filename, keeping mapping order; a
// record with several cuts yields several jobs in cut list order. Numbers are
// assigned here so a clip keeps its name when another clip is later skipped.
func Join(records []model.ClipRecord, cuts []Cut) (jobs []Job, unmatchedRecords []model.ClipRecord, unmatchedCuts []Cut) {
	byFile := make(map[string][]Cut, len(cuts))
	for _, c := range cuts {
		byFile[c.TempFilename] = append(byFile[c.TempFilename], c)
	}

	used := make(map[string]bool, len(cuts))
	counters := make(map[string]int)
	for _, r := range records {
		matched := byFile[r.TempFilename]
		if len(matched) == 0 {
			unmatchedRecords = append(unmatchedRecords, r)
			continue
		}
		used[r.TempFilename] = true
		for _, c := range matched {
			key := r.PlayerName + "\x00" + string(r.Category)
			counters[key]++
			jobs = append(jobs, Job{Record: r, Cut: c, Number: counters[key]})
		}
	}

	for _, c := range cuts {
		if !used[c.TempFilename] {
			unmatchedCuts = append(unmatchedCuts, c)
		}
	}
	return jobs, unmatchedRecords, unmatchedCuts
}
