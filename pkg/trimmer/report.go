package trimmer

import (
	"encoding/csv"
	"io"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/fsutil"
)

// ReportRow is one trimmed clip in the final report.
type ReportRow struct {
	PlayerName        string
	VideoURL          string
	ClipName          string
	ResponsiblePerson string
	PlayerFolder      string
}

var reportHeader = []string{"Player Name", "Video URL", "Clip Name", "Responsible Person"}

// WriteReport replaces path with a CSV of rows. The "Player Folder" column is
// only present when clips are grouped per player.
func WriteReport(path string, rows []ReportRow, withFolder bool) error {
	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		return EncodeReport(w, rows, withFolder)
	})
	if err != nil {
		return errors.Wrap(err, errors.SystemError, "Failed to write report", errors.ErrWriteFile)
	}
	return nil
}

// EncodeReport writes the header and rows to w.
func EncodeReport(w io.Writer, rows []ReportRow, withFolder bool) error {
	cw := csv.NewWriter(w)
	header := reportHeader
	if withFolder {
		header = append(append([]string{}, reportHeader...), "Player Folder")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.PlayerName, r.VideoURL, r.ClipName, r.ResponsiblePerson}
		if withFolder {
			rec = append(rec, r.PlayerFolder)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
