// Package mapping persists discovered clips as a CSV table: the hand-off
// between discovery and the download/trim stages.
package mapping

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/fsutil"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
)

// Header is the column order written to the table.
var Header = []string{"player_name", "category", "temp_filename", "source_url"}

// legacy column names still accepted when reading
var aliases = map[string]string{
	"original_url": "source_url",
}

// Mode decides what happens to rows from earlier runs.
type Mode string

const (
	// Overwrite replaces the table with this run's clips.
	Overwrite Mode = "overwrite"
	// Append keeps earlier rows and adds new ones, deduplicated by temp filename.
	Append Mode = "append"
)

// ParseMode validates a config value.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Overwrite:
		return Overwrite, nil
	case Append, "":
		return Append, nil
	}
	return "", fmt.Errorf("unknown mapping mode %q", s)
}

// Store reads and writes one mapping table file.
type Store struct {
	path string
}

// New returns a Store backed by path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path is the table location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the table file is present.
func (s *Store) Exists() bool {
	return fsutil.Exists(s.path)
}

// Read loads every row. A missing file is a MissingResourceError.
func (s *Store) Read() ([]model.ClipRecord, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.MissingResourceError, "Mapping table not found", s.path, errors.ErrMappingMissing)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.MappingError, "Failed to open mapping table", errors.ErrMappingRead)
	}
	defer f.Close()
	return Decode(f)
}

// Baseline returns the rows a new run starts from: nothing for Overwrite,
// the current table (or nothing if absent) for Append.
func (s *Store) Baseline(mode Mode) ([]model.ClipRecord, error) {
	if mode == Overwrite || !s.Exists() {
		return nil, nil
	}
	return s.Read()
}

// Write replaces the file with records.
func (s *Store) Write(records []model.ClipRecord) error {
	err := fsutil.WriteFileAtomic(s.path, func(w io.Writer) error {
		return Encode(w, records)
	})
	if err != nil {
		return errors.Wrap(err, errors.MappingError, "Failed to write mapping table", errors.ErrMappingWrite)
	}
	return nil
}

// Encode writes the header and one row per record.
func Encode(w io.Writer, records []model.ClipRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.PlayerName, string(r.Category), r.TempFilename, r.SourceURL}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads a table written by Encode. Columns are located by header name.
func Decode(r io.Reader) ([]model.ClipRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.MappingError, "Failed to read mapping header", errors.ErrMappingHeader)
	}

	idx := make(map[string]int, len(head))
	for i, name := range head {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		idx[name] = i
	}
	for _, col := range Header {
		if _, ok := idx[col]; !ok {
			return nil, errors.New(errors.MappingError, "Mapping table is missing a column", col, errors.ErrMappingHeader)
		}
	}

	var records []model.ClipRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.MappingError, "Failed to read mapping row", errors.ErrMappingRead)
		}
		if len(row) < len(head) {
			return nil, errors.New(errors.MappingError, "Short mapping row", fmt.Sprintf("line %d", line), errors.ErrMappingRead)
		}
		records = append(records, model.ClipRecord{
			PlayerName:   row[idx["player_name"]],
			Category:     model.Category(row[idx["category"]]),
			TempFilename: row[idx["temp_filename"]],
			SourceURL:    row[idx["source_url"]],
		})
	}
	return records, nil
}

// Merge appends the rows of add whose temp filename is not already in base.
// Order is preserved: base first, then new rows in discovery order.
func Merge(base, add []model.ClipRecord) []model.ClipRecord {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]model.ClipRecord, 0, len(base)+len(add))
	for _, group := range [][]model.ClipRecord{base, add} {
		for _, r := range group {
			if _, dup := seen[r.TempFilename]; dup {
				continue
			}
			seen[r.TempFilename] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
