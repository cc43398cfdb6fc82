package trimmer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
)

// Cut is one line of the hand-written cut list: which part of a raw clip to keep.
type Cut struct {
	TempFilename string
	Start        time.Duration
	End          time.Duration
	// Line is the 1-based line in the cut list.
	Line int
}

// Duration is End - Start.
func (c Cut) Duration() time.Duration {
	return c.End - c.Start
}

// ParseTimestamp reads "HH:MM:SS" with an optional fraction of up to nine digits.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("timestamp %q is not HH:MM:SS.ffffff", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("bad hours in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minutes in %q", s)
	}

	secPart, fracPart, hasFrac := strings.Cut(parts[2], ".")
	sec, err := strconv.Atoi(secPart)
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("bad seconds in %q", s)
	}

	var nanos int
	if hasFrac {
		if fracPart == "" || len(fracPart) > 9 {
			return 0, fmt.Errorf("bad fraction in %q", s)
		}
		nanos, err = strconv.Atoi(fracPart + strings.Repeat("0", 9-len(fracPart)))
		if err != nil {
			return 0, fmt.Errorf("bad fraction in %q", s)
		}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(nanos), nil
}

// ReadCutList loads a header-less "temp_filename,start,end" file.
// A malformed line fails the whole list so no clip is cut from a typo.
func ReadCutList(path string) ([]Cut, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.MissingResourceError, "Cut list not found", path, errors.ErrCutListMissing)
		}
		return nil, errors.Wrap(err, errors.SystemError, "Failed to open cut list", errors.ErrReadFile)
	}
	defer f.Close()
	return DecodeCutList(f)
}

// DecodeCutList parses cut list rows from r.
func DecodeCutList(r io.Reader) ([]Cut, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var cuts []Cut
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ValidationError, "Failed to read cut list", errors.ErrInvalidCutList)
		}
		line, _ := cr.FieldPos(0)
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 3 {
			return nil, errors.New(errors.ValidationError, "Cut list line needs three fields",
				fmt.Sprintf("line %d", line), errors.ErrInvalidCutList)
		}

		start, err := ParseTimestamp(row[1])
		if err != nil {
			return nil, errors.New(errors.ValidationError, "Invalid cut start", fmt.Sprintf("line %d: %v", line, err), errors.ErrBadCutTimes)
		}
		end, err := ParseTimestamp(row[2])
		if err != nil {
			return nil, errors.New(errors.ValidationError, "Invalid cut end", fmt.Sprintf("line %d: %v", line, err), errors.ErrBadCutTimes)
		}
		cuts = append(cuts, Cut{TempFilename: strings.TrimSpace(row[0]), Start: start, End: end, Line: line})
	}
	return cuts, nil
}
