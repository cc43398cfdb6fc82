package stats

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
)

// resultSetsResponse is the envelope shared by the tabular endpoints.
type resultSetsResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// table gives by-name access to a resultSet's rows.
type table struct {
	cols map[string]int
	rows [][]any
}

// pick returns the set called name, or the first set when none matches.
func (r resultSetsResponse) pick(name string) (table, bool) {
	if len(r.ResultSets) == 0 {
		return table{}, false
	}
	chosen := r.ResultSets[0]
	for _, rs := range r.ResultSets {
		if strings.EqualFold(rs.Name, name) {
			chosen = rs
			break
		}
	}
	cols := make(map[string]int, len(chosen.Headers))
	for i, h := range chosen.Headers {
		cols[strings.ToUpper(h)] = i
	}
	return table{cols: cols, rows: chosen.RowSet}, true
}

func (t table) require(names ...string) error {
	for _, n := range names {
		if _, ok := t.cols[n]; !ok {
			return errors.New(errors.StatsAPIError, "Stats response is missing a column", n, errors.ErrStatsMissingColumn)
		}
	}
	return nil
}

func (t table) value(row []any, col string) any {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// str returns a cell as text; null cells report false.
func (t table) str(row []any, col string) (string, bool) {
	switch v := t.value(row, col).(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// integer returns a numeric (or numeric string) cell.
func (t table) integer(row []any, col string) (int, bool) {
	switch v := t.value(row, col).(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(n), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}
