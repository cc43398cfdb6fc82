// Package season handles "YYYY-YY" season labels such as "2018-19".
package season

import (
	"fmt"
	"strconv"
	"strings"
)

// Season is a league season identified by the year it starts in.
type Season struct {
	StartYear int
}

// Parse reads a label like "2018-19". The suffix must be the two low digits
// of the following year.
func Parse(label string) (Season, error) {
	head, tail, ok := strings.Cut(strings.TrimSpace(label), "-")
	if !ok || len(head) != 4 || len(tail) != 2 {
		return Season{}, fmt.Errorf("season %q: want YYYY-YY", label)
	}
	year, err := strconv.Atoi(head)
	if err != nil {
		return Season{}, fmt.Errorf("season %q: %w", label, err)
	}
	suffix, err := strconv.Atoi(tail)
	if err != nil {
		return Season{}, fmt.Errorf("season %q: %w", label, err)
	}
	if suffix != (year+1)%100 {
		return Season{}, fmt.Errorf("season %q: suffix must be %02d", label, (year+1)%100)
	}
	return Season{StartYear: year}, nil
}

// String renders the label, e.g. "2019-20".
func (s Season) String() string {
	return fmt.Sprintf("%d-%02d", s.StartYear, (s.StartYear+1)%100)
}

// Next moves both years forward by one.
func (s Season) Next() Season {
	return Season{StartYear: s.StartYear + 1}
}

// After reports whether s starts later than other.
func (s Season) After(other Season) bool {
	return s.StartYear > other.StartYear
}

// Range returns the labels from start to end inclusive.
func Range(start, end string) ([]string, error) {
	from, err := Parse(start)
	if err != nil {
		return nil, err
	}
	to, err := Parse(end)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, fmt.Errorf("season range %s..%s: start is after end", start, end)
	}

	labels := make([]string, 0, to.StartYear-from.StartYear+1)
	for s := from; !s.After(to); s = s.Next() {
		labels = append(labels, s.String())
	}
	return labels, nil
}
