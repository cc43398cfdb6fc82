// Package ledger persists the ids of games that discovery already scanned.
//
// The file holds one game id per line, sorted. Saving always writes the union
// of what is on disk and what the caller passes, so an id is never removed.
// There is no locking: only one process may use a ledger file at a time.
package ledger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/errors"
	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/fsutil"
)

// Set is a set of game ids.
type Set map[string]struct{}

// NewSet builds a Set from ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id, ignoring blanks.
func (s Set) Add(id string) {
	id = strings.TrimSpace(id)
	if id != "" {
		s[id] = struct{}{}
	}
}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Union returns a new set with the members of s and every other set.
func (s Set) Union(others ...Set) Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	for _, o := range others {
		for id := range o {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store reads and writes a ledger file.
type Store struct {
	path string
}

// New returns a Store backed by path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path is the ledger file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger. A missing file is an empty ledger, not an error.
func (s *Store) Load() (Set, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return Set{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.LedgerError, "Failed to open ledger", errors.ErrLedgerRead)
	}
	defer f.Close()

	ids := Set{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ids.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.LedgerError, "Failed to read ledger", errors.ErrLedgerRead)
	}
	return ids, nil
}

// Save writes the sorted union of the current file, existing and newIDs.
func (s *Store) Save(existing, newIDs Set) error {
	onDisk, err := s.Load()
	if err != nil {
		return err
	}
	all := onDisk.Union(existing, newIDs)

	err = fsutil.WriteFileAtomic(s.path, func(w io.Writer) error {
		for _, id := range all.Sorted() {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.LedgerError, "Failed to write ledger", errors.ErrLedgerWrite)
	}
	return nil
}
