package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "processed_games.log"))
	ids, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLoadIgnoresBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_games.log")
	require.NoError(t, os.WriteFile(path, []byte("0021800002\n\n  0021800001  \n"), 0644))

	ids, err := New(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"0021800001", "0021800002"}, ids.Sorted())
}

func TestSaveThenLoadIsUnion(t *testing.T) {
	tests := []struct {
		name     string
		prior    []string
		newIDs   []string
		expected []string
	}{
		{"empty", nil, nil, []string{}},
		{"only new", nil, []string{"b", "a"}, []string{"a", "b"}},
		{"only prior", []string{"c"}, nil, []string{"c"}},
		{"overlap", []string{"a", "c"}, []string{"c", "b"}, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(filepath.Join(t.TempDir(), "ledger.log"))
			require.NoError(t, s.Save(NewSet(tt.prior...), NewSet(tt.newIDs...)))

			got, err := s.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Sorted())

			data, err := os.ReadFile(s.Path())
			require.NoError(t, err)
			want := ""
			for _, id := range tt.expected {
				want += id + "\n"
			}
			assert.Equal(t, want, string(data), "file should be sorted, one id per line")
		})
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "ledger.log"))
	prior, fresh := NewSet("g1", "g3"), NewSet("g2")

	require.NoError(t, s.Save(prior, fresh))
	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	require.NoError(t, s.Save(prior, fresh))
	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestSaveNeverShrinks(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "ledger.log"))
	require.NoError(t, s.Save(nil, NewSet("g1", "g2")))

	// A caller with a stale view must not drop ids already on disk.
	require.NoError(t, s.Save(NewSet("g3"), nil))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2", "g3"}, got.Sorted())
}
