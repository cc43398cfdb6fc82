package season

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange(t *testing.T) {
	got, err := Range("2018-19", "2020-21")
	require.NoError(t, err)
	assert.Equal(t, []string{"2018-19", "2019-20", "2020-21"}, got)
}

func TestRangeSingleSeason(t *testing.T) {
	got, err := Range("2022-23", "2022-23")
	require.NoError(t, err)
	assert.Equal(t, []string{"2022-23"}, got)
}

func TestRangeCrossesCentury(t *testing.T) {
	got, err := Range("1998-99", "2000-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"1998-99", "1999-00", "2000-01"}, got)
}

func TestRangeRejectsReversed(t *testing.T) {
	_, err := Range("2021-22", "2018-19")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		label   string
		wantErr bool
	}{
		{"2018-19", false},
		{"1999-00", false},
		{"2018-20", true},
		{"2018", true},
		{"18-19", true},
		{"abcd-ef", true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			s, err := Parse(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.label, s.String())
		})
	}
}

func TestNext(t *testing.T) {
	s, err := Parse("2018-19")
	require.NoError(t, err)
	assert.Equal(t, "2019-20", s.Next().String())
}
