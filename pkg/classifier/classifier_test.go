package classifier

import (
	"testing"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(t model.EventType, desc string) model.PlayEvent {
	return model.PlayEvent{GameID: "G", EventID: 1, PlayerID: 7, Type: t, Description: desc, HasDescription: true}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		policy UnmatchedPolicy
		ev     model.PlayEvent
		want   model.Category
		ok     bool
	}{
		{"no description", TwoPoints, model.PlayEvent{Type: model.FreeThrow}, model.CategoryNone, false},
		{"free throw", Discard, event(model.FreeThrow, "Curry Free Throw 1 of 2 (1 PTS)"), model.CategoryFreeThrow, true},
		{"three", Discard, event(model.FieldGoalMade, "Curry 26' 3PT Jump Shot (3 PTS)"), model.CategoryThree, true},
		{"two discarded", Discard, event(model.FieldGoalMade, "Curry 2' Layup (2 PTS)"), model.CategoryNone, false},
		{"two kept", TwoPoints, event(model.FieldGoalMade, "Curry 2' Layup (2 PTS)"), model.CategoryTwo, true},
		{"empty description still classified", TwoPoints, event(model.FieldGoalMade, ""), model.CategoryTwo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := New(tt.policy).Classify(tt.ev)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFreeThrowWinsOverDescription(t *testing.T) {
	c := New(TwoPoints)
	for _, desc := range []string{"3PT", "MISS 3PT Free Throw", "Technical", "x"} {
		got, ok := c.Classify(event(model.FreeThrow, desc))
		require.True(t, ok)
		assert.Equal(t, model.CategoryFreeThrow, got, desc)
	}
}

func TestClassifyIsPure(t *testing.T) {
	c := New(Discard)
	ev := event(model.FieldGoalMade, "Curry 30' 3PT Pullup Jump Shot")
	first, firstOK := c.Classify(ev)
	for i := 0; i < 10; i++ {
		got, ok := c.Classify(ev)
		assert.Equal(t, first, got)
		assert.Equal(t, firstOK, ok)
	}
}

func TestParseUnmatchedPolicy(t *testing.T) {
	p, err := ParseUnmatchedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, Discard, p)

	p, err = ParseUnmatchedPolicy("two_points")
	require.NoError(t, err)
	assert.Equal(t, TwoPoints, p)

	_, err = ParseUnmatchedPolicy("maybe")
	assert.Error(t, err)
}

func TestReachable(t *testing.T) {
	both := model.NewEventTypeSet(model.FieldGoalMade, model.FreeThrow)
	ftOnly := model.NewEventTypeSet(model.FreeThrow)
	fgOnly := model.NewEventTypeSet(model.FieldGoalMade)

	tests := []struct {
		name    string
		policy  UnmatchedPolicy
		cat     model.Category
		allowed model.EventTypeSet
		want    bool
	}{
		{"free throw allowed", Discard, model.CategoryFreeThrow, both, true},
		{"free throw excluded", Discard, model.CategoryFreeThrow, fgOnly, false},
		{"three from field goals", Discard, model.CategoryThree, fgOnly, true},
		{"three without field goals", TwoPoints, model.CategoryThree, ftOnly, false},
		{"two discarded", Discard, model.CategoryTwo, both, false},
		{"two kept", TwoPoints, model.CategoryTwo, both, true},
		{"two without field goals", TwoPoints, model.CategoryTwo, ftOnly, false},
		{"none", TwoPoints, model.CategoryNone, both, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.policy).Reachable(tt.cat, tt.allowed))
		})
	}
}
