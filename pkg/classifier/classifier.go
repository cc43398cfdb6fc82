// Package classifier assigns a clip category to a play-by-play event.
package classifier

import (
	"fmt"
	"strings"

	"github.com/Cauliflower2028/NBA-Clip-Finder/pkg/model"
)

// ThreePointMarker is the substring the stats service puts in three-point attempt descriptions.
const ThreePointMarker = "3PT"

// UnmatchedPolicy decides what happens to a made field goal that is not a three.
type UnmatchedPolicy string

const (
	// Discard drops the event.
	Discard UnmatchedPolicy = "discard"
	// TwoPoints files the event as "2points shooting".
	TwoPoints UnmatchedPolicy = "two_points"
)

// ParseUnmatchedPolicy validates a config value. Empty means Discard.
func ParseUnmatchedPolicy(s string) (UnmatchedPolicy, error) {
	switch UnmatchedPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case Discard, "":
		return Discard, nil
	case TwoPoints:
		return TwoPoints, nil
	}
	return "", fmt.Errorf("unknown unmatched field goal policy %q", s)
}

// Classifier is a pure function of its policy and the event.
type Classifier struct {
	Unmatched UnmatchedPolicy
}

// New returns a Classifier using policy.
func New(policy UnmatchedPolicy) Classifier {
	return Classifier{Unmatched: policy}
}

// Classify returns the category of ev, or false when it has none.
func (c Classifier) Classify(ev model.PlayEvent) (model.Category, bool) {
	if !ev.HasDescription {
		return model.CategoryNone, false
	}
	if ev.Type == model.FreeThrow {
		return model.CategoryFreeThrow, true
	}
	if strings.Contains(ev.Description, ThreePointMarker) {
		return model.CategoryThree, true
	}
	if c.Unmatched == TwoPoints {
		return model.CategoryTwo, true
	}
	return model.CategoryNone, false
}

// Reachable reports whether Classify can return cat for some event whose type
// is in allowed.
func (c Classifier) Reachable(cat model.Category, allowed model.EventTypeSet) bool {
	fieldGoals := false
	for t := range allowed {
		if t != model.FreeThrow {
			fieldGoals = true
			break
		}
	}
	switch cat {
	case model.CategoryFreeThrow:
		return allowed.Contains(model.FreeThrow)
	case model.CategoryThree:
		return fieldGoals
	case model.CategoryTwo:
		return fieldGoals && c.Unmatched == TwoPoints
	}
	return false
}
