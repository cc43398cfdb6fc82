package model

import (
	"fmt"
	"strings"
)

// EventType is the EVENTMSGTYPE code of a play-by-play row.
type EventType int

const (
	FieldGoalMade   EventType = 1
	FieldGoalMissed EventType = 2
	FreeThrow       EventType = 3
	Rebound         EventType = 4
	Turnover        EventType = 5
	Foul            EventType = 6
	Violation       EventType = 7
	Substitution    EventType = 8
	Timeout         EventType = 9
	JumpBall        EventType = 10
	Ejection        EventType = 11
	PeriodBegin     EventType = 12
	PeriodEnd       EventType = 13
)

var eventTypeNames = map[EventType]string{
	FieldGoalMade:   "field_goal_made",
	FieldGoalMissed: "field_goal_missed",
	FreeThrow:       "free_throw",
	Rebound:         "rebound",
	Turnover:        "turnover",
	Foul:            "foul",
	Violation:       "violation",
	Substitution:    "substitution",
	Timeout:         "timeout",
	JumpBall:        "jump_ball",
	Ejection:        "ejection",
	PeriodBegin:     "period_begin",
	PeriodEnd:       "period_end",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("event_type(%d)", int(t))
}

// ParseEventType maps a config name such as "free_throw" to its code.
func ParseEventType(name string) (EventType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range eventTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", name)
}

// EventTypeSet is the allow-set applied before classification.
type EventTypeSet map[EventType]struct{}

// NewEventTypeSet builds a set from codes.
func NewEventTypeSet(types ...EventType) EventTypeSet {
	s := make(EventTypeSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// ParseEventTypeSet builds a set from config names.
func ParseEventTypeSet(names []string) (EventTypeSet, error) {
	s := make(EventTypeSet, len(names))
	for _, n := range names {
		t, err := ParseEventType(n)
		if err != nil {
			return nil, err
		}
		s[t] = struct{}{}
	}
	return s, nil
}

func (s EventTypeSet) Contains(t EventType) bool {
	_, ok := s[t]
	return ok
}
