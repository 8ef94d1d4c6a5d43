package entity

import (
	"time"

	"github.com/google/uuid"
)

// SceneContext is the session's current narrative frame: where and when the
// scene is happening, who is on stage and what the mood is. It is read during
// context assembly and rewritten only after an exchange completes.
type SceneContext struct {
	SessionId uuid.UUID

	Location          string
	Time              string
	PresentCharacters []uuid.UUID
	Mood              string
	MoodIntensity     float64
	RecentEvents      []string

	UpdatedAt time.Time
}

const maxRecentEvents = 10

// AppendEvents adds scene events, keeping the list bounded to the newest
func (s *SceneContext) AppendEvents(events []string) {
	for _, e := range events {
		if e == "" {
			continue
		}
		s.RecentEvents = append(s.RecentEvents, e)
	}
	if len(s.RecentEvents) > maxRecentEvents {
		s.RecentEvents = s.RecentEvents[len(s.RecentEvents)-maxRecentEvents:]
	}
}
