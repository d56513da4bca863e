package player

import (
	"strings"

	"musicify/pkg/models"
)

// Status is the playback state of the controller.
type Status int

const (
	// Idle means no source is bound.
	Idle Status = iota
	// Paused means a source is bound and not advancing.
	Paused
	// Playing means a source is bound and advancing.
	Playing
)

func (s Status) String() string {
	switch s {
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "idle"
	}
}

// Progress is the position readout recomputed on every clock tick.
type Progress struct {
	Percent  float64 `json:"percent"` // 0-100
	Elapsed  string  `json:"elapsed"`
	Duration string  `json:"duration"`
}

// Entry is a visible track plus its position in the active list, so a
// filtered view can still load the right index.
type Entry struct {
	Index int
	Track models.TrackRef
}

// State is the controller-owned player state. Snapshots share the Tracks
// slice, which is only ever replaced, never mutated in place.
type State struct {
	Tracks   []models.TrackRef `json:"tracks"`
	Query    string            `json:"query"`
	Index    int               `json:"index"`
	Current  *models.TrackRef  `json:"current,omitempty"`
	Status   Status            `json:"status"`
	Volume   float64           `json:"volume"` // 0.0 to 1.0
	Muted    bool              `json:"muted"`
	Progress Progress          `json:"progress"`
}

// Visible returns the entries matching the current query, in list order.
func (s State) Visible() []Entry {
	entries := make([]Entry, 0, len(s.Tracks))
	for i, t := range s.Tracks {
		if matches(t.Name, s.Query) {
			entries = append(entries, Entry{Index: i, Track: t})
		}
	}
	return entries
}

// IsCurrent reports whether name belongs to the now-playing reference.
// Matching is case-insensitive, the same rule used for highlighting.
func (s State) IsCurrent(name string) bool {
	return s.Current != nil && strings.EqualFold(s.Current.Name, name)
}

// EventKind identifies what changed.
type EventKind int

const (
	EventNowPlaying EventKind = iota
	EventStatus
	EventProgress
	EventVolume
	EventTracks
)

func (k EventKind) String() string {
	switch k {
	case EventNowPlaying:
		return "now_playing"
	case EventStatus:
		return "status"
	case EventProgress:
		return "progress"
	case EventVolume:
		return "volume"
	case EventTracks:
		return "tracks"
	default:
		return "unknown"
	}
}

// Event is published to subscribers after every state transition.
type Event struct {
	Kind  EventKind
	State State
}
