package domain

// EventKind names a notification pushed to connected hosts.
type EventKind string

// EventLayoutChange asks hosts to re-render already processed content.
const EventLayoutChange EventKind = "layout-change"

// Event is broadcast to hosts after a state change that affects rendering.
type Event struct {
	Kind     EventKind     `json:"kind"`
	Reason   string        `json:"reason"`
	Settings DisplayConfig `json:"settings"`
	// Character is set when the change was a learned-set toggle.
	Character string `json:"character,omitempty"`
	Learned   *bool  `json:"learned,omitempty"`
}

// Event reasons.
const (
	ReasonSettingsChanged = "settings-changed"
	ReasonLearnedToggled  = "learned-toggled"
)
