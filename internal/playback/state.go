package playback

import (
	"fmt"
	"time"
)

// Kind is what is currently audible.
type Kind string

const (
	KindIdle        Kind = "idle"
	KindRecitation  Kind = "recitation"
	KindTranslation Kind = "translation"
	KindReflection  Kind = "reflection"
)

// Mode is the reading context a session belongs to.
type Mode string

const (
	ModeReader     Mode = "reader"
	ModeGuidance   Mode = "guidance"
	ModeStandalone Mode = "standalone"
)

func ParseMode(value string) (Mode, bool) {
	switch Mode(value) {
	case ModeReader, ModeGuidance, ModeStandalone:
		return Mode(value), true
	case "":
		return ModeStandalone, true
	default:
		return "", false
	}
}

// Chains reports whether a finished recitation continues with its translation.
func (m Mode) Chains() bool {
	return m == ModeReader || m == ModeGuidance
}

// State is the single process-wide playback state. VerseID is the global
// verse number, zero when the speech is not tied to a verse.
type State struct {
	Kind      Kind   `json:"kind"`
	VerseID   int    `json:"verse_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Mode      Mode   `json:"mode,omitempty"`
}

var Idle = State{Kind: KindIdle}

func (s State) String() string {
	if s.Kind == KindIdle {
		return string(KindIdle)
	}
	return fmt.Sprintf("%s(%d)", s.Kind, s.VerseID)
}

// StateChange represents a state transition event.
type StateChange struct {
	From   State     `json:"from"`
	To     State     `json:"to"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// StateListener observes playback state changes. It is called from the
// orchestrator loop and must not block.
type StateListener interface {
	OnStateChange(event StateChange)
}

// ListenerFunc adapts a function to StateListener.
type ListenerFunc func(event StateChange)

func (f ListenerFunc) OnStateChange(event StateChange) { f(event) }

type RecitationRequest struct {
	SessionID   string `json:"session_id"`
	VerseID     int    `json:"verse_id"`
	Translation string `json:"translation"`
}

type SpeechRequest struct {
	SessionID string `json:"session_id"`
	VerseID   int    `json:"verse_id"`
	Text      string `json:"text"`
	Kind      Kind   `json:"kind"`
}
