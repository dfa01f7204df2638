// Package console defines the single VJ event set every control surface
// produces into. Desktop buttons, the VR console and the MIDI deck are
// producers only; the club conductor is the one consumer. Routing all
// surfaces through one channel removes any chance of two UIs holding
// divergent copies of the show state.
package console

import (
	"encoding/json"
	"fmt"

	"github.com/my-pwa-apps/vrclub/internal/director"
)

// Kind enumerates the VJ controls.
type Kind int

const (
	KindToggleGroup Kind = iota
	KindSelectPhase
	KindNextLaserColor
	KindCycleSpotMode
	KindCycleMovePattern
	KindCycleWallPattern
	KindCycleBallColor
	KindToggleStrobe
)

var kindNames = map[Kind]string{
	KindToggleGroup:      "toggle_group",
	KindSelectPhase:      "select_phase",
	KindNextLaserColor:   "next_laser_color",
	KindCycleSpotMode:    "cycle_spot_mode",
	KindCycleMovePattern: "cycle_move_pattern",
	KindCycleWallPattern: "cycle_wall_pattern",
	KindCycleBallColor:   "cycle_ball_color",
	KindToggleStrobe:     "toggle_strobe",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps the wire name back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

var groupNames = map[string]director.GroupMask{
	"spotlights":  director.GroupSpotlights,
	"lasers":      director.GroupLasers,
	"mirror_ball": director.GroupMirrorBall,
	"led_wall":    director.GroupLEDWall,
	"strobes":     director.GroupStrobes,
}

// ParseGroup maps a wire group name to its mask.
func ParseGroup(s string) (director.GroupMask, error) {
	if g, ok := groupNames[s]; ok {
		return g, nil
	}
	return 0, fmt.Errorf("unknown fixture group %q", s)
}

// Event is one discrete VJ input.
type Event struct {
	Kind  Kind
	Group director.GroupMask // for KindToggleGroup
	On    bool               // for toggles
	Phase director.Phase     // for KindSelectPhase
}

// wireEvent is the JSON shape both web surfaces send.
type wireEvent struct {
	Kind  string `json:"kind"`
	Group string `json:"group,omitempty"`
	On    bool   `json:"on,omitempty"`
	Phase string `json:"phase,omitempty"`
}

// UnmarshalJSON decodes the shared control schema.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	k, err := ParseKind(w.Kind)
	if err != nil {
		return err
	}
	e.Kind = k
	e.On = w.On
	if k == KindToggleGroup {
		g, err := ParseGroup(w.Group)
		if err != nil {
			return err
		}
		e.Group = g
	}
	if k == KindSelectPhase {
		p, err := parsePhase(w.Phase)
		if err != nil {
			return err
		}
		e.Phase = p
	}
	return nil
}

func parsePhase(s string) (director.Phase, error) {
	for p := director.PhaseBuild; p <= director.PhaseDrop; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// Bus carries events from any number of producers to the conductor,
// which drains it once per frame. Publishing never blocks the producer;
// if a frame's worth of input overflows the buffer the oldest events win
// and the rest are dropped.
type Bus struct {
	ch chan Event
}

func NewBus() *Bus {
	return &Bus{ch: make(chan Event, 64)}
}

// Publish queues an event, dropping it if the bus is full.
func (b *Bus) Publish(e Event) bool {
	select {
	case b.ch <- e:
		return true
	default:
		return false
	}
}

// Poll removes one pending event, or reports none.
func (b *Bus) Poll() (Event, bool) {
	select {
	case e := <-b.ch:
		return e, true
	default:
		return Event{}, false
	}
}
