package console

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/my-pwa-apps/vrclub/internal/director"
)

// Pad layout of the MIDI deck. Any pad controller works; the notes
// follow the bottom-left octave of a typical 4x4 grid.
const (
	NoteSpotlights uint8 = 36 + iota
	NoteLasers
	NoteMirrorBall
	NoteLEDWall
	NoteStrobeToggle
	NoteLaserColor
	NoteSpotMode
	NoteMovePattern
	NoteWallPattern
	NoteBallColor
	NotePhaseFirst // five pads upward select BUILD..DROP
)

// MIDIConsole listens on a MIDI input port and publishes VJ events.
type MIDIConsole struct {
	bus  *Bus
	log  zerolog.Logger
	stop func()

	// toggle pads flip local latch state; the director owns the truth
	// but the latch picks the direction of the next toggle.
	latch map[director.GroupMask]bool
}

// FindInPort matches a MIDI input port by case-insensitive substring.
func FindInPort(substr string) (drivers.In, error) {
	lower := strings.ToLower(substr)
	for _, port := range midi.GetInPorts() {
		if strings.Contains(strings.ToLower(port.String()), lower) {
			return port, nil
		}
	}
	return nil, fmt.Errorf("no MIDI input port matching %q", substr)
}

// OpenMIDI starts listening on the named port and feeds the bus.
func OpenMIDI(portName string, bus *Bus, log zerolog.Logger) (*MIDIConsole, error) {
	in, err := FindInPort(portName)
	if err != nil {
		return nil, err
	}
	c := &MIDIConsole{
		bus:   bus,
		log:   log.With().Str("component", "midi").Logger(),
		latch: map[director.GroupMask]bool{},
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		c.handle(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", in, err)
	}
	c.stop = stop
	c.log.Info().Str("port", in.String()).Msg("MIDI console connected")
	return c, nil
}

// Close detaches from the port.
func (c *MIDIConsole) Close() {
	if c.stop != nil {
		c.stop()
	}
}

func (c *MIDIConsole) handle(msg midi.Message) {
	if !msg.Is(midi.NoteOnMsg) {
		return
	}
	var channel, key, velocity uint8
	msg.GetNoteOn(&channel, &key, &velocity)
	if velocity == 0 { // note-on with zero velocity is a release
		return
	}
	if e, ok := c.decode(key); ok {
		if !c.bus.Publish(e) {
			c.log.Warn().Str("event", e.Kind.String()).Msg("bus full, event dropped")
		}
	}
}

func (c *MIDIConsole) decode(key uint8) (Event, bool) {
	switch key {
	case NoteSpotlights:
		return c.toggle(director.GroupSpotlights), true
	case NoteLasers:
		return c.toggle(director.GroupLasers), true
	case NoteMirrorBall:
		return c.toggle(director.GroupMirrorBall), true
	case NoteLEDWall:
		return c.toggle(director.GroupLEDWall), true
	case NoteStrobeToggle:
		on := !c.latch[director.GroupStrobes]
		c.latch[director.GroupStrobes] = on
		return Event{Kind: KindToggleStrobe, On: on}, true
	case NoteLaserColor:
		return Event{Kind: KindNextLaserColor}, true
	case NoteSpotMode:
		return Event{Kind: KindCycleSpotMode}, true
	case NoteMovePattern:
		return Event{Kind: KindCycleMovePattern}, true
	case NoteWallPattern:
		return Event{Kind: KindCycleWallPattern}, true
	case NoteBallColor:
		return Event{Kind: KindCycleBallColor}, true
	}
	if key >= NotePhaseFirst && key < NotePhaseFirst+5 {
		return Event{
			Kind:  KindSelectPhase,
			Phase: director.Phase(key - NotePhaseFirst),
		}, true
	}
	return Event{}, false
}

func (c *MIDIConsole) toggle(g director.GroupMask) Event {
	on := !c.latch[g]
	c.latch[g] = on
	return Event{Kind: KindToggleGroup, Group: g, On: on}
}
