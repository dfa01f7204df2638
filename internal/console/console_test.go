package console

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/my-pwa-apps/vrclub/internal/director"
)

func TestEventJSONDecode(t *testing.T) {
	cases := []struct {
		in   string
		want Event
	}{
		{
			`{"kind":"toggle_group","group":"mirror_ball","on":true}`,
			Event{Kind: KindToggleGroup, Group: director.GroupMirrorBall, On: true},
		},
		{
			`{"kind":"select_phase","phase":"drop"}`,
			Event{Kind: KindSelectPhase, Phase: director.PhaseDrop},
		},
		{
			`{"kind":"next_laser_color"}`,
			Event{Kind: KindNextLaserColor},
		},
		{
			`{"kind":"toggle_strobe","on":true}`,
			Event{Kind: KindToggleStrobe, On: true},
		},
	}
	for _, c := range cases {
		var e Event
		if err := json.Unmarshal([]byte(c.in), &e); err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		assert.Equal(t, c.want, e, c.in)
	}
}

func TestEventJSONDecodeRejectsUnknown(t *testing.T) {
	var e Event
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"launch_confetti"}`), &e))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"toggle_group","group":"smoke"}`), &e))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"select_phase","phase":"encore"}`), &e))
}

func TestBusPublishPoll(t *testing.T) {
	b := NewBus()
	if _, ok := b.Poll(); ok {
		t.Fatal("fresh bus should be empty")
	}
	assert.True(t, b.Publish(Event{Kind: KindCycleSpotMode}))
	e, ok := b.Poll()
	assert.True(t, ok)
	assert.Equal(t, KindCycleSpotMode, e.Kind)
}

func TestBusDropsWhenFull(t *testing.T) {
	b := NewBus()
	for i := 0; ; i++ {
		if !b.Publish(Event{Kind: KindCycleSpotMode}) {
			break
		}
		if i > 10000 {
			t.Fatal("bus never filled")
		}
	}
	// Drain recovers capacity.
	for {
		if _, ok := b.Poll(); !ok {
			break
		}
	}
	assert.True(t, b.Publish(Event{Kind: KindCycleSpotMode}))
}

func TestMIDIDecodeMapsPads(t *testing.T) {
	c := &MIDIConsole{latch: map[director.GroupMask]bool{}}

	e, ok := c.decode(NoteMirrorBall)
	assert.True(t, ok)
	assert.Equal(t, KindToggleGroup, e.Kind)
	assert.Equal(t, director.GroupMirrorBall, e.Group)
	assert.True(t, e.On, "first press latches on")

	e, _ = c.decode(NoteMirrorBall)
	assert.False(t, e.On, "second press latches off")

	e, ok = c.decode(NotePhaseFirst + 4)
	assert.True(t, ok)
	assert.Equal(t, KindSelectPhase, e.Kind)
	assert.Equal(t, director.PhaseDrop, e.Phase)

	_, ok = c.decode(99)
	assert.False(t, ok, "unmapped pads are ignored")
}
