// Package audio supplies the optional per-frame energy sample the
// director's speed scaling feeds on.
package audio

import "math"

// Source delivers one energy sample per frame. live is false when no
// audio stream is playing, in which case the director ignores the level.
type Source interface {
	Sample(dt float64) (level float64, live bool)
}

// Silence is the source used when nothing is playing.
type Silence struct{}

func (Silence) Sample(float64) (float64, bool) { return 0, false }

// BeatClock synthesizes a club-tempo energy curve without a real audio
// feed: a sharp transient on each beat decaying toward a floor, which
// reads as a kick drum to the speed scaler.
type BeatClock struct {
	BPM   float64
	Floor float64 // idle level between beats, 0..1

	phase float64 // position within the current beat, 0..1
}

func NewBeatClock(bpm float64) *BeatClock {
	if bpm <= 0 {
		bpm = 126
	}
	return &BeatClock{BPM: bpm, Floor: 0.2}
}

// Sample advances the beat phase by dt and returns the decayed level.
func (b *BeatClock) Sample(dt float64) (float64, bool) {
	if dt < 0 {
		dt = 0
	}
	beatLen := 60.0 / b.BPM
	b.phase = math.Mod(b.phase+dt/beatLen, 1.0)
	// Exponential decay from 1 at the beat onset down toward the floor.
	level := b.Floor + (1-b.Floor)*math.Exp(-6*b.phase)
	return level, true
}
