package audio

import "testing"

func TestBeatClockLevelInRange(t *testing.T) {
	b := NewBeatClock(126)
	for i := 0; i < 6000; i++ {
		level, live := b.Sample(1.0 / 60.0)
		if !live {
			t.Fatal("beat clock is always live")
		}
		if level < 0 || level > 1 {
			t.Fatalf("level %v out of [0,1]", level)
		}
	}
}

func TestBeatClockPeaksOnBeat(t *testing.T) {
	b := NewBeatClock(120) // 0.5s per beat
	onset, _ := b.Sample(0.001)
	mid, _ := b.Sample(0.25)
	if mid >= onset {
		t.Fatalf("level should decay across the beat: onset %v, mid %v", onset, mid)
	}
	next, _ := b.Sample(0.25)
	if next <= mid {
		t.Fatalf("level should snap back on the next beat: mid %v, next %v", mid, next)
	}
}

func TestSilence(t *testing.T) {
	var s Silence
	if _, live := s.Sample(0.016); live {
		t.Fatal("silence must not report a live stream")
	}
}
