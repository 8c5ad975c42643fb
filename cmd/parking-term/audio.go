package main

import (
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"parking-server/server/sim"
)

const sampleRate = beep.SampleRate(44100)

type note struct {
	freq float64
	dur  time.Duration
}

// cueNotes maps every presentation cue to a short melody
var cueNotes = map[string][]note{
	sim.CueThrow:     {{660, 40 * time.Millisecond}},
	sim.CueHit:       {{880, 50 * time.Millisecond}},
	sim.CueExplosion: {{220, 80 * time.Millisecond}, {110, 120 * time.Millisecond}},
	sim.CuePlayerHit: {{180, 90 * time.Millisecond}},
	sim.CueZoneEnter: {{523, 60 * time.Millisecond}, {659, 60 * time.Millisecond}},
	sim.CueZoneExit:  {{659, 60 * time.Millisecond}, {523, 60 * time.Millisecond}},
	sim.CueTaunt:     {{330, 70 * time.Millisecond}, {294, 70 * time.Millisecond}},
	sim.CueVictory:   {{523, 120 * time.Millisecond}, {659, 120 * time.Millisecond}, {784, 120 * time.Millisecond}, {1047, 240 * time.Millisecond}},
	sim.CueDefeat:    {{392, 150 * time.Millisecond}, {330, 150 * time.Millisecond}, {262, 300 * time.Millisecond}},
}

// Audio plays cue tones on the default output device. A nil *Audio is
// silent.
type Audio struct {
	muted atomic.Bool
}

// NewAudio opens the speaker. The game runs fine without it, so callers
// should log the error and carry on with a nil *Audio.
func NewAudio() (*Audio, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Audio{}, nil
}

// Play queues the tones for cue. Unknown cues are ignored.
func (a *Audio) Play(cue string) {
	if a == nil || a.muted.Load() {
		return
	}
	s, err := melody(cueNotes[cue])
	if err != nil || s == nil {
		return
	}
	speaker.Play(s)
}

// ToggleMute flips mute and reports the new state
func (a *Audio) ToggleMute() bool {
	if a == nil {
		return true
	}
	m := !a.muted.Load()
	a.muted.Store(m)
	return m
}

func (a *Audio) Close() {
	if a == nil {
		return
	}
	speaker.Close()
}

// melody strings sine tones together. It returns nil for no notes.
func melody(notes []note) (beep.Streamer, error) {
	if len(notes) == 0 {
		return nil, nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		sine, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sampleRate.N(n.dur), sine))
	}
	return beep.Seq(parts...), nil
}
