package main

import (
	"testing"
	"time"

	"parking-server/server/sim"
)

func TestEveryCueHasNotes(t *testing.T) {
	cues := []string{
		sim.CueThrow, sim.CueHit, sim.CueExplosion, sim.CuePlayerHit,
		sim.CueZoneEnter, sim.CueZoneExit, sim.CueTaunt, sim.CueVictory, sim.CueDefeat,
	}
	for _, c := range cues {
		if len(cueNotes[c]) == 0 {
			t.Errorf("cue %q has no notes", c)
		}
	}
}

func TestMelodyLength(t *testing.T) {
	notes := []note{{440, 50 * time.Millisecond}, {880, 100 * time.Millisecond}}
	s, err := melody(notes)
	if err != nil {
		t.Fatal(err)
	}
	want := sampleRate.N(50*time.Millisecond) + sampleRate.N(100*time.Millisecond)

	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if total != want {
		t.Errorf("melody streamed %d samples, want %d", total, want)
	}
}

func TestMelodyEmpty(t *testing.T) {
	s, err := melody(nil)
	if s != nil || err != nil {
		t.Errorf("melody(nil) = %v, %v", s, err)
	}
	if _, err := melody([]note{{30000, time.Millisecond}}); err == nil {
		t.Error("a tone above the Nyquist limit should be rejected")
	}
}

func TestNilAudioIsSilent(t *testing.T) {
	var a *Audio
	a.Play(sim.CueHit)
	if !a.ToggleMute() {
		t.Error("nil audio should report muted")
	}
	a.Close()
}
