package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"parking-server/server/sim"
)

func TestKeyStateHoldsThenReleases(t *testing.T) {
	var k keyState
	k.press(ctlRight)
	k.press(ctlFire)

	for i := 0; i < keyHoldTicks; i++ {
		in := k.Input()
		if !in.Right || !in.Fire {
			t.Fatalf("tick %d: %+v, want right and fire held", i, in)
		}
		if in.Left || in.Up || in.Down {
			t.Fatalf("tick %d: unexpected keys %+v", i, in)
		}
	}
	if in := k.Input(); in != (sim.Input{}) {
		t.Errorf("after the hold window got %+v, want nothing held", in)
	}
}

func TestKeyStateRepeatExtendsHold(t *testing.T) {
	var k keyState
	k.press(ctlUp)
	for i := 0; i < keyHoldTicks-1; i++ {
		k.Input()
	}
	k.press(ctlUp) // auto-repeat
	for i := 0; i < keyHoldTicks; i++ {
		if !k.Input().Up {
			t.Fatalf("tick %d after repeat: up released early", i)
		}
	}
}

func TestKeyStateReversalReleasesOpposite(t *testing.T) {
	var k keyState
	k.press(ctlRight)
	k.Input()
	k.press(ctlLeft)
	k.press(ctlUp)
	k.press(ctlDown)

	in := k.Input()
	if in.Right || !in.Left {
		t.Errorf("after right then left got %+v, want only left", in)
	}
	if in.Up || !in.Down {
		t.Errorf("after up then down got %+v, want only down", in)
	}

	p := sim.NewPlayer(sim.PlayerStart)
	p.Move(in, sim.DefaultArena)
	if p.Facing != sim.FacingLeft || p.Pos.X >= sim.PlayerStart.X {
		t.Errorf("player %+v should turn and move left", p)
	}
}

func TestKeyStateReset(t *testing.T) {
	var k keyState
	k.press(ctlLeft)
	k.reset()
	if in := k.Input(); in.Left {
		t.Error("reset should release every key")
	}
}

func TestMapKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		ctl  control
		act  action
		held bool
	}{
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ctlUp, actNone, true},
		{"arrow down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), ctlDown, actNone, true},
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), ctlLeft, actNone, true},
		{"arrow right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), ctlRight, actNone, true},
		{"w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), ctlUp, actNone, true},
		{"S", tcell.NewEventKey(tcell.KeyRune, 'S', tcell.ModNone), ctlDown, actNone, true},
		{"a", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), ctlLeft, actNone, true},
		{"d", tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), ctlRight, actNone, true},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), ctlFire, actNone, true},
		{"r", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), 0, actRestart, false},
		{"m", tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone), 0, actMute, false},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), 0, actQuit, false},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), 0, actQuit, false},
		{"other", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), 0, actNone, false},
	}
	for _, tt := range tests {
		ctl, act, held := mapKey(tt.ev)
		if held != tt.held || act != tt.act || (held && ctl != tt.ctl) {
			t.Errorf("%s: mapKey = %v, %v, %v; want %v, %v, %v", tt.name, ctl, act, held, tt.ctl, tt.act, tt.held)
		}
	}
}
