package main

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"parking-server/server/sim"
)

// keyHoldTicks is how long a key counts as held after its last press or
// auto-repeat. Terminals report no key-up, and typical repeat rates land
// under this window.
const keyHoldTicks = 9

type control int

const (
	ctlUp control = iota
	ctlDown
	ctlLeft
	ctlRight
	ctlFire
	numControls
)

// keyState turns key presses into held controls. The match loop samples it
// once per tick; the UI goroutine presses.
type keyState struct {
	mu   sync.Mutex
	left [numControls]int
}

// opposite pairs each direction with the one it cancels
var opposite = map[control]control{
	ctlUp:    ctlDown,
	ctlDown:  ctlUp,
	ctlLeft:  ctlRight,
	ctlRight: ctlLeft,
}

// press holds c. Pressing a direction releases its opposite, so a quick
// reversal turns the car instead of cancelling the two steps out.
func (k *keyState) press(c control) {
	k.mu.Lock()
	k.left[c] = keyHoldTicks
	if o, ok := opposite[c]; ok {
		k.left[o] = 0
	}
	k.mu.Unlock()
}

func (k *keyState) reset() {
	k.mu.Lock()
	k.left = [numControls]int{}
	k.mu.Unlock()
}

// Input implements sim.InputSource. Each call ages every held key by one tick.
func (k *keyState) Input() sim.Input {
	k.mu.Lock()
	defer k.mu.Unlock()
	in := sim.Input{
		Up:    k.left[ctlUp] > 0,
		Down:  k.left[ctlDown] > 0,
		Left:  k.left[ctlLeft] > 0,
		Right: k.left[ctlRight] > 0,
		Fire:  k.left[ctlFire] > 0,
	}
	for i := range k.left {
		if k.left[i] > 0 {
			k.left[i]--
		}
	}
	return in
}

// action is a non-movement command from the keyboard
type action int

const (
	actNone action = iota
	actQuit
	actRestart
	actMute
)

// mapKey translates a key event into a held control or an action.
func mapKey(ev *tcell.EventKey) (control, action, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return 0, actQuit, false
	case tcell.KeyUp:
		return ctlUp, actNone, true
	case tcell.KeyDown:
		return ctlDown, actNone, true
	case tcell.KeyLeft:
		return ctlLeft, actNone, true
	case tcell.KeyRight:
		return ctlRight, actNone, true
	case tcell.KeyRune:
	default:
		return 0, actNone, false
	}

	switch ev.Rune() {
	case 'w', 'W':
		return ctlUp, actNone, true
	case 's', 'S':
		return ctlDown, actNone, true
	case 'a', 'A':
		return ctlLeft, actNone, true
	case 'd', 'D':
		return ctlRight, actNone, true
	case ' ':
		return ctlFire, actNone, true
	case 'r', 'R':
		return 0, actRestart, false
	case 'm', 'M':
		return 0, actMute, false
	case 'q', 'Q':
		return 0, actQuit, false
	}
	return 0, actNone, false
}
