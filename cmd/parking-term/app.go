package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"parking-server/server/sim"
)

const (
	frameInterval = 33 * time.Millisecond
	eventBuffer   = 100
)

// app runs one local match at a time and draws it in the terminal.
type app struct {
	screen tcell.Screen
	cfg    sim.Config
	audio  *Audio
	submit *Submitter
	seed   int64 // zero picks a seed per match

	keys    keyState
	runner  sim.Runner
	startMu sync.Mutex

	mu      sync.Mutex
	matchNo int
	snap    sim.Snapshot
	msg     string
}

func newApp(screen tcell.Screen, cfg sim.Config, audio *Audio, submit *Submitter) *app {
	return &app{
		screen: screen,
		cfg:    cfg,
		audio:  audio,
		submit: submit,
	}
}

// start begins a new match, replacing the current one.
func (a *app) start() {
	a.startMu.Lock()
	defer a.startMu.Unlock()

	seed := a.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m := sim.NewMatch(a.cfg, rand.New(rand.NewSource(seed)))
	a.keys.reset()

	a.mu.Lock()
	a.matchNo++
	no := a.matchNo
	a.snap = m.Snapshot()
	a.msg = "arrows/WASD drive, space throws, m mutes"
	a.mu.Unlock()

	a.runner.Start(context.Background(), m, &a.keys, func(snap sim.Snapshot, events []sim.Event) {
		a.onTick(no, snap, events)
	})
}

func (a *app) stop() {
	a.startMu.Lock()
	defer a.startMu.Unlock()
	a.runner.Stop()
}

func (a *app) onTick(no int, snap sim.Snapshot, events []sim.Event) {
	a.mu.Lock()
	if no != a.matchNo {
		a.mu.Unlock()
		return
	}
	a.snap = snap
	for _, e := range events {
		if line := eventLine(snap, e); line != "" {
			a.msg = line
		}
	}
	won := snap.State == sim.Victory
	if won && a.submit != nil {
		a.msg = "submitting score..."
	}
	a.mu.Unlock()

	for _, e := range events {
		a.audio.Play(e.Cue())
	}
	if won && a.submit != nil {
		go a.submitScore(no, snap)
	}
}

// eventLine is the message-row text for an event, if it has one.
func eventLine(snap sim.Snapshot, e sim.Event) string {
	switch e.Kind {
	case sim.EventTaunt, sim.EventDriverDefeated:
		if e.Text == "" {
			return ""
		}
		return fmt.Sprintf("%s: %q", driverName(snap, e.DriverID), e.Text)
	case sim.EventZoneEnter:
		if snap.Stats.Defeated < len(snap.Drivers) {
			return "in the spot, but drivers are still circling"
		}
		return "hold it..."
	}
	return ""
}

func driverName(snap sim.Snapshot, id string) string {
	for _, d := range snap.Drivers {
		if d.ID == id {
			return d.Name
		}
	}
	return id
}

func (a *app) submitScore(no int, snap sim.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	r, err := a.submit.Submit(ctx, snap)
	msg := ""
	if err != nil {
		log.Printf("submit score: %v", err)
		msg = "score not saved: " + err.Error()
	} else {
		log.Printf("score %d saved as #%d", r.Score, r.ID)
		msg = "score saved: " + r.ShareURL
	}

	a.mu.Lock()
	if no == a.matchNo {
		a.msg = msg
	}
	a.mu.Unlock()
}

func (a *app) state() (sim.Snapshot, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap, a.msg
}

func (a *app) setMessage(msg string) {
	a.mu.Lock()
	a.msg = msg
	a.mu.Unlock()
}

// handleEvent applies one terminal event. It returns false to quit.
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		ctl, act, held := mapKey(ev)
		if held {
			a.keys.press(ctl)
			return true
		}
		switch act {
		case actQuit:
			return false
		case actRestart:
			a.start()
		case actMute:
			if a.audio == nil {
				a.setMessage("audio unavailable")
			} else if a.audio.ToggleMute() {
				a.setMessage("muted")
			} else {
				a.setMessage("sound on")
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) draw() {
	snap, msg := a.state()
	render(a.screen, snap, msg)
}

// run polls keys and redraws until the player quits.
func (a *app) run() {
	events := make(chan tcell.Event, eventBuffer)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	a.draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.draw()
		}
	}
}
