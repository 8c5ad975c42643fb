package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"parking-server/server/sim"
)

const (
	minWidth  = 30
	minHeight = 10
	holdBarW  = 10
)

var (
	styleDefault  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleHUD      = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleBorder   = styleDefault.Foreground(tcell.ColorDarkGray)
	styleZone     = styleDefault.Foreground(tcell.ColorGreen)
	styleZoneIn   = styleDefault.Foreground(tcell.ColorLime).Bold(true)
	stylePlayer   = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDriver   = styleDefault.Foreground(tcell.ColorWhite)
	styleHurt     = styleDefault.Foreground(tcell.ColorOrange)
	styleCritical = styleDefault.Foreground(tcell.ColorRed)
	styleDefeated = styleDefault.Foreground(tcell.ColorDarkGray)
	styleCone     = styleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
	styleIncoming = styleDefault.Foreground(tcell.ColorSilver)
	styleMessage  = styleDefault.Foreground(tcell.ColorGray)
	styleWin      = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLime).Bold(true)
	styleLose     = styleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)
)

// viewport maps arena coordinates to the cells inside the border
type viewport struct {
	x0, y0 int // top-left inner cell
	w, h   int // inner size in cells
	arena  sim.Arena
}

// newViewport fits the arena into a screen of sw x sh, leaving the top row
// for the HUD and the bottom row for messages.
func newViewport(sw, sh int, arena sim.Arena) viewport {
	return viewport{x0: 1, y0: 2, w: sw - 2, h: sh - 4, arena: arena}
}

func (v viewport) cell(x, y float64) (int, int) {
	fx := (x - v.arena.MinX) / (v.arena.MaxX - v.arena.MinX)
	fy := (y - v.arena.MinY) / (v.arena.MaxY - v.arena.MinY)
	cx := v.x0 + clampInt(int(fx*float64(v.w)), 0, v.w-1)
	cy := v.y0 + clampInt(int(fy*float64(v.h)), 0, v.h-1)
	return cx, cy
}

func (v viewport) inside(x, y float64) bool {
	return x >= v.arena.MinX && x <= v.arena.MaxX && y >= v.arena.MinY && y <= v.arena.MaxY
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// render draws one frame of snap with msg on the bottom row.
func render(s tcell.Screen, snap sim.Snapshot, msg string) {
	s.Clear()
	sw, sh := s.Size()
	if sw < minWidth || sh < minHeight {
		drawText(s, 0, 0, styleDefault, "terminal too small")
		s.Show()
		return
	}
	v := newViewport(sw, sh, snap.Arena)

	drawHUD(s, snap, sw)
	drawBorder(s, v)
	drawZone(s, v, snap)
	drawDrivers(s, v, snap.Drivers)
	drawProjectiles(s, v, snap.Projectiles)
	drawPlayer(s, v, snap.Player)
	drawText(s, 0, sh-1, styleMessage, truncate(msg, sw))
	if snap.State.Terminal() {
		drawResult(s, snap, sw, sh)
	}
	s.Show()
}

func hudLine(snap sim.Snapshot) string {
	filled := int(snap.HoldProgress() * holdBarW)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", holdBarW-filled)
	defeated := 0
	for _, d := range snap.Drivers {
		if d.Defeated {
			defeated++
		}
	}
	return fmt.Sprintf("SCORE %d  TIME %ds  HP %d  DRIVERS %d/%d  HOLD [%s]",
		snap.Score, snap.RemainingSeconds, snap.Player.Health, defeated, len(snap.Drivers), bar)
}

func drawHUD(s tcell.Screen, snap sim.Snapshot, sw int) {
	drawText(s, 0, 0, styleHUD, truncate(hudLine(snap), sw))
}

func drawBorder(s tcell.Screen, v viewport) {
	left, right := v.x0-1, v.x0+v.w
	top, bottom := v.y0-1, v.y0+v.h
	for x := left + 1; x < right; x++ {
		s.SetContent(x, top, '─', nil, styleBorder)
		s.SetContent(x, bottom, '─', nil, styleBorder)
	}
	for y := top + 1; y < bottom; y++ {
		s.SetContent(left, y, '│', nil, styleBorder)
		s.SetContent(right, y, '│', nil, styleBorder)
	}
	s.SetContent(left, top, '┌', nil, styleBorder)
	s.SetContent(right, top, '┐', nil, styleBorder)
	s.SetContent(left, bottom, '└', nil, styleBorder)
	s.SetContent(right, bottom, '┘', nil, styleBorder)
}

func drawZone(s tcell.Screen, v viewport, snap sim.Snapshot) {
	style := styleZone
	if snap.InZone {
		style = styleZoneIn
	}
	z := snap.WinZone
	x0, y0 := v.cell(z.Left, z.Top)
	x1, y1 := v.cell(z.Right, z.Bottom)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.SetContent(x, y, '░', nil, style)
		}
	}
	drawText(s, x0, y0, style, truncate("P", x1-x0+1))
}

func driverGlyph(d sim.DriverSnapshot) (rune, tcell.Style) {
	if d.Defeated {
		return 'x', styleDefeated
	}
	r := 'S'
	if d.Kind == sim.KindTruck {
		r = 'T'
	}
	switch {
	case d.Health <= sim.MaxHealth*3/10:
		return r, styleCritical
	case d.Health <= sim.MaxHealth*6/10:
		return r, styleHurt
	}
	return r, styleDriver
}

func drawDrivers(s tcell.Screen, v viewport, drivers []sim.DriverSnapshot) {
	// Defeated drivers first so live ones draw over them
	for _, d := range drivers {
		if d.Defeated {
			r, st := driverGlyph(d)
			x, y := v.cell(d.X, d.Y)
			s.SetContent(x, y, r, nil, st)
		}
	}
	for _, d := range drivers {
		if !d.Defeated {
			r, st := driverGlyph(d)
			x, y := v.cell(d.X, d.Y)
			s.SetContent(x, y, r, nil, st)
		}
	}
}

func projectileGlyph(t sim.ProjectileType) (rune, tcell.Style) {
	switch t {
	case sim.ProjectileHubcap:
		return 'o', styleIncoming
	case sim.ProjectileTire:
		return '0', styleIncoming
	}
	return '^', styleCone
}

func drawProjectiles(s tcell.Screen, v viewport, ps []sim.ProjectileSnapshot) {
	for _, p := range ps {
		if !v.inside(p.X, p.Y) {
			continue
		}
		r, st := projectileGlyph(p.Type)
		x, y := v.cell(p.X, p.Y)
		s.SetContent(x, y, r, nil, st)
	}
}

func playerGlyph(f sim.Facing) rune {
	switch f {
	case sim.FacingLeft:
		return '◀'
	case sim.FacingUp:
		return '▲'
	case sim.FacingDown:
		return '▼'
	}
	return '▶'
}

func drawPlayer(s tcell.Screen, v viewport, p sim.PlayerSnapshot) {
	x, y := v.cell(p.X, p.Y)
	s.SetContent(x, y, playerGlyph(p.Facing), nil, stylePlayer)
}

func resultText(snap sim.Snapshot) (string, tcell.Style) {
	switch snap.State {
	case sim.Victory:
		return fmt.Sprintf(" PARKED! Final score %d (time bonus %d) ", snap.Score, snap.TimeBonus), styleWin
	case sim.DefeatByHealth:
		return fmt.Sprintf(" WRECKED. Final score %d ", snap.Score), styleLose
	case sim.DefeatByTimeout:
		return fmt.Sprintf(" OUT OF TIME. Final score %d ", snap.Score), styleLose
	}
	return "", styleDefault
}

func drawResult(s tcell.Screen, snap sim.Snapshot, sw, sh int) {
	text, style := resultText(snap)
	hint := " r: restart   q: quit "
	y := sh / 2
	drawText(s, max(0, (sw-len([]rune(text)))/2), y, style, truncate(text, sw))
	drawText(s, max(0, (sw-len(hint))/2), y+1, styleDefault, truncate(hint, sw))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
