package sim

// Facing is the direction the player's car points.
type Facing uint8

const (
	FacingRight Facing = iota
	FacingLeft
	FacingUp
	FacingDown
)

func (f Facing) String() string {
	switch f {
	case FacingLeft:
		return "left"
	case FacingUp:
		return "up"
	case FacingDown:
		return "down"
	default:
		return "right"
	}
}

// Vec returns the axis-aligned unit vector for the facing.
func (f Facing) Vec() Vec2 {
	switch f {
	case FacingLeft:
		return Vec2{X: -1}
	case FacingUp:
		return Vec2{Y: -1}
	case FacingDown:
		return Vec2{Y: 1}
	default:
		return Vec2{X: 1}
	}
}

// throwOffset is where a cone leaves the car relative to its anchor.
var throwOffset = [...]Vec2{
	FacingRight: {X: 30, Y: 0},
	FacingLeft:  {X: -30, Y: 0},
	FacingUp:    {X: 0, Y: -30},
	FacingDown:  {X: 0, Y: 30},
}

// Player is the player-controlled car.
type Player struct {
	Pos       Vec2
	Facing    Facing
	Health    int
	LastThrow int // tick of the last throw, -1 before the first
}

// NewPlayer places a full-health car at start, facing right.
func NewPlayer(start Vec2) *Player {
	return &Player{
		Pos:       start,
		Facing:    FacingRight,
		Health:    MaxHealth,
		LastThrow: -1,
	}
}

// Move applies one tick of directional input and clamps the car to the arena.
// Keys are applied in up, down, left, right order, so with several held the
// last one decides the facing.
func (p *Player) Move(in Input, arena Arena) {
	step := PlayerSpeed * TickDelta
	if in.Up {
		p.Pos.Y -= step
		p.Facing = FacingUp
	}
	if in.Down {
		p.Pos.Y += step
		p.Facing = FacingDown
	}
	if in.Left {
		p.Pos.X -= step
		p.Facing = FacingLeft
	}
	if in.Right {
		p.Pos.X += step
		p.Facing = FacingRight
	}
	p.Pos = arena.Clamp(p.Pos)
}

// CanThrow reports whether the throw cooldown has elapsed at tick.
func (p *Player) CanThrow(tick int) bool {
	return p.LastThrow < 0 || tick-p.LastThrow >= ThrowCooldownTicks
}

// TakeHit reduces health, floored at zero. It returns true when this hit
// emptied the health bar.
func (p *Player) TakeHit(dmg int) bool {
	if p.Health <= 0 {
		return false
	}
	p.Health -= dmg
	if p.Health <= 0 {
		p.Health = 0
		return true
	}
	return false
}

// Box is the player's collision box.
func (p *Player) Box() Box {
	return Box{Center: p.Pos, Half: PlayerHalf}
}
