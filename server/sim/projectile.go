package sim

// ProjectileType distinguishes the player's cones from the drivers' throws.
type ProjectileType uint8

const (
	ProjectileCone   ProjectileType = iota // thrown by the player
	ProjectileHubcap                       // thrown by sedans
	ProjectileTire                         // thrown by trucks
)

func (t ProjectileType) String() string {
	switch t {
	case ProjectileHubcap:
		return "hubcap"
	case ProjectileTire:
		return "tire"
	default:
		return "cone"
	}
}

// FromPlayer reports whether the projectile hurts drivers rather than the player.
func (t ProjectileType) FromPlayer() bool {
	return t == ProjectileCone
}

// Projectile is a thrown object travelling in a straight line.
type Projectile struct {
	ID    uint32
	Type  ProjectileType
	Pos   Vec2
	Dir   Vec2
	Speed float64 // units/tick
	Owner string  // driver ID, empty for the player
}

// NewCone spawns a cone in front of the player, travelling along its facing.
func NewCone(id uint32, p *Player) Projectile {
	return Projectile{
		ID:    id,
		Type:  ProjectileCone,
		Pos:   p.Pos.Add(throwOffset[p.Facing]),
		Dir:   p.Facing.Vec(),
		Speed: PlayerProjectileSpeed,
	}
}

// NewDriverProjectile spawns a driver's throw aimed at target. The aim is
// fixed at spawn; the projectile does not home.
func NewDriverProjectile(id uint32, d *Driver, target Vec2) Projectile {
	return Projectile{
		ID:    id,
		Type:  d.Kind.Projectile(),
		Pos:   d.Pos,
		Dir:   target.Sub(d.Pos).Normalize(),
		Speed: DriverProjectileSpeed,
		Owner: d.ID,
	}
}

// Advance moves the projectile one tick.
func (p *Projectile) Advance() {
	p.Pos = p.Pos.Add(p.Dir.Scale(p.Speed))
}

// Expired reports whether the projectile has left the arena's margin.
func (p *Projectile) Expired(arena Arena) bool {
	return arena.Beyond(p.Pos, ProjectileMargin)
}

// Box is the projectile's collision box.
func (p *Projectile) Box() Box {
	return Box{Center: p.Pos, Half: ProjectileHalf}
}
