package sim

// DriverKind picks a driver's home art and the projectile it throws back.
type DriverKind uint8

const (
	KindSedan DriverKind = iota
	KindTruck
)

func (k DriverKind) String() string {
	if k == KindTruck {
		return "truck"
	}
	return "sedan"
}

// HomeAsset is the art shown at the driver's home spot.
func (k DriverKind) HomeAsset() string {
	if k == KindTruck {
		return "homes/garage.png"
	}
	return "homes/driveway.png"
}

// Projectile is what this kind of driver throws at the player.
func (k DriverKind) Projectile() ProjectileType {
	if k == KindTruck {
		return ProjectileTire
	}
	return ProjectileHubcap
}

// DriverSpec is the preset for one roster slot.
type DriverSpec struct {
	ID    string
	Name  string
	Kind  DriverKind
	Home  Vec2
	Speed float64 // units/s
}

// DefaultRoster is the fixed set of six drivers.
var DefaultRoster = []DriverSpec{
	{ID: "d1", Name: "Brenda", Kind: KindSedan, Home: Vec2{X: 200, Y: 100}, Speed: 60},
	{ID: "d2", Name: "Marco", Kind: KindTruck, Home: Vec2{X: 400, Y: 120}, Speed: 70},
	{ID: "d3", Name: "Keisha", Kind: KindSedan, Home: Vec2{X: 600, Y: 100}, Speed: 80},
	{ID: "d4", Name: "Dale", Kind: KindTruck, Home: Vec2{X: 250, Y: 460}, Speed: 90},
	{ID: "d5", Name: "Priya", Kind: KindSedan, Home: Vec2{X: 420, Y: 320}, Speed: 100},
	{ID: "d6", Name: "Gus", Kind: KindTruck, Home: Vec2{X: 640, Y: 260}, Speed: 110},
}

// Driver is an AI-controlled opponent. Drivers are never removed from the
// roster; a defeated driver stays frozen where it fell.
type Driver struct {
	ID       string
	Name     string
	Kind     DriverKind
	Pos      Vec2
	Dir      Vec2 // unit vector
	Speed    float64
	Health   int
	Redirect float64 // seconds until the next random heading
	Defeated bool
}

// NewDriver spawns a driver at its home with a random heading.
func NewDriver(spec DriverSpec, rng Rand) *Driver {
	return &Driver{
		ID:       spec.ID,
		Name:     spec.Name,
		Kind:     spec.Kind,
		Pos:      spec.Home,
		Dir:      randomDir(rng),
		Speed:    spec.Speed,
		Health:   MaxHealth,
		Redirect: redirectDelay(rng),
	}
}

// TakeHit applies damage, floored at zero. It returns true only on the hit
// that defeats the driver; hits on a defeated driver change nothing.
func (d *Driver) TakeHit(dmg int) bool {
	if d.Defeated {
		return false
	}
	d.Health -= dmg
	if d.Health <= 0 {
		d.Health = 0
		d.Defeated = true
		return true
	}
	return false
}

// Box is the driver's collision box.
func (d *Driver) Box() Box {
	return Box{Center: d.Pos, Half: DriverHalf}
}
