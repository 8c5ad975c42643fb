package sim

// Input is the set of keys held during one tick.
type Input struct {
	Up, Down, Left, Right bool
	Fire                  bool
}

// InputSource is sampled exactly once per tick.
type InputSource interface {
	Input() Input
}

// InputFunc adapts a function to InputSource.
type InputFunc func() Input

func (f InputFunc) Input() Input { return f() }

// Rand is the random source the simulation draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}
