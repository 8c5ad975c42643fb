package sim

// Score accumulates points for one match. It never goes below zero.
type Score struct {
	value int
	bonus int
}

// Hit credits a successful hit on a driver.
func (s *Score) Hit() { s.value += HitReward }

// Penalize debits a hit taken, floored at zero.
func (s *Score) Penalize() {
	s.value -= HitPenalty
	if s.value < 0 {
		s.value = 0
	}
}

// AddTimeBonus credits the time-remaining bonus. Only the first call counts.
func (s *Score) AddTimeBonus(seconds int) {
	if s.bonus != 0 || seconds <= 0 {
		return
	}
	s.bonus = seconds
	s.value += seconds
}

func (s *Score) Value() int     { return s.value }
func (s *Score) TimeBonus() int { return s.bonus }
