package core

import "math/rand/v2"

// Particle is one decorative dot in the hero background
type Particle struct {
	Size     float64 // px, [5, 15)
	Top      float64 // percent, [0, 100)
	Left     float64 // percent, [0, 100)
	Duration float64 // pulse seconds, [3, 8)
}

// Particles returns n particles derived only from seed
func Particles(seed uint64, n int) []Particle {
	if n < 0 {
		n = 0
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]Particle, n)
	for i := range out {
		out[i] = Particle{
			Size:     rng.Float64()*10 + 5,
			Top:      rng.Float64() * 100,
			Left:     rng.Float64() * 100,
			Duration: rng.Float64()*5 + 3,
		}
	}
	return out
}
