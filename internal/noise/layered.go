package noise

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Layered sums one independently seeded generator per octave. Octave i is
// sampled at point*frequency*(i+1) and weighted by 1/(i+1); the total is
// scaled by amplitude/2.
type Layered[N Gradient] struct {
	octaves   []N
	octaves4  []Noise4D
	frequency float64
	amplitude float64
}

// NewLayered calls factory once per octave, so each octave draws its own
// permutation when the factory pulls from a shared PRNG.
func NewLayered[N Gradient](octaves int, frequency, amplitude float64, factory func() N) *Layered[N] {
	if octaves <= 0 {
		panic(fmt.Sprintf("noise: layered noise needs at least one octave, got %d", octaves))
	}
	l := &Layered[N]{
		octaves:   make([]N, octaves),
		frequency: frequency,
		amplitude: amplitude,
	}
	for i := range l.octaves {
		l.octaves[i] = factory()
	}
	if _, ok := any(l.octaves[0]).(Noise4D); ok {
		l.octaves4 = make([]Noise4D, octaves)
		for i, n := range l.octaves {
			l.octaves4[i] = any(n).(Noise4D)
		}
	}
	return l
}

func (l *Layered[N]) Octaves() int { return len(l.octaves) }

func (l *Layered[N]) At2(p mgl64.Vec2) float64 {
	var sum float64
	for i, n := range l.octaves {
		k := float64(i + 1)
		sum += n.At2(p.Mul(l.frequency*k)) / k
	}
	return sum * l.amplitude / 2
}

func (l *Layered[N]) At3(p mgl64.Vec3) float64 {
	var sum float64
	for i, n := range l.octaves {
		k := float64(i + 1)
		sum += n.At3(p.Mul(l.frequency*k)) / k
	}
	return sum * l.amplitude / 2
}

// At4 panics when the octave type has no 4D form.
func (l *Layered[N]) At4(p mgl64.Vec4) float64 {
	if l.octaves4 == nil {
		panic(fmt.Sprintf("noise: %T does not support 4D sampling", l.octaves[0]))
	}
	var sum float64
	for i, n := range l.octaves4 {
		k := float64(i + 1)
		sum += n.At4(p.Mul(l.frequency*k)) / k
	}
	return sum * l.amplitude / 2
}
