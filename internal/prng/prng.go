// Package prng holds the seedable bit generators used by the noise and
// terrain packages. None of the generators are safe for concurrent use.
package prng

import "math/bits"

// Source produces a reproducible stream of uniformly distributed integers in
// [0, Max()]. Seeding with the same value reproduces the same stream.
type Source interface {
	Next() uint64
	Max() uint64
	Seed(value uint64)
}

const splitMixGamma = 0x9E3779B97F4A7C15

// SplitMix64 is only used to expand single seeds into larger state.
type SplitMix64 struct {
	state uint64
}

func NewSplitMix64(seed uint64) *SplitMix64 {
	return &SplitMix64{state: seed}
}

func (s *SplitMix64) Seed(value uint64) { s.state = value }

func (s *SplitMix64) Max() uint64 { return ^uint64(0) }

func (s *SplitMix64) Next() uint64 {
	s.state += splitMixGamma
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// ExpandSeed turns a single seed into two state words.
func ExpandSeed(seed uint64) [2]uint64 {
	sm := NewSplitMix64(seed)
	return [2]uint64{sm.Next(), sm.Next()}
}

// nonZero keeps xoroshiro state out of the all-zero fixed point.
func nonZero(state [2]uint64) [2]uint64 {
	if state[0] == 0 && state[1] == 0 {
		return [2]uint64{splitMixGamma, 1}
	}
	return state
}

// Xoroshiro128PlusPlus is the generator used by the shipped terrain.
type Xoroshiro128PlusPlus struct {
	s0, s1 uint64
}

func NewXoroshiro128PlusPlus(seed uint64) *Xoroshiro128PlusPlus {
	x := &Xoroshiro128PlusPlus{}
	x.Seed(seed)
	return x
}

// NewXoroshiro128PlusPlusState builds a generator from raw state words.
func NewXoroshiro128PlusPlusState(state [2]uint64) *Xoroshiro128PlusPlus {
	state = nonZero(state)
	return &Xoroshiro128PlusPlus{s0: state[0], s1: state[1]}
}

func (x *Xoroshiro128PlusPlus) Seed(value uint64) {
	state := nonZero(ExpandSeed(value))
	x.s0, x.s1 = state[0], state[1]
}

func (x *Xoroshiro128PlusPlus) Max() uint64 { return ^uint64(0) }

func (x *Xoroshiro128PlusPlus) Next() uint64 {
	s0, s1 := x.s0, x.s1
	result := bits.RotateLeft64(s0+s1, 17) + s0
	s1 ^= s0
	x.s0 = bits.RotateLeft64(s0, 49) ^ s1 ^ (s1 << 21)
	x.s1 = bits.RotateLeft64(s1, 28)
	return result
}

type Xoroshiro128Plus struct {
	s0, s1 uint64
}

func NewXoroshiro128Plus(seed uint64) *Xoroshiro128Plus {
	x := &Xoroshiro128Plus{}
	x.Seed(seed)
	return x
}

func (x *Xoroshiro128Plus) Seed(value uint64) {
	state := nonZero(ExpandSeed(value))
	x.s0, x.s1 = state[0], state[1]
}

func (x *Xoroshiro128Plus) Max() uint64 { return ^uint64(0) }

// Next returns s0+s1. The low bits are weak; prefer the high bits.
func (x *Xoroshiro128Plus) Next() uint64 {
	s0, s1 := x.s0, x.s1
	result := s0 + s1
	x.s0, x.s1 = step24(s0, s1)
	return result
}

type Xoroshiro128StarStar struct {
	s0, s1 uint64
}

func NewXoroshiro128StarStar(seed uint64) *Xoroshiro128StarStar {
	x := &Xoroshiro128StarStar{}
	x.Seed(seed)
	return x
}

func (x *Xoroshiro128StarStar) Seed(value uint64) {
	state := nonZero(ExpandSeed(value))
	x.s0, x.s1 = state[0], state[1]
}

func (x *Xoroshiro128StarStar) Max() uint64 { return ^uint64(0) }

func (x *Xoroshiro128StarStar) Next() uint64 {
	s0, s1 := x.s0, x.s1
	result := bits.RotateLeft64(s0*5, 7) * 9
	x.s0, x.s1 = step24(s0, s1)
	return result
}

// step24 is the 24/16/37 state transition shared by the + and ** scramblers.
func step24(s0, s1 uint64) (uint64, uint64) {
	s1 ^= s0
	return bits.RotateLeft64(s0, 24) ^ s1 ^ (s1 << 16), bits.RotateLeft64(s1, 37)
}

const pcgMultiplier = 6364136223846793005

// PCG32 is the XSH-RR variant with 64-bit state and 32-bit output.
type PCG32 struct {
	state uint64
	inc   uint64
}

func NewPCG32(seed uint64) *PCG32 {
	p := &PCG32{}
	p.Seed(seed)
	return p
}

// Seed expands value into a state word and a stream selector.
func (p *PCG32) Seed(value uint64) {
	state := ExpandSeed(value)
	p.SeedStream(state[0], state[1])
}

// SeedStream seeds the generator with an explicit state and stream.
func (p *PCG32) SeedStream(state, sequence uint64) {
	p.state = 0
	p.inc = sequence<<1 | 1
	p.step()
	p.state += state
	p.step()
}

func (p *PCG32) step() {
	p.state = p.state*pcgMultiplier + p.inc
}

func (p *PCG32) Max() uint64 { return uint64(^uint32(0)) }

func (p *PCG32) Next() uint64 {
	old := p.state
	p.step()
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return uint64(bits.RotateLeft32(xorshifted, -rot))
}
