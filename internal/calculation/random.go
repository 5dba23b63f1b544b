package calculation

import "math/rand/v2"

// trialRNG returns the generator for one trial. The stream depends only on
// the run seed and the trial index, never on global state, so any trial can
// be replayed on its own.
func trialRNG(seed uint64, trialIndex int) *rand.Rand {
	return rand.New(rand.NewPCG(splitmix64(seed), splitmix64(uint64(trialIndex)^0x9e3779b97f4a7c15)))
}

// splitmix64 scrambles a 64-bit value so adjacent inputs give unrelated seeds
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
