// Package gaussian provides a Box-Muller Gaussian sampler, the Go
// equivalent of DFLib::Util::gaussian_random_generator, which
// testlsDF_ll.cpp uses to perturb true bearings into synthetic noisy
// observations for a worked example. Like package dms, this is ambient
// test/driver tooling, not part of the estimation core; no third-party RNG
// library fits this purpose any better, so it is built on math/rand.
package gaussian

import (
	"math"
	"math/rand"
)

// Generator samples from a fixed normal distribution using the polar
// Box-Muller transform. The zero value is not usable; construct with New.
type Generator struct {
	mean   float64
	stddev float64
	rng    *rand.Rand

	haveSpare bool
	spare     float64
}

// New constructs a Generator sampling N(mean, stddev^2), seeded with a
// value drawn from the global math/rand source, so the sequence differs
// from run to run.
func New(mean, stddev float64) *Generator {
	return &Generator{
		mean:   mean,
		stddev: stddev,
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
}

// NewWithSeed constructs a Generator with an explicit seed, for
// reproducible tests.
func NewWithSeed(mean, stddev float64, seed int64) *Generator {
	return &Generator{
		mean:   mean,
		stddev: stddev,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Sample draws one value from the generator's distribution. The polar
// Box-Muller transform produces two independent standard-normal deviates
// per pair of uniform draws; the second is cached and returned on the next
// call, halving the number of uniform draws needed on average.
func (g *Generator) Sample() float64 {
	if g.haveSpare {
		g.haveSpare = false
		return g.mean + g.stddev*g.spare
	}

	var u, v, s float64
	for {
		u = 2*g.rng.Float64() - 1
		v = 2*g.rng.Float64() - 1
		s = u*u + v*v
		if s > 0 && s < 1 {
			break
		}
	}

	factor := math.Sqrt(-2 * math.Log(s) / s)
	g.spare = v * factor
	g.haveSpare = true
	return g.mean + g.stddev*(u*factor)
}
