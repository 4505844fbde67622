// Package services: services/providers.go
package services

import (
	"math/rand"
	"sync"
	"time"
)

// RecognitionProvider drives the simulated scan.
type RecognitionProvider interface {
	// NextIncrement returns the progress added by one tick, in [5, 15).
	NextIncrement() int
	// PickIndex returns a uniform index in [0, n). n is always > 0.
	PickIndex(n int) int
}

// AnalysisProvider produces the simulated VAR confidence.
type AnalysisProvider interface {
	// Confidence returns a value in [0.70, 1.00).
	Confidence() float64
}

// DetectionProvider supplies the jitter for overlay placement.
type DetectionProvider interface {
	// Jitter returns a uniform value in [0, 1).
	Jitter() float64
}

// SimulatedProvider implements every provider over one seeded source.
type SimulatedProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedProvider seeds the source; seed 0 seeds from the clock.
func NewSimulatedProvider(seed int64) *SimulatedProvider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimulatedProvider{rng: rand.New(rand.NewSource(seed))}
}

func (p *SimulatedProvider) NextIncrement() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return 5 + p.rng.Intn(10)
}

func (p *SimulatedProvider) PickIndex(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

func (p *SimulatedProvider) Confidence() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return 0.7 + p.rng.Float64()*0.3
}

func (p *SimulatedProvider) Jitter() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64()
}
