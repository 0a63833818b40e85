// Package selector chooses which strategy to consult next, weighting the
// draw by historical performance while keeping every strategy eligible.
package selector

import (
	"errors"
	"math/rand"
	"time"
)

// ErrEmptyRegistry is returned when no strategies are registered.
// This is a configuration fault and should abort startup.
var ErrEmptyRegistry = errors.New("strategy registry is empty")

// neutralScore keeps strategies without recorded history eligible so
// early winners never starve untested ones.
const neutralScore = 0.5

// Selector performs weighted-random strategy selection, falling back to
// plain rotation while no strategy has any recorded history. It owns its
// rotation cursor explicitly; construct one per run.
type Selector struct {
	registry []string
	cursor   int
	rng      *rand.Rand
}

// New builds a Selector over the registration-ordered identifiers.
// A nil rng gets a time-seeded source; tests inject a fixed seed.
func New(registry []string, rng *rand.Rand) (*Selector, error) {
	if len(registry) == 0 {
		return nil, ErrEmptyRegistry
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{registry: append([]string(nil), registry...), rng: rng}, nil
}

// Next returns the identifier of the strategy to consult. With no scores
// at all it rotates through the registry; otherwise it draws with
// probability proportional to each strategy's score, substituting the
// neutral default for strategies absent from the map.
func (s *Selector) Next(scores map[string]float64) string {
	if len(scores) == 0 {
		id := s.registry[s.cursor]
		s.cursor = (s.cursor + 1) % len(s.registry)
		return id
	}

	weights := make([]float64, len(s.registry))
	var total float64
	for i, id := range s.registry {
		w, ok := scores[id]
		if !ok || w <= 0 {
			w = neutralScore
			if ok {
				// Recorded but hopeless strategies keep a nominal chance.
				w = 0.05
			}
		}
		weights[i] = w
		total += w
	}

	r := s.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return s.registry[i]
		}
	}
	return s.registry[len(s.registry)-1]
}

// Registry returns the registration-ordered identifiers
func (s *Selector) Registry() []string {
	return append([]string(nil), s.registry...)
}
