package engine

import (
	"math/rand"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// Sampling helpers. Every draw takes the run's source explicitly; nothing
// in this package touches the global generator. Draw order is part of the
// determinism contract, so callers never sample inside map iteration.

// chance draws one Bernoulli trial.
func chance(rng *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}

// weightedIndex draws an index proportional to its weight. Weights at or
// below zero never win. A degenerate weight set falls back to the first
// index so the caller always gets a valid pick.
func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	roll := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		roll -= w
		if roll < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// pickPlayer draws from players proportionally to weight(player).
func pickPlayer(rng *rand.Rand, players []model.Player, weight func(model.Player) float64) (model.Player, bool) {
	if len(players) == 0 {
		return model.Player{}, false
	}
	weights := make([]float64, len(players))
	for i, p := range players {
		weights[i] = weight(p)
	}
	return players[weightedIndex(rng, weights)], true
}
