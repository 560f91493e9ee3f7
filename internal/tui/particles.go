package tui

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

// particleCount is how many words fall at once.
const particleCount = 25

// particle is one falling word. x and y are fractions of the canvas; y
// starts above the top edge.
type particle struct {
	text  string
	x, y  float64
	drift float64 // horizontal fraction per second
	speed float64 // canvas heights per second
}

// spawnParticles draws texts from decoys, or the fallback when the batch is
// empty.
func spawnParticles(rng *rand.Rand, n int, decoys []string, fallback string) []particle {
	out := make([]particle, n)
	for i := range out {
		out[i] = newParticle(rng, decoys, fallback)
	}
	return out
}

func newParticle(rng *rand.Rand, decoys []string, fallback string) particle {
	text := fallback
	if len(decoys) > 0 {
		if t := decoys[rng.IntN(len(decoys))]; t != "" {
			text = t
		}
	}
	velocity := 1 + rng.Float64()*2
	return particle{
		text:  text,
		x:     rng.Float64(),
		y:     -0.1 - rng.Float64()*0.5,
		drift: (rng.Float64() - 0.5) * 0.05,
		speed: 1.2 / (velocity + 1.5),
	}
}

// retextParticles keeps every particle in flight and redraws its text from a
// new batch.
func retextParticles(rng *rand.Rand, ps []particle, decoys []string, fallback string) []particle {
	out := make([]particle, len(ps))
	for i, p := range ps {
		p.text = newParticle(rng, decoys, fallback).text
		out[i] = p
	}
	return out
}

// stepParticles advances every particle by dt seconds and respawns those
// that left the bottom edge.
func stepParticles(rng *rand.Rand, ps []particle, dt float64, decoys []string, fallback string) []particle {
	out := make([]particle, len(ps))
	for i, p := range ps {
		p.y += p.speed * dt
		p.x += p.drift * dt
		if p.y > 1.2 {
			p = newParticle(rng, decoys, fallback)
		}
		out[i] = p
	}
	return out
}

// renderParticles rasterizes particles onto a width x height grid.
func renderParticles(ps []particle, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range ps {
		row := int(p.y * float64(height))
		if row < 0 || row >= height {
			continue
		}
		n := utf8.RuneCountInString(p.text)
		span := width - n
		if span < 0 {
			continue
		}
		col := int(clamp01(p.x) * float64(span))
		for i, r := range []rune(p.text) {
			grid[row][col+i] = r
		}
	}

	lines := make([]string, height)
	for r, line := range grid {
		lines[r] = string(line)
	}
	return strings.Join(lines, "\n")
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
