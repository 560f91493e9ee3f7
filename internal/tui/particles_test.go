package tui

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpawnParticles_StartAboveCanvas(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(7, 7))

	ps := spawnParticles(rng, particleCount, []string{"uno", "dos"}, "U")
	assert.Len(t, ps, particleCount)
	for _, p := range ps {
		assert.Less(t, p.y, 0.0)
		assert.GreaterOrEqual(t, p.x, 0.0)
		assert.Less(t, p.x, 1.0)
		assert.Greater(t, p.speed, 0.0)
	}
}

func TestStepParticles_RespawnsBelowEdge(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 1))

	ps := []particle{{text: "gone", y: 1.19, speed: 1}, {text: "stay", y: 0.2, speed: 0.5}}
	next := stepParticles(rng, ps, 0.1, []string{"new"}, "N")

	assert.Equal(t, "new", next[0].text)
	assert.Less(t, next[0].y, 0.0)
	assert.Equal(t, "stay", next[1].text)
	assert.InDelta(t, 0.25, next[1].y, 1e-9)
	assert.InDelta(t, 1.19, ps[0].y, 1e-9, "input slice is not mutated")
}

func TestRenderParticles(t *testing.T) {
	t.Parallel()

	ps := []particle{
		{text: "año", x: 0, y: 0},
		{text: "fin", x: 1, y: 0.5},
		{text: "hidden", x: 0.5, y: -0.2},
		{text: "toolongforthecanvas", x: 0, y: 0.75},
	}
	out := renderParticles(ps, 10, 4)
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 4)
	assert.Equal(t, "año       ", lines[0])
	assert.Equal(t, "          ", lines[1])
	assert.Equal(t, "       fin", lines[2])
	assert.Equal(t, "          ", lines[3])
	assert.Empty(t, renderParticles(ps, 0, 4))
}
