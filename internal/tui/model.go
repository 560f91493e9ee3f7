// Package tui is the terminal front end: pick a letter and a language,
// watch decoy words fall, then read the discovered word and its definition.
package tui

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/service/reveal"
)

const frameInterval = 80 * time.Millisecond

// Orchestrator drives reveal cycles.
type Orchestrator interface {
	Start(letter domain.Letter, lang domain.Language) bool
	Snapshot() reveal.Snapshot
	Changed() <-chan struct{}
}

// StatsSource exposes the persisted usage counters.
type StatsSource interface {
	Snapshot() domain.StatsRecord
}

// Model is the bubbletea model for a play session.
type Model struct {
	orch  Orchestrator
	stats StatsSource
	rng   *rand.Rand

	width, height int
	letter        domain.Letter
	lang          domain.Language

	snap      reveal.Snapshot
	record    domain.StatsRecord
	particles []particle
	animating bool
}

// changedMsg is sent after the orchestrator reports a state change.
type changedMsg struct{}

// frameMsg advances the falling-words animation.
type frameMsg time.Time

// NewModel creates a Model with the given initial selection.
func NewModel(orch Orchestrator, stats StatsSource, letter domain.Letter, lang domain.Language) Model {
	if !letter.IsValid() {
		letter = domain.DefaultLetter
	}
	if !lang.IsValid() {
		lang = domain.DefaultLanguage
	}
	seed := uint64(time.Now().UnixNano())
	return Model{
		orch:   orch,
		stats:  stats,
		rng:    rand.New(rand.NewPCG(seed, seed>>1)),
		width:  80,
		height: 24,
		letter: letter,
		lang:   lang,
		snap:   orch.Snapshot(),
		record: stats.Snapshot(),
	}
}

// Init starts listening for orchestrator changes.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.orch)
}

func waitForChange(orch Orchestrator) tea.Cmd {
	ch := orch.Changed()
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Update handles keys, resizes, orchestrator changes and animation frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case changedMsg:
		return m.handleChange()

	case frameMsg:
		if !m.animating {
			m.particles = nil
			return m, nil
		}
		m.particles = stepParticles(m.rng, m.particles, frameInterval.Seconds(), m.snap.Decoys, m.letter.String())
		return m, nextFrame()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit

	case "left", "h":
		if !m.loading() {
			m.letter = m.letter.Prev()
		}

	case "right", "l":
		if !m.loading() {
			m.letter = m.letter.Next()
		}

	case "tab":
		if !m.loading() {
			m.lang = m.lang.Next()
		}

	case "enter", " ", "space":
		m.orch.Start(m.letter, m.lang)
	}
	return m, nil
}

func (m Model) handleChange() (tea.Model, tea.Cmd) {
	prev := m.snap.Decoys
	m.snap = m.orch.Snapshot()
	m.record = m.stats.Snapshot()

	cmds := []tea.Cmd{waitForChange(m.orch)}
	switch {
	case m.snap.Animating && !m.animating:
		m.particles = spawnParticles(m.rng, particleCount, m.snap.Decoys, m.letter.String())
		cmds = append(cmds, nextFrame())
	case m.snap.Animating && !slices.Equal(prev, m.snap.Decoys):
		m.particles = retextParticles(m.rng, m.particles, m.snap.Decoys, m.letter.String())
	case !m.snap.Animating:
		m.particles = nil
	}
	m.animating = m.snap.Animating
	return m, tea.Batch(cmds...)
}

func (m Model) loading() bool {
	return m.snap.Phase == reveal.PhaseLoading
}

// Run blocks until the user quits or ctx is cancelled. Cancellation is not
// an error.
func Run(ctx context.Context, orch Orchestrator, stats StatsSource, letter domain.Letter, lang domain.Language) error {
	p := tea.NewProgram(NewModel(orch, stats, letter, lang), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
