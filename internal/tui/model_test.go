package tui

import (
	"math/rand/v2"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/plexicon/internal/domain"
	"github.com/heartmarshall/plexicon/internal/service/reveal"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type orchMock struct {
	mu      sync.Mutex
	snap    reveal.Snapshot
	starts  []string
	accept  bool
	changed chan struct{}
}

func newOrchMock() *orchMock {
	return &orchMock{accept: true, changed: make(chan struct{}, 1), snap: reveal.Snapshot{Decoys: []string{}}}
}

func (o *orchMock) Start(letter domain.Letter, lang domain.Language) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts = append(o.starts, letter.String()+"/"+lang.String())
	return o.accept
}

func (o *orchMock) Snapshot() reveal.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap
}

func (o *orchMock) Changed() <-chan struct{} { return o.changed }

func (o *orchMock) set(s reveal.Snapshot) {
	o.mu.Lock()
	o.snap = s
	o.mu.Unlock()
}

type statsMock struct {
	rec domain.StatsRecord
}

func (s *statsMock) Snapshot() domain.StatsRecord { return s.rec }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok, "Update must return tui.Model")
	return nm, cmd
}

func newTestModel(orch *orchMock, stats *statsMock) Model {
	m := NewModel(orch, stats, 'P', domain.LanguageSpanish)
	m.rng = rand.New(rand.NewPCG(1, 2))
	m.width, m.height = 120, 40
	return m
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestModel_LetterSelection(t *testing.T) {
	t.Parallel()
	m := newTestModel(newOrchMock(), &statsMock{rec: domain.NewStatsRecord()})

	m, _ = send(t, m, key("right"))
	assert.Equal(t, domain.Letter('Q'), m.letter)
	m, _ = send(t, m, key("left"))
	m, _ = send(t, m, key("h"))
	assert.Equal(t, domain.Letter('O'), m.letter)

	m.letter = 'Z'
	m, _ = send(t, m, key("l"))
	assert.Equal(t, domain.Letter('A'), m.letter, "selection wraps")
	m, _ = send(t, m, key("left"))
	assert.Equal(t, domain.Letter('Z'), m.letter)
}

func TestModel_LanguageCycle(t *testing.T) {
	t.Parallel()
	m := newTestModel(newOrchMock(), &statsMock{rec: domain.NewStatsRecord()})

	var seen []domain.Language
	for range 3 {
		m, _ = send(t, m, key("tab"))
		seen = append(seen, m.lang)
	}
	assert.Equal(t, []domain.Language{domain.LanguageItalian, domain.LanguageEnglish, domain.LanguageSpanish}, seen)
}

func TestModel_SelectionLockedWhileLoading(t *testing.T) {
	t.Parallel()
	orch := newOrchMock()
	m := newTestModel(orch, &statsMock{rec: domain.NewStatsRecord()})
	m.snap = reveal.Snapshot{Phase: reveal.PhaseLoading}

	m, _ = send(t, m, key("right"))
	m, _ = send(t, m, key("tab"))
	assert.Equal(t, domain.Letter('P'), m.letter)
	assert.Equal(t, domain.LanguageSpanish, m.lang)
}

func TestModel_StartKeys(t *testing.T) {
	t.Parallel()
	orch := newOrchMock()
	m := newTestModel(orch, &statsMock{rec: domain.NewStatsRecord()})

	m, _ = send(t, m, key("enter"))
	m, _ = send(t, m, key("right"))
	_, _ = send(t, m, key(" "))

	assert.Equal(t, []string{"P/Spanish", "Q/Spanish"}, orch.starts)
}

func TestModel_QuitKeys(t *testing.T) {
	t.Parallel()

	for _, k := range []string{"q", "esc", "ctrl+c"} {
		m := newTestModel(newOrchMock(), &statsMock{rec: domain.NewStatsRecord()})
		_, cmd := send(t, m, key(k))
		require.NotNil(t, cmd, k)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, "%s should quit", k)
	}
}

func TestModel_AnimationLifecycle(t *testing.T) {
	t.Parallel()
	orch := newOrchMock()
	m := newTestModel(orch, &statsMock{rec: domain.NewStatsRecord()})

	orch.set(reveal.Snapshot{Phase: reveal.PhaseLoading, Animating: true, Decoys: []string{"pera", "pino"}})
	m, cmd := send(t, m, changedMsg{})
	require.NotNil(t, cmd)
	require.Len(t, m.particles, particleCount)
	for _, p := range m.particles {
		assert.Contains(t, []string{"pera", "pino"}, p.text)
	}

	before := m.particles[0].y
	m, cmd = send(t, m, frameMsg{})
	require.NotNil(t, cmd, "frames continue while animating")
	assert.NotEqual(t, before, m.particles[0].y)

	orch.set(reveal.Snapshot{Phase: reveal.PhaseRevealingWord, Word: "Pluma", PartOfSpeech: "Sustantivo", Decoys: []string{"pera"}})
	m, _ = send(t, m, changedMsg{})
	assert.False(t, m.animating)
	assert.Empty(t, m.particles)

	_, cmd = send(t, m, frameMsg{})
	assert.Nil(t, cmd, "frames stop after the animation ends")
}

func TestModel_EmptyDecoysFallBackToLetter(t *testing.T) {
	t.Parallel()
	orch := newOrchMock()
	m := newTestModel(orch, &statsMock{rec: domain.NewStatsRecord()})

	orch.set(reveal.Snapshot{Phase: reveal.PhaseLoading, Animating: true, Decoys: []string{}})
	m, _ = send(t, m, changedMsg{})
	for _, p := range m.particles {
		assert.Equal(t, "P", p.text)
	}
}

func TestModel_LateBatchReplacesFallbackText(t *testing.T) {
	t.Parallel()
	orch := newOrchMock()
	m := newTestModel(orch, &statsMock{rec: domain.NewStatsRecord()})

	orch.set(reveal.Snapshot{Phase: reveal.PhaseLoading, Animating: true, Decoys: []string{}})
	m, _ = send(t, m, changedMsg{})
	require.Len(t, m.particles, particleCount)
	before := append([]particle(nil), m.particles...)

	orch.set(reveal.Snapshot{Phase: reveal.PhaseLoading, Animating: true, Decoys: []string{"pera", "pino"}})
	m, _ = send(t, m, changedMsg{})
	require.Len(t, m.particles, particleCount)
	for i, p := range m.particles {
		assert.Contains(t, []string{"pera", "pino"}, p.text)
		assert.Equal(t, before[i].x, p.x, "particles stay in flight")
		assert.Equal(t, before[i].y, p.y, "particles stay in flight")
	}
}

func TestModel_ViewPhases(t *testing.T) {
	t.Parallel()
	orch := newOrchMock()
	stats := &statsMock{rec: domain.NewStatsRecord()}
	m := newTestModel(orch, stats)

	view := m.View()
	assert.Contains(t, view, "P-LÉXICO")
	assert.Contains(t, view, "Descubre palabras con la P")
	assert.Contains(t, view, "ÚNICAS")
	assert.Contains(t, view, "---", "no top word yet")

	orch.set(reveal.Snapshot{Phase: reveal.PhaseRevealingWord, Word: "Pluma", PartOfSpeech: "Sustantivo", Definition: ""})
	stats.rec = domain.NewStatsRecord().With("Pluma")
	m, _ = send(t, m, changedMsg{})
	view = m.View()
	assert.Contains(t, view, "Pluma")
	assert.Contains(t, view, "SUSTANTIVO")
	assert.NotContains(t, view, "Pieza")

	orch.set(reveal.Snapshot{Phase: reveal.PhaseRevealingDefinition, Word: "Pluma", PartOfSpeech: "Sustantivo", Definition: "Pieza que cubre a las aves."})
	m, _ = send(t, m, changedMsg{})
	view = m.View()
	assert.Contains(t, view, "Pieza que cubre a las aves.")
	assert.Contains(t, view, "Pluma")
}

func TestModel_ViewLabelsFollowLanguage(t *testing.T) {
	t.Parallel()
	m := newTestModel(newOrchMock(), &statsMock{rec: domain.NewStatsRecord()})

	m.lang = domain.LanguageItalian
	view := m.View()
	assert.Contains(t, view, "P-LESSICO")
	assert.Contains(t, view, "TOTALE")
	assert.Contains(t, view, "Inizia")

	m.lang = domain.LanguageEnglish
	m.snap = reveal.Snapshot{Phase: reveal.PhaseLoading}
	view = m.View()
	assert.Contains(t, view, "Finding...")
	assert.Contains(t, view, "UNIQUE")
}
