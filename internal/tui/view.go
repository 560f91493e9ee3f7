package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/heartmarshall/plexicon/internal/service/reveal"
)

const (
	cardWidth       = 56
	minCanvasHeight = 8
	chromeHeight    = 12 // title, selectors, button, stats, help
)

type styles struct {
	title     lipgloss.Style
	subtitle  lipgloss.Style
	selector  lipgloss.Style
	selected  lipgloss.Style
	particle  lipgloss.Style
	pos       lipgloss.Style
	word      lipgloss.Style
	def       lipgloss.Style
	hint      lipgloss.Style
	button    lipgloss.Style
	busy      lipgloss.Style
	statBox   lipgloss.Style
	statLabel lipgloss.Style
	statValue lipgloss.Style
	help      lipgloss.Style
}

func newStyles() styles {
	accent := lipgloss.Color("#A78BFA")
	dim := lipgloss.Color("241")
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		subtitle:  lipgloss.NewStyle().Foreground(dim),
		selector:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(dim).Padding(0, 1),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		particle:  lipgloss.NewStyle().Foreground(lipgloss.Color("239")),
		pos:       lipgloss.NewStyle().Foreground(accent).Italic(true),
		word:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		def:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(cardWidth - 4).Align(lipgloss.Center),
		hint:      lipgloss.NewStyle().Foreground(dim).Italic(true),
		button:    lipgloss.NewStyle().Bold(true).Padding(0, 3).Background(accent).Foreground(lipgloss.Color("#1E1E2E")),
		busy:      lipgloss.NewStyle().Padding(0, 3).Background(lipgloss.Color("238")).Foreground(lipgloss.Color("250")),
		statBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Width(16).Align(lipgloss.Center),
		statLabel: lipgloss.NewStyle().Foreground(dim),
		statValue: lipgloss.NewStyle().Bold(true),
		help:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

var st = newStyles()

// View renders the whole screen.
func (m Model) View() string {
	lb := labelsFor(m.lang)

	header := lipgloss.JoinVertical(lipgloss.Center,
		st.title.Render(lb.title),
		st.subtitle.Render(lb.subtitle),
	)

	selectors := lipgloss.JoinHorizontal(lipgloss.Center,
		st.selector.Render(fmt.Sprintf("%s  ‹ %s ›", lb.letter, st.selected.Render(m.letter.String()))),
		"  ",
		st.selector.Render(fmt.Sprintf("%s  %s", lb.language, st.selected.Render(m.lang.String()))),
	)

	button := st.button.Render(lb.start)
	if m.loading() {
		button = st.busy.Render(lb.loading)
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		header,
		"",
		selectors,
		m.canvas(lb),
		button,
		"",
		m.statsFooter(lb),
		st.help.Render("←/→ letter · tab language · enter start · q quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) canvasSize() (int, int) {
	w := m.width - 4
	if w > 2*cardWidth {
		w = 2 * cardWidth
	}
	if w < cardWidth {
		w = cardWidth
	}
	h := m.height - chromeHeight
	if h < minCanvasHeight {
		h = minCanvasHeight
	}
	return w, h
}

// canvas shows falling words while animating, otherwise the word card.
func (m Model) canvas(lb labels) string {
	w, h := m.canvasSize()
	if m.animating && len(m.particles) > 0 {
		return st.particle.Render(renderParticles(m.particles, w, h))
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.card(lb))
}

func (m Model) card(lb labels) string {
	snap := m.snap
	if !snap.Phase.WordVisible() {
		if snap.Phase == reveal.PhaseLoading {
			return st.hint.Render(lb.loading)
		}
		return st.hint.Render(lb.placeholderFor(m.letter))
	}

	lines := []string{
		st.pos.Render(strings.ToUpper(snap.PartOfSpeech)),
		st.word.Render(snap.Word),
		"",
	}
	if snap.Phase == reveal.PhaseRevealingDefinition {
		lines = append(lines, st.def.Render(snap.Definition))
	} else {
		lines = append(lines, st.hint.Render("…"))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m Model) statsFooter(lb labels) string {
	top := "---"
	if word, _, ok := m.record.Top(); ok {
		top = word
	}
	box := func(label, value string) string {
		return st.statBox.Render(lipgloss.JoinVertical(lipgloss.Center,
			st.statLabel.Render(strings.ToUpper(label)),
			st.statValue.Render(truncateRunes(value, 14)),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		box(lb.total, fmt.Sprint(m.record.TotalGenerated)),
		box(lb.unique, fmt.Sprint(m.record.UniqueCount)),
		box(lb.top, top),
	)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
