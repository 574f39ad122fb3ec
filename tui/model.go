// Package tui plays a bracket in the terminal: pick a winner for each
// match until a champion remains, then browse the final rankings.
package tui

import (
	"fmt"
	"strings"

	"github.com/Dosada05/versusite/brackets"
	"github.com/Dosada05/versusite/catalog"
	"github.com/Dosada05/versusite/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenBattle screen = iota
	screenResults
)

// Model is the bubbletea model of one tournament run.
type Model struct {
	generator  *brackets.SingleEliminationGenerator
	tournament models.Tournament
	screen     screen
	cursor     int // 0 - левый кандидат, 1 - правый
	err        error
	width      int
}

func New(generator *brackets.SingleEliminationGenerator, t models.Tournament) Model {
	m := Model{generator: generator, tournament: t}
	if t.Completed {
		m.screen = screenResults
	}
	return m
}

// Tournament returns the latest snapshot.
func (m Model) Tournament() models.Tournament {
	return m.tournament
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		if m.screen == screenResults {
			return m.updateResults(msg)
		}
		return m.updateBattle(msg)
	}
	return m, nil
}

func (m Model) updateBattle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.cursor = 0
	case "right", "l":
		m.cursor = 1
	case "tab":
		m.cursor = 1 - m.cursor
	case "1":
		return m.pick(0), nil
	case "2":
		return m.pick(1), nil
	case "enter", " ":
		return m.pick(m.cursor), nil
	}
	return m, nil
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "r" {
		return m, nil
	}
	// новая сетка из тех же кандидатов
	t, err := m.generator.CreateTournament(m.tournament.Title, m.tournament.Items)
	if err != nil {
		m.err = err
		return m, nil
	}
	return New(m.generator, t), nil
}

func (m Model) pick(slot int) Model {
	match := brackets.NextMatch(&m.tournament)
	if match == nil {
		return m
	}
	winner := match.SlotA
	if slot == 1 {
		winner = match.SlotB
	}

	next, err := m.generator.ResolveMatch(m.tournament, match.ID, *winner)
	if err != nil {
		m.err = err
		return m
	}

	m.tournament = next
	m.cursor = 0
	m.err = nil
	if next.Completed {
		m.screen = screenResults
	}
	return m
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.tournament.Title))
	b.WriteString("\n")

	if m.screen == screenResults {
		b.WriteString(m.resultsView())
	} else {
		b.WriteString(m.battleView())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	return b.String()
}

func (m Model) battleView() string {
	match := brackets.NextMatch(&m.tournament)
	if match == nil {
		return subtitleStyle.Render("waiting for the next round")
	}

	round := m.tournament.CurrentRound()
	played, playable := 0, 0
	for _, rm := range round {
		if rm.IsBye() {
			continue
		}
		playable++
		if rm.Winner != nil {
			played++
		}
	}

	status := fmt.Sprintf("Round %d of %d · Match %d of %d",
		m.tournament.CurrentRoundIndex+1, totalRounds(len(m.tournament.Items)), played+1, playable)

	left := renderCard(*match.SlotA, m.cursor == 0)
	right := renderCard(*match.SlotB, m.cursor == 1)
	cards := lipgloss.JoinHorizontal(lipgloss.Center, left, versusStyle.Render("VS"), right)

	return lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render(status),
		cards,
		helpStyle.Render("←/→ choose · enter pick · 1/2 pick directly · q quit"),
	)
}

func (m Model) resultsView() string {
	var b strings.Builder
	if m.tournament.Winner != nil {
		b.WriteString(championStyle.Render("Champion: " + m.tournament.Winner.DisplayName()))
		b.WriteString("\n\n")
	}
	for _, s := range brackets.Rankings(m.tournament) {
		rank := "-"
		if !s.Undetermined {
			rank = fmt.Sprintf("#%d", s.Rank)
		}
		b.WriteString(rankStyle.Render(rank))
		b.WriteString(" ")
		b.WriteString(s.Item.DisplayName())
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("r play again · q quit"))
	return b.String()
}

func renderCard(item models.Item, selected bool) string {
	body := item.DisplayName()
	switch item.Type {
	case models.ItemTypeVideoLink:
		if id, ok := catalog.VideoID(item.Content); ok {
			body += "\n" + badgeStyle.Render("video") + " youtu.be/" + id
		} else {
			body += "\n" + badgeStyle.Render("video")
		}
	case models.ItemTypeImage:
		body += "\n" + badgeStyle.Render("image")
		if item.Label != "" {
			body += " " + item.Content
		}
	}

	if selected {
		return selectedCardStyle.Render(body)
	}
	return cardStyle.Render(body)
}

// totalRounds is the number of rounds a bracket of n items plays.
func totalRounds(n int) int {
	rounds := 0
	for n > 1 {
		n = (n + 1) / 2
		rounds++
	}
	return rounds
}
