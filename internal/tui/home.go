package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interviewpro/cli/pkg/client"
	"github.com/interviewpro/cli/pkg/domain"
)

type personaLoadedMsg struct {
	persona *domain.Persona
	err     error
}

// homeModel shows the signed-in user at a glance: profile, wallet balance,
// and the computed persona when one exists.
type homeModel struct {
	client  *client.Client
	me      *domain.Me
	persona *domain.Persona
	loading bool
	err     string
	width   int
	height  int
}

func newHomeModel(c *client.Client) homeModel {
	return homeModel{client: c, loading: true}
}

func (m homeModel) Init() tea.Cmd {
	return m.loadPersona()
}

func (m homeModel) loadPersona() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		p, err := c.Persona(context.Background())
		return personaLoadedMsg{persona: p, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case meLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Detail(msg.err)
		} else {
			m.me = msg.me
			m.err = ""
		}

	case personaLoadedMsg:
		// A 404 just means no persona has been computed yet.
		if msg.err == nil {
			m.persona = msg.persona
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, m.loadPersona()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m homeModel) View() string {
	if m.loading {
		return " " + dimStyle.Render("loading profile...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}
	if m.me == nil {
		return " " + dimStyle.Render("no profile loaded")
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(" " + selectedStyle.Render(m.me.User.Name) + "  " + dimStyle.Render(m.me.User.Email) + "\n")

	details := []string{}
	if m.me.User.City != "" {
		details = append(details, m.me.User.City)
	}
	if m.me.User.Phone != "" {
		details = append(details, m.me.User.Phone)
	}
	if len(details) > 0 {
		sb.WriteString(" " + metaStyle.Render(strings.Join(details, " · ")) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(" " + dimStyle.Render("wallet") + "  " + creditStyle.Render(fmt.Sprintf("%d credits", m.me.WalletBalance)) + "\n")

	if m.persona != nil && len(m.persona.Skills) > 0 {
		sb.WriteString("\n " + dimStyle.Render("persona skills") + "\n")
		line := " "
		for _, s := range m.persona.Skills {
			chip := tagStyle(strings.ToLower(s)).Render(s)
			line += chip + "  "
		}
		sb.WriteString(truncStr(line, max(m.width-2, 20)) + "\n")
	}

	sb.WriteString("\n " + metaStyle.Render("run `interviewpro help` for the full command list") + "\n")
	return sb.String()
}
