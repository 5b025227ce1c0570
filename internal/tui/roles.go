package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interviewpro/cli/pkg/client"
	"github.com/interviewpro/cli/pkg/domain"
)

type rolesLoadedMsg struct {
	catalog  []domain.Role
	selected []domain.RoleSelection
	err      error
}

type roleSelectedMsg struct {
	err error
}

// rolesModel shows the role catalog with the user's selections marked.
type rolesModel struct {
	client   *client.Client
	catalog  []domain.Role
	selected map[int]bool // role ID -> picked
	cursor   int
	loading  bool
	err      string
	notice   string
	width    int
	height   int
}

func newRolesModel(c *client.Client) rolesModel {
	return rolesModel{client: c, selected: map[int]bool{}}
}

func (m rolesModel) Init() tea.Cmd {
	return m.load()
}

func (m rolesModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx := context.Background()
		catalog, err := c.ListRoles(ctx)
		if err != nil {
			return rolesLoadedMsg{err: err}
		}
		selected, err := c.MyRoles(ctx)
		if err != nil {
			return rolesLoadedMsg{err: err}
		}
		return rolesLoadedMsg{catalog: catalog, selected: selected}
	}
}

func (m rolesModel) selectRole(id int) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		return roleSelectedMsg{err: c.SelectRoles(context.Background(), []int{id})}
	}
}

func (m rolesModel) Update(msg tea.Msg) (rolesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case rolesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = client.Detail(msg.err)
			return m, nil
		}
		m.err = ""
		m.catalog = msg.catalog
		m.selected = map[int]bool{}
		for _, s := range msg.selected {
			m.selected[s.RoleID] = true
		}
		if m.cursor >= len(m.catalog) {
			m.cursor = 0
		}

	case roleSelectedMsg:
		if msg.err != nil {
			m.notice = errStyle.Render(client.Detail(msg.err))
			return m, nil
		}
		m.notice = okStyle.Render("role added")
		return m, m.load()

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.catalog)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter", "s":
			if m.cursor < len(m.catalog) {
				role := m.catalog[m.cursor]
				if !m.selected[role.ID] {
					return m, m.selectRole(role.ID)
				}
				m.notice = dimStyle.Render("already selected")
			}
		case "r":
			m.loading = true
			return m, m.load()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m rolesModel) View() string {
	if m.loading && len(m.catalog) == 0 {
		return " " + dimStyle.Render("loading roles...")
	}
	if m.err != "" {
		return " " + errStyle.Render("error: "+m.err)
	}
	if len(m.catalog) == 0 {
		return " " + dimStyle.Render("no roles available")
	}

	var sb strings.Builder
	sb.WriteString("\n")
	for i, role := range m.catalog {
		mark := metaStyle.Render("·")
		if m.selected[role.ID] {
			mark = okStyle.Render("✓")
		}
		title := normalStyle.Render(truncStr(role.Title, 40))
		if i == m.cursor {
			title = selectedRowBg.Render(selectedStyle.Render(truncStr(role.Title, 40)))
		}
		tags := ""
		for _, t := range role.Tags {
			tags += " " + tagStyle(t).Render(t)
		}
		sb.WriteString(fmt.Sprintf(" %s %s%s\n", mark, title, tags))
		if i == m.cursor && role.Description != "" {
			sb.WriteString("   " + dimStyle.Render(truncStr(role.Description, m.width-4)) + "\n")
		}
	}
	if m.notice != "" {
		sb.WriteString("\n " + m.notice + "\n")
	}
	return sb.String()
}
