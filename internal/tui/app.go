package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/interviewpro/cli/internal/uploader"
	"github.com/interviewpro/cli/pkg/client"
	"github.com/interviewpro/cli/pkg/domain"
)

type view int

const (
	viewHome view = iota
	viewRoles
	viewCVs
	viewWallet
)

// meLoadedMsg carries the result of Me.
type meLoadedMsg struct {
	me  *domain.Me
	err error
}

// SessionExpiredMsg tells the app the API rejected the stored token. The
// command layer sends it from the client's expiry callback.
type SessionExpiredMsg struct{}

// UploadProgressMsg carries one upload task snapshot into the CVs tab.
type UploadProgressMsg struct {
	Task uploader.Task
}

// App is the root Bubbletea model.
type App struct {
	client *client.Client
	view   view
	home   homeModel
	roles  rolesModel
	cvs    cvsModel
	wallet walletModel

	me             *domain.Me
	sessionExpired bool
	width          int
	height         int
}

// NewApp creates the TUI application. pendingUploads are file paths queued
// before launch (interviewpro with file arguments); their progress arrives
// on updates.
func NewApp(c *client.Client, up *uploader.Uploader, pendingUploads []string, updates <-chan uploader.Task) App {
	return App{
		client: c,
		home:   newHomeModel(c),
		roles:  newRolesModel(c),
		cvs:    newCVsModel(c, up, pendingUploads, updates),
		wallet: newWalletModel(c),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.home.Init(), a.cvs.Init(), a.loadMe())
}

func (a App) loadMe() tea.Cmd {
	c := a.client
	return func() tea.Msg {
		me, err := c.Me(context.Background())
		return meLoadedMsg{me: me, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.home, _ = a.home.Update(bodyMsg)
		a.roles, _ = a.roles.Update(bodyMsg)
		a.cvs, _ = a.cvs.Update(bodyMsg)
		a.wallet, _ = a.wallet.Update(bodyMsg)

	case meLoadedMsg:
		if msg.err == nil && msg.me != nil {
			a.me = msg.me
		}
		a.home, _ = a.home.Update(msg)
		return a, nil

	case SessionExpiredMsg:
		a.sessionExpired = true
		return a, tea.Quit

	case UploadProgressMsg:
		var cmd tea.Cmd
		a.cvs, cmd = a.cvs.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "1":
			if a.view != viewHome {
				a.view = viewHome
				return a, a.home.Init()
			}
			return a, nil
		case "2":
			if a.view != viewRoles {
				a.view = viewRoles
				return a, a.roles.Init()
			}
			return a, nil
		case "3":
			if a.view != viewCVs {
				a.view = viewCVs
				return a, a.cvs.load()
			}
			return a, nil
		case "4":
			if a.view != viewWallet {
				a.view = viewWallet
				return a, a.wallet.Init()
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewRoles:
		a.roles, cmd = a.roles.Update(msg)
	case viewCVs:
		a.cvs, cmd = a.cvs.Update(msg)
	case viewWallet:
		a.wallet, cmd = a.wallet.Update(msg)
	}
	return a, cmd
}

// SessionExpired reports whether the app quit because the API rejected the
// stored token. The command layer checks it after Run to print the re-login
// hint.
func (a App) SessionExpired() bool {
	return a.sessionExpired
}

func (a App) View() string {
	// Header: logo left, identity right
	logo := titleStyle.Render("INTERVIEWPRO")
	identity := ""
	if a.me != nil {
		identity = normalStyle.Render(a.me.User.Name) + "  " +
			creditStyle.Render(fmt.Sprintf("%d cr", a.me.WalletBalance))
	}
	gap := a.width - lipgloss.Width(logo) - lipgloss.Width(identity) - 2
	if gap < 1 {
		gap = 1
	}
	header := " " + logo + strings.Repeat(" ", gap) + identity + "\n"

	// Tab bar: 4 equal-width columns spread across the terminal
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Home", viewHome},
		{"2", "Roles", viewRoles},
		{"3", "CVs", viewCVs},
		{"4", "Wallet", viewWallet},
	}
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		if t.v == viewCVs {
			if n := a.cvs.activeUploads(); n > 0 {
				label += " " + warnStyle.Render(fmt.Sprintf("↑%d", n))
			}
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body string
	var help string
	switch a.view {
	case viewHome:
		body = a.home.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
	case viewRoles:
		body = a.roles.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "select role") + "  " + helpEntry("q", "quit")
	case viewCVs:
		body = a.cvs.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("d", "delete") + "  " + helpEntry("x", "dismiss done") + "  " + helpEntry("q", "quit")
	case viewWallet:
		body = a.wallet.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("q", "quit")
	}

	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s%s\n%s\n%s", header, tabBar.String(), body, help)
}
