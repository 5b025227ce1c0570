package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interviewpro/cli/pkg/domain"
)

func newTestApp() App {
	a := NewApp(nil, nil, nil, nil)
	a.width = 80
	a.height = 30
	return a
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"2", viewRoles},
		{"3", viewCVs},
		{"4", viewWallet},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			app := newTestApp()
			model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tc.key)})
			a := model.(App)
			if a.view != tc.wantView {
				t.Errorf("after key %q: expected view=%d, got %d", tc.key, tc.wantView, a.view)
			}
		})
	}
}

func TestAppGlobalQuitOnQ(t *testing.T) {
	a := newTestApp()
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
}

func TestAppViewRendersTabBar(t *testing.T) {
	a := newTestApp()
	model, _ := a.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	a = model.(App)

	view := a.View()
	for _, tab := range []string{"Home", "Roles", "CVs", "Wallet"} {
		if !strings.Contains(view, tab) {
			t.Errorf("expected %q tab in app view, got:\n%s", tab, view)
		}
	}
}

func TestAppMeLoadedShowsIdentity(t *testing.T) {
	a := newTestApp()
	me := &domain.Me{
		User:          domain.User{ID: 1, Name: "Priya", Email: "p@x.com"},
		WalletBalance: 40,
	}

	model, _ := a.Update(meLoadedMsg{me: me})
	a = model.(App)

	if a.me == nil {
		t.Fatal("expected a.me to be set after meLoadedMsg")
	}
	view := a.View()
	if !strings.Contains(view, "Priya") {
		t.Errorf("expected user name in header, got:\n%s", view)
	}
	if !strings.Contains(view, "40 cr") {
		t.Errorf("expected credit balance in header, got:\n%s", view)
	}
}

func TestAppSessionExpiredQuits(t *testing.T) {
	a := newTestApp()
	model, cmd := a.Update(SessionExpiredMsg{})
	a = model.(App)
	if cmd == nil {
		t.Fatal("expected quit command on session expiry")
	}
	if !a.SessionExpired() {
		t.Error("SessionExpired() = false after SessionExpiredMsg")
	}
}

func TestAppLayoutFitsTerminal(t *testing.T) {
	termHeight := 30
	a := newTestApp()
	model, _ := a.Update(tea.WindowSizeMsg{Width: 80, Height: termHeight})
	a = model.(App)
	a.me = &domain.Me{User: domain.User{Name: "Priya", Email: "p@x.com"}, WalletBalance: 10}
	a.home.loading = false
	a.home.me = a.me

	view := a.View()
	lines := strings.Split(view, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > termHeight {
		t.Errorf("App.View() has %d lines, terminal is %d", len(lines), termHeight)
		for i, line := range lines {
			t.Logf("  %2d: %q", i, line)
		}
	}
}
