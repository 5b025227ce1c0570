package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var greetings = [...]string{
	"Your next interview is already scheduled somewhere. Be ready before it is.",
	"Recruiters read a CV in seven seconds. Yours should survive eight.",
	"Practice answers out loud. The mirror doesn't count as a panel.",
	"Every rejection email is feedback with bad formatting.",
	"The role you want has a question you haven't rehearsed yet.",
	"Confidence is a side effect of preparation. There is no shortcut.",
	"Someone with a weaker CV is practicing harder right now.",
	"A mock interview costs credits. A real one can cost the offer.",
}

// printGreeting nudges a signed-out user toward login.
func printGreeting() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2dd4bf")).
		Bold(true).
		Render("I N T E R V I E W P R O")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(`"` + greetings[rand.IntN(len(greetings))] + `"`)

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8890a0")).
		Render("Sign in to get started:")

	cmd := lipgloss.NewStyle().
		Bold(true).
		Render("  interviewpro login")

	alt := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#505868")).
		Render("  interviewpro login --provider google | linkedin | microsoft\n  interviewpro register --name <name> --email <email>")

	fmt.Printf("\n  %s\n\n  %s\n\n  %s\n%s\n%s\n\n", title, quote, hint, cmd, alt)
}

func helpText() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2dd4bf")).
		Bold(true).
		Render("I N T E R V I E W P R O")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	sections := []struct {
		name     string
		commands []struct{ cmd, desc string }
	}{
		{"Account", []struct{ cmd, desc string }{
			{"interviewpro", "Open the dashboard (interactive TUI)"},
			{"interviewpro register", "Create an account"},
			{"interviewpro login", "Sign in with email, or --provider google|linkedin|microsoft"},
			{"interviewpro logout", "Sign out"},
			{"interviewpro whoami", "Show the signed-in user"},
			{"interviewpro profile", "Update name, phone, or city"},
		}},
		{"Preparation", []struct{ cmd, desc string }{
			{"interviewpro roles", "Browse the role catalog"},
			{"interviewpro roles pick 1,2", "Add roles to your profile"},
			{"interviewpro cv upload <file>", "Upload a CV (PDF, DOC, DOCX up to 10 MiB)"},
			{"interviewpro <file>...", "Open the dashboard with the files queued for upload"},
			{"interviewpro cv list", "List uploaded CVs"},
			{"interviewpro cv rm <id>", "Delete a CV"},
			{"interviewpro cv url <id>", "Get a download link (--copy for clipboard)"},
			{"interviewpro interview <role-id>", "Start an AI interview (--cv <id>)"},
			{"interviewpro screening <cv-id>", "Run a CV screening"},
			{"interviewpro persona", "Show your persona (persona compute to refresh)"},
		}},
		{"Credits", []struct{ cmd, desc string }{
			{"interviewpro wallet", "Show balance and recent transactions"},
			{"interviewpro transactions", "Full transaction history"},
			{"interviewpro buy <pack-id>", "Buy a credit pack via UPI"},
		}},
	}

	var b []byte
	b = fmt.Appendf(b, "\n  %s\n", title)
	for _, s := range sections {
		b = fmt.Appendf(b, "\n  %s\n", sectionStyle.Render(s.name))
		for _, c := range s.commands {
			b = fmt.Appendf(b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-34s", c.cmd)), descStyle.Render(c.desc))
		}
	}
	b = fmt.Appendf(b, "\n")
	return string(b)
}
