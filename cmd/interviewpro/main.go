package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/interviewpro/cli/internal/config"
	"github.com/interviewpro/cli/internal/logging"
	"github.com/interviewpro/cli/internal/session"
	"github.com/interviewpro/cli/internal/tui"
	"github.com/interviewpro/cli/internal/uploader"
	"github.com/interviewpro/cli/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if _, err := logging.Init(dir, cfg.LogLevel); err != nil {
		return err
	}

	sessions, err := session.NewFileStore(filepath.Join(dir, "session.json"))
	if err != nil {
		return err
	}
	c := client.New(cfg.APIURL, sessions)
	c.SetHTTPClient(httpClientWithTimeout(time.Duration(cfg.Timeout)))

	if len(os.Args) > 1 {
		// `interviewpro resume.pdf cover.docx` opens the dashboard with
		// the files queued for upload.
		if paths, ok := uploadPaths(os.Args[1:]); ok {
			return launchTUI(c, cfg, sessions, paths)
		}

		c.OnSessionExpired(func() {
			fmt.Fprintln(os.Stderr, "Your session has expired. Run `interviewpro login` to sign in again.")
		})

		cmd, args := os.Args[1], os.Args[2:]
		switch cmd {
		case "--version", "version", "-v":
			fmt.Println("interviewpro " + version)
			return nil
		case "help", "--help", "-h":
			fmt.Print(helpText())
			return nil
		case "register":
			return runRegister(c, args)
		case "login":
			return runLogin(c, args)
		case "logout":
			return runLogout(c, sessions)
		case "whoami":
			return runWhoami(c, sessions)
		case "profile":
			return runProfile(c, args)
		case "roles":
			return runRoles(c, args)
		case "cv":
			return runCV(c, cfg, args)
		case "wallet":
			return runWallet(c)
		case "transactions":
			return runTransactions(c)
		case "buy":
			return runBuy(c, args)
		case "interview":
			return runInterview(c, args)
		case "screening":
			return runScreening(c, args)
		case "persona":
			return runPersona(c, args)
		default:
			return fmt.Errorf("unknown command %q, run `interviewpro help`", cmd)
		}
	}

	// No arguments: launch the TUI when signed in, otherwise nudge.
	return launchTUI(c, cfg, sessions, nil)
}

// uploadPaths reports whether every argument names an existing regular file,
// distinguishing `interviewpro resume.pdf` from a subcommand invocation.
func uploadPaths(args []string) ([]string, bool) {
	if len(args) == 0 {
		return nil, false
	}
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil || !info.Mode().IsRegular() {
			return nil, false
		}
	}
	return args, true
}

// launchTUI starts the dashboard, with any pending files queued for upload.
func launchTUI(c *client.Client, cfg config.Config, sessions session.Store, pending []string) error {
	if _, err := sessions.Load(); err != nil {
		printGreeting()
		return nil
	}
	// Only force re-login on actual auth failures, not transient errors.
	if _, err := c.Me(context.Background()); err != nil && client.IsStatus(err, 401) {
		printGreeting()
		return nil
	}

	ch := make(chan uploader.Task, 32)
	up := uploader.New(c,
		uploader.WithConcurrency(cfg.UploadConcurrency),
		uploader.WithOnUpdate(func(t uploader.Task) { ch <- t }),
	)
	app := tui.NewApp(c, up, pending, ch)
	p := tea.NewProgram(app, tea.WithAltScreen())
	c.OnSessionExpired(func() {
		p.Send(tui.SessionExpiredMsg{})
	})

	model, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	if a, ok := model.(tui.App); ok && a.SessionExpired() {
		fmt.Println("Your session has expired. Run `interviewpro login` to sign in again.")
	}
	return nil
}
