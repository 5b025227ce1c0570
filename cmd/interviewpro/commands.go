package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/interviewpro/cli/internal/authflow"
	"github.com/interviewpro/cli/internal/config"
	"github.com/interviewpro/cli/internal/session"
	"github.com/interviewpro/cli/internal/uploader"
	"github.com/interviewpro/cli/pkg/client"
)

func httpClientWithTimeout(d time.Duration) *http.Client {
	return &http.Client{Timeout: d}
}

// parseIDList parses "1,2,3" into ints, rejecting anything that isn't a
// positive integer.
func parseIDList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, n)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no ids given")
	}
	return ids, nil
}

func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func runRegister(c *client.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted when omitted)")
	city := fs.String("city", "", "city (optional)")
	phone := fs.String("phone", "", "phone (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return fmt.Errorf("usage: interviewpro register --name <name> --email <email> [--city ...] [--phone ...]")
	}
	if *password == "" {
		p, err := promptLine("Password")
		if err != nil {
			return err
		}
		*password = p
	}

	tok, err := c.Register(context.Background(), client.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
		City:     *city,
		Phone:    *phone,
	})
	if err != nil {
		return fmt.Errorf("register: %s", client.Detail(err))
	}
	if err := c.SaveSession(tok.AccessToken, *name); err != nil {
		return err
	}
	fmt.Printf("Welcome, %s. You are signed in.\n", *name)
	return nil
}

func runLogin(c *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	provider := fs.String("provider", "", "social provider: google, linkedin, or microsoft")
	email := fs.String("email", "", "email for password login")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *provider != "" {
		switch *provider {
		case client.ProviderGoogle, client.ProviderLinkedIn, client.ProviderMicrosoft:
		default:
			return fmt.Errorf("unknown provider %q: use google, linkedin, or microsoft", *provider)
		}
		fmt.Println("Opening browser to authenticate...")
		flow := &authflow.Flow{Client: c}
		res, err := flow.Run(context.Background(), *provider)
		if err != nil {
			return err
		}
		if res.State != authflow.StateSuccess {
			return fmt.Errorf("login failed: %s", res.Message)
		}
		name := res.DisplayName
		if name == "" {
			name = "there"
		}
		fmt.Printf("Welcome back, %s. You are signed in.\n", name)
		return nil
	}

	if *email == "" {
		e, err := promptLine("Email")
		if err != nil {
			return err
		}
		*email = e
	}
	if *password == "" {
		p, err := promptLine("Password")
		if err != nil {
			return err
		}
		*password = p
	}

	ctx := context.Background()
	tok, err := c.Login(ctx, *email, *password)
	if err != nil {
		return fmt.Errorf("login: %s", client.Detail(err))
	}
	if err := c.SaveSession(tok.AccessToken, ""); err != nil {
		return err
	}
	// Fetch the profile so the UI can greet by name.
	if me, err := c.Me(ctx); err == nil {
		c.SaveSession(tok.AccessToken, me.User.Name) //nolint:errcheck // best-effort name refresh
		fmt.Printf("Welcome back, %s. You are signed in.\n", me.User.Name)
		return nil
	}
	fmt.Println("You are signed in.")
	return nil
}

func runLogout(c *client.Client, sessions session.Store) error {
	// Tell the server, but clear locally no matter what.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.Logout(ctx) //nolint:errcheck // local clear is what matters
	if err := sessions.Clear(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(c *client.Client, sessions session.Store) error {
	s, err := sessions.Load()
	if err != nil {
		return fmt.Errorf("not signed in, run `interviewpro login`")
	}

	if info, err := session.Inspect(s.AccessToken); err == nil {
		if info.Expired() {
			fmt.Println("Stored token looks expired; the next request may ask you to log in again.")
		} else if !info.ExpiresAt.IsZero() {
			fmt.Printf("Token valid until %s\n", info.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
	}

	me, err := c.Me(context.Background())
	if err != nil {
		return fmt.Errorf("whoami: %s", client.Detail(err))
	}
	fmt.Printf("%s <%s>\n", me.User.Name, me.User.Email)
	if me.User.City != "" {
		fmt.Printf("City:    %s\n", me.User.City)
	}
	if me.User.Phone != "" {
		fmt.Printf("Phone:   %s\n", me.User.Phone)
	}
	fmt.Printf("Credits: %d\n", me.WalletBalance)
	return nil
}

func runProfile(c *client.Client, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone")
	city := fs.String("city", "", "city")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" && *phone == "" && *city == "" {
		return fmt.Errorf("usage: interviewpro profile [--name ...] [--phone ...] [--city ...]")
	}

	err := c.UpdateProfile(context.Background(), client.UpdateProfileRequest{
		FullName: *name,
		Phone:    *phone,
		City:     *city,
	})
	if err != nil {
		return fmt.Errorf("update profile: %s", client.Detail(err))
	}
	fmt.Println("Profile updated.")
	return nil
}

func runRoles(c *client.Client, args []string) error {
	ctx := context.Background()

	if len(args) > 0 && args[0] == "pick" {
		if len(args) < 2 {
			return fmt.Errorf("usage: interviewpro roles pick <id>[,<id>...]")
		}
		ids, err := parseIDList(args[1])
		if err != nil {
			return err
		}
		if err := c.SelectRoles(ctx, ids); err != nil {
			return fmt.Errorf("select roles: %s", client.Detail(err))
		}
		fmt.Printf("Added %d role(s).\n", len(ids))
		return nil
	}

	catalog, err := c.ListRoles(ctx)
	if err != nil {
		return fmt.Errorf("list roles: %s", client.Detail(err))
	}
	mine, err := c.MyRoles(ctx)
	if err != nil {
		return fmt.Errorf("list my roles: %s", client.Detail(err))
	}
	selected := map[int]bool{}
	for _, s := range mine {
		selected[s.RoleID] = true
	}

	for _, r := range catalog {
		mark := " "
		if selected[r.ID] {
			mark = "✓"
		}
		tags := ""
		if len(r.Tags) > 0 {
			tags = "  [" + strings.Join(r.Tags, ", ") + "]"
		}
		fmt.Printf("%s %3d  %s%s\n", mark, r.ID, r.Title, tags)
	}
	return nil
}

func runCV(c *client.Client, cfg config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: interviewpro cv <upload|list|rm|url> ...")
	}
	ctx := context.Background()

	switch args[0] {
	case "upload":
		fs := flag.NewFlagSet("cv upload", flag.ContinueOnError)
		roleID := fs.Int("role", 0, "attach the CV to a role id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		files := fs.Args()
		if len(files) == 0 {
			return fmt.Errorf("usage: interviewpro cv upload <file>... [--role <id>]")
		}
		var rid *int
		if *roleID > 0 {
			rid = roleID
		}

		up := uploader.New(c,
			uploader.WithConcurrency(cfg.UploadConcurrency),
			uploader.WithOnUpdate(func(t uploader.Task) {
				name := t.Filename
				if name == "" {
					name = t.Path
				}
				switch t.Status {
				case uploader.StatusConfirmed:
					fmt.Printf("  %-36s confirmed\n", name)
				case uploader.StatusFailed:
					fmt.Printf("  %-36s failed: %v\n", name, t.Err)
				}
			}),
		)
		tasks := up.Upload(ctx, files, rid)

		failed := 0
		for _, t := range tasks {
			if t.Status == uploader.StatusFailed {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d uploads failed", failed, len(tasks))
		}
		fmt.Printf("Uploaded %d CV(s).\n", len(tasks))
		return nil

	case "list":
		list, err := c.ListCVs(ctx, 0, 100)
		if err != nil {
			return fmt.Errorf("list cvs: %s", client.Detail(err))
		}
		if list.Total == 0 {
			fmt.Println("No CVs yet. Upload one with `interviewpro cv upload <file>`.")
			return nil
		}
		for _, cv := range list.CVs {
			fmt.Printf("%3d  %-36s %8d bytes  %-10s %s\n",
				cv.ID, cv.Filename, cv.SizeBytes, cv.Status, cv.CreatedAt.Local().Format("2006-01-02"))
		}
		return nil

	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: interviewpro cv rm <id>")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid cv id %q", args[1])
		}
		if err := c.DeleteCV(ctx, id); err != nil {
			return fmt.Errorf("delete cv: %s", client.Detail(err))
		}
		fmt.Println("Deleted.")
		return nil

	case "url":
		fs := flag.NewFlagSet("cv url", flag.ContinueOnError)
		copyFlag := fs.Bool("copy", false, "copy the link to the clipboard")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() < 1 {
			return fmt.Errorf("usage: interviewpro cv url <id> [--copy]")
		}
		id, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid cv id %q", fs.Arg(0))
		}
		dl, err := c.CVDownloadURL(ctx, id)
		if err != nil {
			return fmt.Errorf("download url: %s", client.Detail(err))
		}
		fmt.Println(dl.DownloadURL)
		fmt.Printf("(expires in %ds)\n", dl.ExpiresIn)
		if *copyFlag {
			if err := clipboard.WriteAll(dl.DownloadURL); err != nil {
				fmt.Fprintf(os.Stderr, "could not copy to clipboard: %v\n", err)
			} else {
				fmt.Println("Copied to clipboard.")
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown cv command %q", args[0])
	}
}

func runWallet(c *client.Client) error {
	w, err := c.Wallet(context.Background())
	if err != nil {
		return fmt.Errorf("wallet: %s", client.Detail(err))
	}
	fmt.Printf("Balance: %d credits\n", w.BalanceCredits)
	if len(w.LastTransactions) > 0 {
		fmt.Println("\nRecent:")
		for _, tx := range w.LastTransactions {
			fmt.Printf("  %+5d  %-24s %s\n", tx.Credits, tx.Type, tx.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func runTransactions(c *client.Client) error {
	list, err := c.Transactions(context.Background())
	if err != nil {
		return fmt.Errorf("transactions: %s", client.Detail(err))
	}
	if list.Total == 0 {
		fmt.Println("No transactions yet.")
		return nil
	}
	for _, tx := range list.Transactions {
		status := tx.Status
		if status == "" {
			status = "completed"
		}
		fmt.Printf("%3d  %+5d  %-24s %-10s %s\n",
			tx.ID, tx.Credits, tx.Type, status, tx.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runBuy(c *client.Client, args []string) error {
	fs := flag.NewFlagSet("buy", flag.ContinueOnError)
	copyFlag := fs.Bool("copy", false, "copy the UPI link to the clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: interviewpro buy <pack-id> [--copy]")
	}
	packID, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid pack id %q", fs.Arg(0))
	}

	order, err := c.CreatePaymentOrder(context.Background(), packID)
	if err != nil {
		return fmt.Errorf("create order: %s", client.Detail(err))
	}
	fmt.Printf("Order %s — ₹%.2f\n", order.OrderID, order.Amount)
	fmt.Printf("Pay via UPI: %s\n", order.UPILink)
	if *copyFlag {
		if err := clipboard.WriteAll(order.UPILink); err != nil {
			fmt.Fprintf(os.Stderr, "could not copy to clipboard: %v\n", err)
		} else {
			fmt.Println("UPI link copied to clipboard.")
		}
	}
	return nil
}

func runInterview(c *client.Client, args []string) error {
	fs := flag.NewFlagSet("interview", flag.ContinueOnError)
	cvID := fs.Int("cv", 0, "use this CV for the interview")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: interviewpro interview <role-id> [--cv <id>]")
	}
	roleID, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid role id %q", fs.Arg(0))
	}
	var cid *int
	if *cvID > 0 {
		cid = cvID
	}

	iv, err := c.StartInterview(context.Background(), roleID, cid)
	if err != nil {
		return fmt.Errorf("start interview: %s", client.Detail(err))
	}
	fmt.Printf("Interview %d started (%s). %d credit(s) used.\n", iv.ID, iv.Status, iv.CreditsUsed)
	return nil
}

func runScreening(c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: interviewpro screening <cv-id>")
	}
	cvID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid cv id %q", args[0])
	}

	sc, err := c.RunScreening(context.Background(), cvID)
	if err != nil {
		return fmt.Errorf("run screening: %s", client.Detail(err))
	}
	fmt.Printf("Screening %d %s. %d credit(s) used.\n", sc.ID, sc.Status, sc.CreditsUsed)
	return nil
}

func runPersona(c *client.Client, args []string) error {
	ctx := context.Background()

	if len(args) > 0 && args[0] == "compute" {
		p, err := c.ComputePersona(ctx)
		if err != nil {
			return fmt.Errorf("compute persona: %s", client.Detail(err))
		}
		fmt.Printf("Persona recomputed. %d skill(s) identified.\n", len(p.Skills))
		return nil
	}

	p, err := c.Persona(ctx)
	if err != nil {
		if client.IsStatus(err, 404) {
			fmt.Println("No persona yet. Run `interviewpro persona compute` after uploading a CV.")
			return nil
		}
		return fmt.Errorf("persona: %s", client.Detail(err))
	}
	if len(p.Skills) > 0 {
		fmt.Println("Skills: " + strings.Join(p.Skills, ", "))
	}
	for k, v := range p.Summary {
		fmt.Printf("%-12s %v\n", k+":", v)
	}
	return nil
}
