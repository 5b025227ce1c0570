package authflow

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/interviewpro/cli/internal/browser"
	"github.com/interviewpro/cli/pkg/client"
)

// Flow drives a social login: it stands up an ephemeral loopback server,
// sends the browser to the provider, and waits for the redirect back with
// the token. The terminal state comes from ParseCallback; a token that
// cannot be persisted is an error too, because a login the next command
// can't see never happened.
type Flow struct {
	Client *client.Client

	// OpenBrowser launches the provider URL. Defaults to browser.Open.
	OpenBrowser func(url string) error

	// Timeout bounds the wait for the provider redirect. Defaults to 2
	// minutes.
	Timeout time.Duration
}

// Run executes the login flow for the given provider and returns the
// terminal result. The returned error covers infrastructure failures
// (listener, timeout); provider-side failures land in Result.
func (f *Flow) Run(ctx context.Context, provider string) (Result, error) {
	open := f.OpenBrowser
	if open == nil {
		open = browser.Open
	}
	timeout := f.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	// Ephemeral localhost server on a random port.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return Result{}, fmt.Errorf("start callback listener: %w", err)
	}
	defer listener.Close() //nolint:errcheck

	port := listener.Addr().(*net.TCPAddr).Port
	resultCh := make(chan Result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/callback", func(w http.ResponseWriter, r *http.Request) {
		res := ParseCallback(r.URL.Query())
		if res.State == StateSuccess {
			if err := f.Client.SaveSession(res.Token, res.DisplayName); err != nil {
				slog.Error("persist session after social login", "error", err)
				res = Result{State: StateError, Message: "could not save your session, please log in again"}
			}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.State == StateSuccess {
			fmt.Fprint(w, successHTML) //nolint:errcheck
		} else {
			fmt.Fprint(w, errorHTML) //nolint:errcheck
		}
		resultCh <- res
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if srvErr := srv.Serve(listener); srvErr != nil && srvErr != http.ErrServerClosed {
			slog.Error("callback server", "error", srvErr)
		}
	}()

	redirectURI := fmt.Sprintf("http://127.0.0.1:%d/auth/callback", port)
	loginURL := f.Client.SocialLoginURL(provider) + "?redirect_uri=" + url.QueryEscape(redirectURI)

	if err := open(loginURL); err != nil {
		fmt.Printf("Could not open browser. Visit this URL manually:\n  %s\n", loginURL)
	}

	// Wait for the redirect or give up.
	select {
	case res := <-resultCh:
		// Brief grace so the browser can finish rendering the page.
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx) //nolint:errcheck
		return res, nil

	case <-ctx.Done():
		return Result{}, ctx.Err()

	case <-time.After(timeout):
		return Result{}, fmt.Errorf("login timed out: no callback received within %v", timeout)
	}
}

const successHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>InterviewPro</title>
<style>
body{font-family:-apple-system,system-ui,sans-serif;background:#0f1117;color:#e6e6e6;
display:flex;align-items:center;justify-content:center;height:100vh;margin:0}
.card{text-align:center}
h1{color:#7dd3a0;font-size:1.4rem}
p{color:#9a9fab}
</style>
</head>
<body>
<div class="card">
<h1>Signed in</h1>
<p>You can close this tab and return to the terminal.</p>
</div>
</body>
</html>`

const errorHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>InterviewPro</title>
<style>
body{font-family:-apple-system,system-ui,sans-serif;background:#0f1117;color:#e6e6e6;
display:flex;align-items:center;justify-content:center;height:100vh;margin:0}
.card{text-align:center}
h1{color:#e06c75;font-size:1.4rem}
p{color:#9a9fab}
</style>
</head>
<body>
<div class="card">
<h1>Sign-in failed</h1>
<p>Return to the terminal for details, then try again.</p>
</div>
</body>
</html>`
