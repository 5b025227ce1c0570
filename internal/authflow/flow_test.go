package authflow

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/interviewpro/cli/internal/session"
	"github.com/interviewpro/cli/pkg/client"
)

// redirectingBrowser pretends to be the provider: instead of opening a real
// browser it immediately redirects back to the loopback callback with the
// given query string.
func redirectingBrowser(t *testing.T, query string) func(string) error {
	t.Helper()
	return func(loginURL string) error {
		u, err := url.Parse(loginURL)
		if err != nil {
			t.Errorf("parse login url: %v", err)
			return err
		}
		redirect := u.Query().Get("redirect_uri")
		if redirect == "" {
			t.Error("login url missing redirect_uri")
			return errors.New("no redirect_uri")
		}
		go func() {
			resp, err := http.Get(redirect + "?" + query)
			if err != nil {
				t.Errorf("callback request: %v", err)
				return
			}
			resp.Body.Close()
		}()
		return nil
	}
}

func newFlow(t *testing.T, store session.Store, open func(string) error) *Flow {
	t.Helper()
	return &Flow{
		Client:      client.New("http://api.invalid", store),
		OpenBrowser: open,
		Timeout:     5 * time.Second,
	}
}

func TestFlowSuccessPersistsSession(t *testing.T) {
	store := session.NewMemStore()
	f := newFlow(t, store, redirectingBrowser(t, "token=tok-social&name=Priya"))

	res, err := f.Run(context.Background(), client.ProviderGoogle)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.State != StateSuccess {
		t.Fatalf("state = %s, message = %q", res.State, res.Message)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if got.AccessToken != "tok-social" || got.DisplayName != "Priya" {
		t.Errorf("stored session = %+v", got)
	}
}

func TestFlowProviderErrorStoresNothing(t *testing.T) {
	store := session.NewMemStore()
	f := newFlow(t, store, redirectingBrowser(t, "error=access_denied"))

	res, err := f.Run(context.Background(), client.ProviderLinkedIn)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.State != StateError || res.Message != "access_denied" {
		t.Errorf("result = %+v", res)
	}
	if _, err := store.Load(); !errors.Is(err, session.ErrNotLoggedIn) {
		t.Errorf("provider error must not store a session, got: %v", err)
	}
}

func TestFlowStorageFailureIsError(t *testing.T) {
	store := session.NewMemStore()
	store.SaveErr = errors.New("disk full")
	f := newFlow(t, store, redirectingBrowser(t, "token=tok&name=X"))

	res, err := f.Run(context.Background(), client.ProviderGoogle)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.State != StateError {
		t.Fatalf("state = %s, unsaved token must not count as logged in", res.State)
	}
	if !strings.Contains(res.Message, "save") {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestFlowTimesOut(t *testing.T) {
	f := newFlow(t, session.NewMemStore(), func(string) error { return nil })
	f.Timeout = 50 * time.Millisecond

	if _, err := f.Run(context.Background(), client.ProviderMicrosoft); err == nil {
		t.Fatal("expected timeout error")
	}
}
