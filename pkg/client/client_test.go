package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/interviewpro/cli/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.MemStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewMemStore()
	return New(srv.URL, store), store
}

func TestLoginIsFormEncoded(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want form-urlencoded", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostFormValue("username") != "a@b.com" || r.PostFormValue("password") != "pw" {
			t.Errorf("form = %v", r.PostForm)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login request must not carry a bearer token")
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "token_type": "bearer"})
	}))

	tok, err := c.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.AccessToken != "tok-1" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
}

func TestLoginThenMeRoundTrip(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			if r.Header.Get("Authorization") != "" {
				t.Error("login request must not carry a bearer token")
			}
			json.NewEncoder(w).Encode(map[string]string{"access_token": "issued-tok", "token_type": "bearer"})
		case "/api/v1/me":
			if auth := r.Header.Get("Authorization"); auth != "Bearer issued-tok" {
				t.Errorf("Authorization = %q, want the login-issued token", auth)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"user":           map[string]any{"id": 1, "name": "Priya", "email": "p@x.com"},
				"wallet_balance": 12,
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))

	ctx := context.Background()
	tok, err := c.Login(ctx, "p@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := c.SaveSession(tok.AccessToken, "Priya"); err != nil {
		t.Fatalf("save session: %v", err)
	}
	me, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.User.Name != "Priya" || me.WalletBalance != 12 {
		t.Errorf("me = %+v", me)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer stored-token" {
			t.Errorf("Authorization = %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user":           map[string]any{"id": 1, "name": "Priya", "email": "p@x.com"},
			"wallet_balance": 40,
		})
	}))
	if err := store.Save(session.Session{AccessToken: "stored-token"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	me, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.User.Name != "Priya" || me.WalletBalance != 40 {
		t.Errorf("me = %+v", me)
	}
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid Credentials"})
	}))

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsStatus(err, http.StatusNotFound) {
		t.Errorf("IsStatus(404) = false for %v", err)
	}
	if got := Detail(err); got != "Invalid Credentials" {
		t.Errorf("Detail = %q, want server message verbatim", got)
	}
}

func TestDetailFallsBackForTransportErrors(t *testing.T) {
	c := New("http://127.0.0.1:0", session.NewMemStore())
	_, err := c.ListRoles(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := Detail(err); got != "An error occurred. Please try again." {
		t.Errorf("Detail = %q, want generic fallback", got)
	}
}

func TestConcurrent401sTearDownOnce(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	if err := store.Save(session.Session{AccessToken: "stale"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var fired atomic.Int32
	c.OnSessionExpired(func() { fired.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Me(context.Background()); !IsStatus(err, http.StatusUnauthorized) {
				t.Errorf("expected 401, got %v", err)
			}
		}()
	}
	wg.Wait()

	if n := fired.Load(); n != 1 {
		t.Errorf("expiry callback fired %d times, want exactly 1", n)
	}
	if _, err := store.Load(); err != session.ErrNotLoggedIn {
		t.Errorf("session not cleared after 401: %v", err)
	}
}

func TestUnauthenticated401DoesNotTearDown(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid Credentials"})
	}))

	var fired atomic.Int32
	c.OnSessionExpired(func() { fired.Add(1) })

	if _, err := c.Login(context.Background(), "a@b.com", "wrong"); err == nil {
		t.Fatal("expected error")
	}
	if fired.Load() != 0 {
		t.Error("a 401 on an unauthenticated request must not expire the session")
	}
}

func TestSaveSessionRearmsExpiryGuard(t *testing.T) {
	var reject atomic.Bool
	reject.Store(true)
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reject.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "expired"})
			return
		}
		json.NewEncoder(w).Encode([]any{})
	}))
	if err := store.Save(session.Session{AccessToken: "stale"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var fired atomic.Int32
	c.OnSessionExpired(func() { fired.Add(1) })

	if _, err := c.ListRoles(context.Background()); !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401, got %v", err)
	}
	if fired.Load() != 1 {
		t.Fatalf("callback fired %d times after first 401", fired.Load())
	}

	// New login re-arms the guard.
	if err := c.SaveSession("fresh", "Priya"); err != nil {
		t.Fatalf("save session: %v", err)
	}
	got, err := store.Load()
	if err != nil || got.AccessToken != "fresh" || got.DisplayName != "Priya" {
		t.Fatalf("stored session = %+v, %v", got, err)
	}

	if _, err := c.ListRoles(context.Background()); !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401, got %v", err)
	}
	if fired.Load() != 2 {
		t.Errorf("callback fired %d times, want 2 after re-arm", fired.Load())
	}
}

func TestListCVsQuery(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/cvs/" {
			t.Errorf("path = %q, want /api/v1/cvs/", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("skip") != "10" || q.Get("limit") != "5" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"cvs":   []map[string]any{{"id": 7, "filename": "resume.pdf", "status": "uploaded"}},
			"total": 11,
		})
	}))
	store.Save(session.Session{AccessToken: "t"})

	list, err := c.ListCVs(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("list cvs: %v", err)
	}
	if list.Total != 11 || len(list.CVs) != 1 || list.CVs[0].Filename != "resume.pdf" {
		t.Errorf("list = %+v", list)
	}
}

func TestPresignThenConfirm(t *testing.T) {
	roleID := 3
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/cvs/presign":
			var req PresignCVRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode presign: %v", err)
			}
			if req.Filename != "resume.pdf" || req.MimeType != "application/pdf" {
				t.Errorf("presign req = %+v", req)
			}
			json.NewEncoder(w).Encode(PresignCVResponse{
				URL: "http://storage.local/put-here",
				Fields: PresignFields{
					Filename: "u1-resume.pdf",
					MimeType: "application/pdf",
					RoleID:   req.RoleID,
				},
			})
		case "/api/v1/cvs/confirm":
			var req ConfirmCVRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode confirm: %v", err)
			}
			if req.StorageFilename != "u1-resume.pdf" || req.SizeBytes != 2048 {
				t.Errorf("confirm req = %+v", req)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"id": 42, "filename": "resume.pdf", "status": "uploaded",
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	store.Save(session.Session{AccessToken: "t"})

	ctx := context.Background()
	presigned, err := c.PresignCV(ctx, PresignCVRequest{Filename: "resume.pdf", MimeType: "application/pdf", RoleID: &roleID})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if presigned.URL == "" || presigned.Fields.Filename != "u1-resume.pdf" {
		t.Fatalf("presign resp = %+v", presigned)
	}

	cv, err := c.ConfirmCV(ctx, ConfirmCVRequest{
		Filename:        "resume.pdf",
		StorageFilename: presigned.Fields.Filename,
		RoleID:          &roleID,
		SizeBytes:       2048,
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if cv.ID != 42 {
		t.Errorf("cv = %+v", cv)
	}
}

func TestSocialLoginURL(t *testing.T) {
	c := New("https://api.interviewpro.app/", session.NewMemStore())
	if got := c.SocialLoginURL(ProviderGoogle); got != "https://api.interviewpro.app/api/v1/auth/google" {
		t.Errorf("SocialLoginURL = %q", got)
	}
}
