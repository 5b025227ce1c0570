package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/interviewpro/cli/internal/session"
	"github.com/interviewpro/cli/pkg/domain"
)

// Providers supported for social login.
const (
	ProviderGoogle    = "google"
	ProviderLinkedIn  = "linkedin"
	ProviderMicrosoft = "microsoft"
)

// Client is the InterviewPro API client. It attaches the stored bearer token
// to every request and owns the 401 interceptor: the first authenticated
// request to come back 401 clears the session store and fires the expiry
// callback exactly once, no matter how many requests fail at the same moment.
type Client struct {
	baseURL    string
	sessions   session.Store
	httpClient *http.Client

	onExpired func()
	expired   atomic.Bool
}

// New creates an API client backed by the given session store.
func New(baseURL string, sessions session.Store) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sessions: sessions,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient replaces the underlying HTTP client (timeouts, transports).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// OnSessionExpired registers the callback fired (once) when an authenticated
// request is rejected with 401. Callers use it to show the "session expired"
// notice and route the user back to login.
func (c *Client) OnSessionExpired(fn func()) {
	c.onExpired = fn
}

// SaveSession persists a freshly issued token and re-arms the 401 guard.
// Password login, registration auto-login, and the OAuth callback all land
// here so none of them need to know how the session is stored.
func (c *Client) SaveSession(token, displayName string) error {
	if err := c.sessions.Save(session.Session{AccessToken: token, DisplayName: displayName}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	c.expired.Store(false)
	return nil
}

// --- Auth ---

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Register creates an account. The API logs the new account in immediately
// and returns a bearer token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.AuthToken, error) {
	var tok domain.AuthToken
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", req, &tok); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &tok, nil
}

// Login exchanges credentials for a bearer token. Unlike every other
// endpoint this one is form-encoded (username/password), mirroring the
// server's OAuth2 password form; that contract is fixed.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.AuthToken, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/login",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("client.Login: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok domain.AuthToken
	if err := c.send(req, false, &tok); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &tok, nil
}

// Logout tells the server to drop the session. Local state is cleared by
// the caller regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

// SocialLoginURL returns the API entry point that starts the given
// provider's redirect dance.
func (c *Client) SocialLoginURL(provider string) string {
	return c.baseURL + "/api/v1/auth/" + provider
}

// --- Profile ---

// Me returns the authenticated user's profile and wallet balance.
func (c *Client) Me(ctx context.Context) (*domain.Me, error) {
	var me domain.Me
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/me", nil, &me); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &me, nil
}

// UpdateProfileRequest carries optional profile field updates.
type UpdateProfileRequest struct {
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	City     string `json:"city,omitempty"`
}

// UpdateProfile updates the user's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/me/profile", req, nil); err != nil {
		return fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return nil
}

// --- Roles ---

// ListRoles returns the active role catalog.
func (c *Client) ListRoles(ctx context.Context) ([]domain.Role, error) {
	var roles []domain.Role
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/roles", nil, &roles); err != nil {
		return nil, fmt.Errorf("client.ListRoles: %w", err)
	}
	return roles, nil
}

// MyRoles returns the user's selected roles.
func (c *Client) MyRoles(ctx context.Context) ([]domain.RoleSelection, error) {
	var selections []domain.RoleSelection
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/my/roles", nil, &selections); err != nil {
		return nil, fmt.Errorf("client.MyRoles: %w", err)
	}
	return selections, nil
}

// SelectRoles adds role selections; already-selected roles are skipped
// server-side.
func (c *Client) SelectRoles(ctx context.Context, roleIDs []int) error {
	body := map[string][]int{"role_ids": roleIDs}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/my/roles", body, nil); err != nil {
		return fmt.Errorf("client.SelectRoles: %w", err)
	}
	return nil
}

// --- CVs ---

// PresignCVRequest asks for upload credentials for one file.
type PresignCVRequest struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	RoleID   *int   `json:"role_id,omitempty"`
}

// PresignFields echoes the storage metadata assigned during presign.
// Filename is the storage-assigned object name, required by ConfirmCV.
type PresignFields struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	RoleID   *int   `json:"role_id,omitempty"`
}

// PresignCVResponse names the storage endpoint for the raw byte transfer.
type PresignCVResponse struct {
	URL    string        `json:"url"`
	Fields PresignFields `json:"fields"`
}

// PresignCV runs step 1 of the upload saga: request upload credentials.
func (c *Client) PresignCV(ctx context.Context, req PresignCVRequest) (*PresignCVResponse, error) {
	var resp PresignCVResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/cvs/presign", req, &resp); err != nil {
		return nil, fmt.Errorf("client.PresignCV: %w", err)
	}
	return &resp, nil
}

// ConfirmCVRequest finalizes an upload with the API.
type ConfirmCVRequest struct {
	Filename        string `json:"filename"`
	StorageFilename string `json:"storage_filename"`
	RoleID          *int   `json:"role_id,omitempty"`
	SizeBytes       int64  `json:"size_bytes"`
}

// ConfirmCV runs step 3 of the upload saga and returns the created record.
func (c *Client) ConfirmCV(ctx context.Context, req ConfirmCVRequest) (*domain.CV, error) {
	var cv domain.CV
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/cvs/confirm", req, &cv); err != nil {
		return nil, fmt.Errorf("client.ConfirmCV: %w", err)
	}
	return &cv, nil
}

// ListCVs returns a page of the user's CV records.
func (c *Client) ListCVs(ctx context.Context, skip, limit int) (*domain.CVList, error) {
	params := url.Values{}
	params.Set("skip", strconv.Itoa(skip))
	params.Set("limit", strconv.Itoa(limit))

	var list domain.CVList
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/cvs/?"+params.Encode(), nil, &list); err != nil {
		return nil, fmt.Errorf("client.ListCVs: %w", err)
	}
	return &list, nil
}

// DeleteCV removes a CV record (and, best-effort, its stored object).
func (c *Client) DeleteCV(ctx context.Context, id int) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/cvs/"+strconv.Itoa(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteCV: %w", err)
	}
	return nil
}

// CVDownloadURL returns a short-lived presigned download link for a CV.
func (c *Client) CVDownloadURL(ctx context.Context, id int) (*domain.CVDownload, error) {
	var dl domain.CVDownload
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/cvs/"+strconv.Itoa(id)+"/download", nil, &dl); err != nil {
		return nil, fmt.Errorf("client.CVDownloadURL: %w", err)
	}
	return &dl, nil
}

// --- Wallet & payments ---

// Wallet returns the current credit balance and recent transactions.
func (c *Client) Wallet(ctx context.Context) (*domain.Wallet, error) {
	var w domain.Wallet
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/wallet", nil, &w); err != nil {
		return nil, fmt.Errorf("client.Wallet: %w", err)
	}
	return &w, nil
}

// Transactions returns the full transaction history.
func (c *Client) Transactions(ctx context.Context) (*domain.TransactionList, error) {
	var list domain.TransactionList
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/transactions", nil, &list); err != nil {
		return nil, fmt.Errorf("client.Transactions: %w", err)
	}
	return &list, nil
}

// CreatePaymentOrder creates a credit-purchase order for a pack.
func (c *Client) CreatePaymentOrder(ctx context.Context, packID int) (*domain.PaymentOrder, error) {
	body := map[string]int{"pack_id": packID}
	var order domain.PaymentOrder
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/payments/order", body, &order); err != nil {
		return nil, fmt.Errorf("client.CreatePaymentOrder: %w", err)
	}
	return &order, nil
}

// --- Interviews, screenings, persona ---

// StartInterview starts an AI interview for a role, optionally against a CV.
func (c *Client) StartInterview(ctx context.Context, roleID int, cvID *int) (*domain.Interview, error) {
	body := map[string]any{"role_id": roleID}
	if cvID != nil {
		body["cv_id"] = *cvID
	}
	var iv domain.Interview
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/interviews/start", body, &iv); err != nil {
		return nil, fmt.Errorf("client.StartInterview: %w", err)
	}
	return &iv, nil
}

// RunScreening runs a screening over an uploaded CV.
func (c *Client) RunScreening(ctx context.Context, cvID int) (*domain.Screening, error) {
	body := map[string]int{"cv_id": cvID}
	var sc domain.Screening
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/screenings/run", body, &sc); err != nil {
		return nil, fmt.Errorf("client.RunScreening: %w", err)
	}
	return &sc, nil
}

// Persona returns the current computed persona.
func (c *Client) Persona(ctx context.Context) (*domain.Persona, error) {
	var p domain.Persona
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/personas/current", nil, &p); err != nil {
		return nil, fmt.Errorf("client.Persona: %w", err)
	}
	return &p, nil
}

// ComputePersona asks the server to (re)compute the persona.
func (c *Client) ComputePersona(ctx context.Context) (*domain.Persona, error) {
	var p domain.Persona
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/personas/compute", nil, &p); err != nil {
		return nil, fmt.Errorf("client.ComputePersona: %w", err)
	}
	return &p, nil
}

// --- Transport ---

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, true, out)
}

// send executes a prepared request. When attachToken is set and a session is
// stored, the bearer token is added; a 401 on such a request tears the
// session down once. Requests that never carried a token (login, register)
// cannot expire a session.
func (c *Client) send(req *http.Request, attachToken bool, out any) error {
	authenticated := false
	if attachToken {
		if s, err := c.sessions.Load(); err == nil && s.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+s.AccessToken)
			authenticated = true
		} else if err != nil && !errors.Is(err, session.ErrNotLoggedIn) {
			return fmt.Errorf("load session: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized && authenticated {
			c.expireSession()
		}
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &APIError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Detail != "" {
			return &APIError{StatusCode: resp.StatusCode, Detail: apiErr.Detail}
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(respBody))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// expireSession clears the stored session and fires the expiry callback.
// The CompareAndSwap makes it a one-shot under concurrent 401s; SaveSession
// re-arms it when a new token comes in.
func (c *Client) expireSession() {
	if !c.expired.CompareAndSwap(false, true) {
		return
	}
	_ = c.sessions.Clear()
	if c.onExpired != nil {
		c.onExpired()
	}
}
