package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tripnest/tripnest-backend/internal/auth/domain"
	"github.com/tripnest/tripnest-backend/internal/backend"
)

const defaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com"

// PasswordSignIn exchanges email and password for an ID token using the public API key.
type PasswordSignIn struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewPasswordSignIn(baseURL, apiKey string) *PasswordSignIn {
	if baseURL == "" {
		baseURL = defaultIdentityToolkitURL
	}
	return &PasswordSignIn{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type signInError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn returns the identity and a short-lived ID token.
// Rejected credentials are reported as domain.ErrInvalidCredentials.
func (s *PasswordSignIn) SignIn(ctx context.Context, email, password string) (*backend.User, string, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := s.baseURL + "/v1/accounts:signInWithPassword?key=" + url.QueryEscape(s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to call identity toolkit: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e signInError
		_ = json.Unmarshal(raw, &e)
		if resp.StatusCode == http.StatusBadRequest {
			return nil, "", fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, e.Error.Message)
		}
		return nil, "", fmt.Errorf("identity toolkit returned status %d: %s", resp.StatusCode, e.Error.Message)
	}

	var out signInResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}

	return &backend.User{ID: out.LocalID, Email: out.Email}, out.IDToken, nil
}
