package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrInvalidToken is returned when the identity provider rejects an access token.
var ErrInvalidToken = errors.New("invalid token")

// AuthClient talks to the Supabase GoTrue auth API. All user-facing calls use
// the public anon key; AdminGetUser requires the service-role key.
type AuthClient struct {
	baseURL    string
	anonKey    string
	serviceKey string
	client     *http.Client
}

// User is the subset of the GoTrue user object this service cares about.
type User struct {
	ID        string `json:"id"`
	Aud       string `json:"aud"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Session is an authenticated session as issued by the token endpoint.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type apiError struct {
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// message picks whichever field GoTrue populated. The token endpoint uses
// error/error_description, everything else uses msg.
func (e apiError) message() string {
	if e.ErrorDescription != "" {
		return e.ErrorDescription
	}
	if e.Msg != "" {
		return e.Msg
	}
	return e.Error
}

func New(baseURL, anonKey string) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		anonKey: anonKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func NewWithServiceKey(baseURL, anonKey, serviceKey string) *AuthClient {
	c := New(baseURL, anonKey)
	c.serviceKey = serviceKey
	return c
}

// UseDefaultClient routes requests through http.DefaultClient so tests can
// install a mock transport.
func (c *AuthClient) UseDefaultClient() {
	c.client = http.DefaultClient
}

// GetUser verifies an access token and returns the user it belongs to.
func (c *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}

	if user.ID == "" {
		return nil, ErrInvalidToken
	}

	return &user, nil
}

// SignUp registers a new user. Depending on project settings the response may
// or may not carry a usable access token (email confirmation pending).
func (c *AuthClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.postSession(ctx, "/auth/v1/signup", map[string]string{
		"email":    email,
		"password": password,
	})
}

// SignInWithPassword exchanges credentials for a session.
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	return c.postSession(ctx, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// RefreshSession starts a session from a stored refresh token.
func (c *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	return c.postSession(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
}

// SignOut revokes the session behind the given access token.
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(resp)
	}

	return nil
}

// AdminGetUser looks a user up by id with the service-role key.
func (c *AuthClient) AdminGetUser(ctx context.Context, userID string) (*User, error) {
	if c.serviceKey == "" {
		return nil, errors.New("service key is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/admin/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *AuthClient) postSession(ctx context.Context, path string, body map[string]string) (*Session, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.decodeError(resp)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}

	return &session, nil
}

// decodeError surfaces the provider's own message so callers can display it.
func (c *AuthClient) decodeError(resp *http.Response) error {
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("auth error %d", resp.StatusCode)
	}

	var apiErr apiError
	if err := json.Unmarshal(buf, &apiErr); err == nil && apiErr.message() != "" {
		return errors.New(apiErr.message())
	}

	return fmt.Errorf("auth error %d: %s", resp.StatusCode, string(buf))
}
