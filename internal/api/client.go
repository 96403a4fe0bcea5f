package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"nutritrack/internal/config"
	"nutritrack/internal/session"
)

// APIError carries the backend's message when one is present, else a generic
// status-based message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client is the single configured HTTP client for all backend calls. Every
// outgoing request carries the bearer token when one is present; a 401
// response wipes the token and fires the unauthorized hook before the error
// is propagated to the caller. No retries.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	session        *session.Store
	limiter        *rate.Limiter
	onUnauthorized func()
}

func New(cfg *config.Config, sess *session.Store) *Client {
	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = cfg.RateLimitRPS
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		session:    sess,
		limiter:    limiter,
	}
}

// OnUnauthorized installs the hook fired after a 401 response. The session
// token is already removed by the time the hook runs.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// MARK: - Foods

func (c *Client) ListFoods(ctx context.Context, search string) ([]Food, error) {
	path := "/alimentos/"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	// The endpoint returns either a bare array or a paginated envelope.
	var foods []Food
	if err := json.Unmarshal(raw, &foods); err == nil {
		return foods, nil
	}

	var page struct {
		Results []Food `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	return page.Results, nil
}

// MARK: - Meals

func (c *Client) ListMeals(ctx context.Context, date string) ([]Meal, error) {
	path := "/refeicoes/"
	if date != "" {
		path += "?data=" + url.QueryEscape(date)
	}

	var meals []Meal
	if err := c.do(ctx, http.MethodGet, path, nil, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

func (c *Client) CreateMeal(ctx context.Context, req CreateMealRequest) (*Meal, error) {
	var meal Meal
	if err := c.do(ctx, http.MethodPost, "/refeicoes/", req, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

func (c *Client) UpdateMeal(ctx context.Context, id int64, req CreateMealRequest) (*Meal, error) {
	var meal Meal
	path := fmt.Sprintf("/refeicoes/%d/", id)
	if err := c.do(ctx, http.MethodPut, path, req, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

func (c *Client) DeleteMeal(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/refeicoes/%d/", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// MARK: - Auth

// Register creates an account and returns the access token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp tokenEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/register/", req, &resp); err != nil {
		return "", err
	}
	return resp.Token.Access, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenEnvelope
	req := LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login/", req, &resp); err != nil {
		return "", err
	}
	return resp.Token.Access, nil
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/auth/profile/", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodPut, "/auth/profile/", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPut, "/auth/change-password/", req, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/reset-password/", body, nil)
}

// MARK: - Chatbot

func (c *Client) SendChatMessage(ctx context.Context, req SendChatRequest) (*SendChatResponse, error) {
	var resp SendChatResponse
	if err := c.do(ctx, http.MethodPost, "/chatbot/sessions/send_message/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MARK: - Transport

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.session.RemoveToken()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return readError(resp)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// readError extracts the backend's error message when the payload carries
// one, else falls back to a status-based message.
func readError(resp *http.Response) error {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("status %d", resp.StatusCode),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			apiErr.Message = payload.Error
		} else if payload.Detail != "" {
			apiErr.Message = payload.Detail
		}
	}

	return apiErr
}
