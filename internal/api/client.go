// Package api is a typed client for the reasoning service's HTTP contract.
// Callers receive decoded payloads or errors; the transport envelope never
// leaks past this package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxResponseBytes = 4 << 20

// Config holds client configuration.
type Config struct {
	// BaseURL is the service root, e.g. http://localhost:5000
	BaseURL string

	// Timeout applies per request. Defaults to 30s.
	Timeout time.Duration

	// Transport is the round tripper the client dispatches through,
	// normally a transport.Chain. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client calls the reasoning service. All methods are safe for concurrent
// use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client with the given configuration.
func New(cfg Config) *Client {
	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: rt,
			Timeout:   timeout,
		},
	}
}

// Login authenticates and returns the issued credential with the account's
// name and role.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, username, password string) (*MessageResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the server-side session for the held credential.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Me returns the identity behind the held credential. Used by the
// navigation guard to re-verify a persisted credential.
func (c *Client) Me(ctx context.Context) (*Me, error) {
	var out Me
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Rules returns every rule in the knowledge base.
func (c *Client) Rules(ctx context.Context) (*RulesResponse, error) {
	var out RulesResponse
	if err := c.do(ctx, http.MethodGet, "/api/rules", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddRule appends a rule. Admin only.
func (c *Client) AddRule(ctx context.Context, premises []string, conclusion string) (*AddRuleResponse, error) {
	body := map[string]any{"premises": premises, "conclusion": conclusion}
	var out AddRuleResponse
	if err := c.do(ctx, http.MethodPost, "/api/rules", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BatchAddRules appends several rules in one call. Admin only.
func (c *Client) BatchAddRules(ctx context.Context, rules []Rule) (*MessageResponse, error) {
	payload := make([]map[string]any, 0, len(rules))
	for _, r := range rules {
		payload = append(payload, map[string]any{
			"premises":   r.Premises,
			"conclusion": r.Conclusion,
		})
	}
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/rules/batch", map[string]any{"rules": payload}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRule replaces the rule with the given ID. Admin only.
func (c *Client) UpdateRule(ctx context.Context, id int, premises []string, conclusion string) (*MessageResponse, error) {
	body := map[string]any{"premises": premises, "conclusion": conclusion}
	var out MessageResponse
	if err := c.do(ctx, http.MethodPut, "/api/rules/"+strconv.Itoa(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRule removes the rule with the given ID. Admin only.
func (c *Client) DeleteRule(ctx context.Context, id int) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/api/rules/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetRules restores the built-in rule set. Admin only.
func (c *Client) ResetRules(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/rules/reset", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Atoms returns every premise atom appearing in the rule base.
func (c *Client) Atoms(ctx context.Context) (*AtomsResponse, error) {
	var out AtomsResponse
	if err := c.do(ctx, http.MethodGet, "/api/facts/atoms", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Conclusions returns every conclusion appearing in the rule base.
func (c *Client) Conclusions(ctx context.Context) (*ConclusionsResponse, error) {
	var out ConclusionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/facts/conclusions", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// KnownFacts returns the asserted and derived facts of the caller's
// reasoning session.
func (c *Client) KnownFacts(ctx context.Context) (*KnownFactsResponse, error) {
	var out KnownFactsResponse
	if err := c.do(ctx, http.MethodGet, "/api/facts/known", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetKnownFacts replaces the asserted fact set.
func (c *Client) SetKnownFacts(ctx context.Context, facts []string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/facts/known", map[string]any{"facts": facts}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FalseFacts returns the facts known to be false.
func (c *Client) FalseFacts(ctx context.Context) (*FalseFactsResponse, error) {
	var out FalseFactsResponse
	if err := c.do(ctx, http.MethodGet, "/api/facts/false", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetFalseFacts replaces the false fact set.
func (c *Client) SetFalseFacts(ctx context.Context, facts []string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/facts/false", map[string]any{"facts": facts}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearFacts resets the caller's reasoning session.
func (c *Client) ClearFacts(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/facts/clear", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forward runs forward chaining over the asserted facts.
func (c *Client) Forward(ctx context.Context) (*ForwardResult, error) {
	var out ForwardResult
	if err := c.do(ctx, http.MethodPost, "/api/inference/forward", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartBackward begins a backward-chaining session for the target
// conclusion.
func (c *Client) StartBackward(ctx context.Context, target string) (*BackwardResult, error) {
	var out BackwardResult
	if err := c.do(ctx, http.MethodPost, "/api/inference/backward/start", map[string]string{"target": target}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ContinueBackward answers the pending query of a backward-chaining session.
func (c *Client) ContinueBackward(ctx context.Context, trueFacts, falseFacts []string) (*BackwardResult, error) {
	body := map[string]any{"true_facts": trueFacts, "false_facts": falseFacts}
	var out BackwardResult
	if err := c.do(ctx, http.MethodPost, "/api/inference/backward/continue", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns a page of inference history, newest first.
func (c *Client) History(ctx context.Context, page, perPage int) (*HistoryPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	var out HistoryPage
	if err := c.do(ctx, http.MethodGet, "/api/history?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteHistory removes one history entry.
func (c *Client) DeleteHistory(ctx context.Context, id string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/api/history/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearHistory removes the caller's history (all history for admins).
func (c *Client) ClearHistory(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/history/clear", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists every account. Admin only.
func (c *Client) Users(ctx context.Context) (*UsersResponse, error) {
	var out UsersResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserRole changes an account's role. Admin only.
func (c *Client) UpdateUserRole(ctx context.Context, username, role string) (*MessageResponse, error) {
	var out MessageResponse
	path := "/api/admin/users/" + url.PathEscape(username) + "/role"
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"role": role}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, username string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(username), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ready reports whether the service is reachable. Any response counts;
// reachability is the only question.
func (c *Client) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, io.LimitReader(res.Body, maxResponseBytes)) //nolint:errcheck
	return nil
}

// do dispatches one request and decodes the response into out. Error
// payloads of the form {"error": "..."} become *Error; everything the
// transport layer fails with is returned as-is.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{Status: res.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(data, &payload); jsonErr == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
