// Package cookbookapi is the HTTP client for the cookbook server. It speaks the
// server's JSON routes verbatim and owns no client state.
package cookbookapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is the set of server operations the front ends use.
type Client interface {
	CookbookNames(ctx context.Context) ([]string, error)
	CookbookInfo(ctx context.Context, name string) (*CookbookInfo, error)
	AddCookbook(ctx context.Context, c NewCookbook) (*MessageResponse, error)
	DeleteCookbook(ctx context.Context, name string) (*MessageResponse, error)

	AllRecipeNames(ctx context.Context) ([]string, error)
	RecipeNames(ctx context.Context, cookbook string) ([]string, error)
	RecipeInfo(ctx context.Context, name string) (*RecipeInfo, error)
	CheckRecipe(ctx context.Context, name string) (bool, error)
	AddRecipe(ctx context.Context, r NewRecipe) (*MessageResponse, error)
	DeleteRecipe(ctx context.Context, name string) (*MessageResponse, error)

	AddIngredient(ctx context.Context, ingredient, recipe string) (*MessageResponse, error)
	PairIngredient(ctx context.Context, ingredient, recipe string) (*MessageResponse, error)
	DeleteIngredient(ctx context.Context, name string) (*MessageResponse, error)

	AddUser(ctx context.Context, u NewUser) error
	Login(ctx context.Context, c Credentials) error
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL string
	// APIKey, when set, is an "id:hexsecret" pair used to sign bearer tokens.
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// HTTPClient is the concrete Client implementation.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	signer     *tokenSigner
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a new cookbook API client.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("cookbookapi: base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("cookbookapi: invalid base url: %w", err)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	c := &HTTPClient{baseURL: base, httpClient: hc}
	if opts.APIKey != "" {
		signer, err := newTokenSigner(opts.APIKey)
		if err != nil {
			return nil, fmt.Errorf("cookbookapi: %w", err)
		}
		c.signer = signer
	}
	return c, nil
}

// BaseURL returns the server root the client talks to.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

func (c *HTTPClient) CookbookNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, "cookbook names", http.MethodGet, "/cookbook_names", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *HTTPClient) CookbookInfo(ctx context.Context, name string) (*CookbookInfo, error) {
	var info CookbookInfo
	if err := c.do(ctx, "cookbook info", http.MethodGet, "/cookbook_info/"+url.PathEscape(name), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *HTTPClient) AddCookbook(ctx context.Context, cb NewCookbook) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, "add cookbook", http.MethodPut, "/add_cookbook", cb, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteCookbook(ctx context.Context, name string) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, "delete cookbook", http.MethodDelete, "/delete_cookbook/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) AllRecipeNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, "all recipe names", http.MethodGet, "/all_recipe_names", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *HTTPClient) RecipeNames(ctx context.Context, cookbook string) ([]string, error) {
	var names []string
	if err := c.do(ctx, "recipe names", http.MethodGet, "/recipe_names/"+url.PathEscape(cookbook), nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *HTTPClient) RecipeInfo(ctx context.Context, name string) (*RecipeInfo, error) {
	var info RecipeInfo
	if err := c.do(ctx, "recipe info", http.MethodGet, "/recipe_info/"+url.PathEscape(name), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *HTTPClient) CheckRecipe(ctx context.Context, name string) (bool, error) {
	var resp checkResponse
	if err := c.do(ctx, "check recipe", http.MethodGet, "/check_recipe/"+url.PathEscape(name), nil, &resp); err != nil {
		return false, err
	}
	return resp.Validity, nil
}

func (c *HTTPClient) AddRecipe(ctx context.Context, r NewRecipe) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, "add recipe", http.MethodPut, "/add_recipe", r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteRecipe(ctx context.Context, name string) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, "delete recipe", http.MethodDelete, "/delete_recipe/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) AddIngredient(ctx context.Context, ingredient, recipe string) (*MessageResponse, error) {
	var resp MessageResponse
	body := newIngredient{Name: ingredient, Recipe: recipe}
	if err := c.do(ctx, "add ingredient", http.MethodPut, "/add_ingredient", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) PairIngredient(ctx context.Context, ingredient, recipe string) (*MessageResponse, error) {
	var resp MessageResponse
	body := ingredientPairing{Ingredient: ingredient, Recipe: recipe}
	if err := c.do(ctx, "pair ingredient", http.MethodPut, "/add_ingredient_recipe_pairing", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteIngredient(ctx context.Context, name string) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, "delete ingredient", http.MethodDelete, "/delete_ingredient/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddUser registers a new account. A refused duplicate yields ErrUserExists.
func (c *HTTPClient) AddUser(ctx context.Context, u NewUser) error {
	return c.doUser(ctx, "add user", http.MethodPut, "/add_user", u, ErrUserExists)
}

// Login checks credentials. Rejected credentials yield ErrInvalidLogin.
func (c *HTTPClient) Login(ctx context.Context, creds Credentials) error {
	return c.doUser(ctx, "login", http.MethodPost, "/login", creds, ErrInvalidLogin)
}

// doUser handles the user endpoints, whose body carries a success flag that
// takes precedence over the HTTP status.
func (c *HTTPClient) doUser(ctx context.Context, op, method, path string, body any, refused error) error {
	resp, err := c.send(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	var ur userResponse
	if jsonErr := json.Unmarshal(data, &ur); jsonErr == nil {
		if ur.Success {
			return nil
		}
		if ur.Message != "" {
			return fmt.Errorf("%w: %s", refused, ur.Message)
		}
		return refused
	}

	if !isSuccess(resp.StatusCode) {
		return &StatusError{Op: op, Code: resp.StatusCode, Body: snippet(data)}
	}
	return fmt.Errorf("%s: failed to decode response", op)
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, out any) error {
	resp, err := c.send(ctx, op, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: snippet(data)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

func (c *HTTPClient) send(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to marshal request body: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", newRequestID())

	if c.signer != nil {
		token, err := c.signer.token()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to sign token: %w", op, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to execute request: %w", op, err)
	}
	return resp, nil
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
