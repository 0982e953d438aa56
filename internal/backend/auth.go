package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/spigell/cvmatch/internal/session"
)

const (
	apiRegisterPath = "/api/register"
	apiLoginPath    = "/api/login"
	apiProfilePath  = "/api/profile"
	apiUserPath     = "/api/user"
)

type AuthResponse struct {
	Message     string        `json:"message"`
	AccessToken string        `json:"access_token"`
	User        *session.User `json:"user"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register creates an account and stores the issued token.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var resp AuthResponse
	req := c.request(ctx).SetBody(registerRequest{Email: email, Password: password, Name: name})
	if err := c.execute(req, http.MethodPost, apiRegisterPath, &resp); err != nil {
		return nil, err
	}

	return &resp, c.remember(&resp)
}

// Login authenticates and stores the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	req := c.request(ctx).SetBody(loginRequest{Email: email, Password: password})
	if err := c.execute(req, http.MethodPost, apiLoginPath, &resp); err != nil {
		return nil, err
	}

	return &resp, c.remember(&resp)
}

// Logout forgets the stored token. The backend keeps no server-side session.
func (c *Client) Logout() error {
	if c.credentials == nil {
		return nil
	}

	return c.credentials.ClearToken()
}

func (c *Client) Profile(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.executeLoose(c.request(ctx), http.MethodGet, apiProfilePath, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*session.User, error) {
	var user session.User
	req := c.request(ctx).SetBody(update)
	if err := c.executeLoose(req, http.MethodPut, apiUserPath, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) remember(resp *AuthResponse) error {
	if resp.AccessToken == "" {
		return errors.New("backend response has no access token")
	}

	if c.credentials == nil {
		return nil
	}

	return c.credentials.SetToken(resp.AccessToken, resp.User)
}
