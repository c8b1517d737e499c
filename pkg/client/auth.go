package client

import (
	"context"
	"net/http"

	"toolhaven/pkg/errs"
	"toolhaven/pkg/session"
)

// The client implements session.Backend, so a session.Provider can be
// constructed directly over it.
var _ session.Backend = (*Client)(nil)

type wireUser struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
	Provider    string  `json:"provider"`
	Roles       []struct {
		Name string `json:"name"`
	} `json:"roles"`
}

func (u wireUser) account() session.Account {
	acct := session.Account{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Provider:    u.Provider,
	}
	if u.PhotoURL != nil {
		acct.PhotoURL = *u.PhotoURL
	}
	for _, r := range u.Roles {
		acct.Roles = append(acct.Roles, r.Name)
	}
	return acct
}

type authResponse struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (session.Account, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", nil,
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return session.Account{}, err
	}
	c.setToken(resp.Token)
	return resp.User.account(), nil
}

func (c *Client) SignUp(ctx context.Context, p session.SignUpParams) (session.Account, error) {
	body := map[string]string{
		"email":        p.Email,
		"password":     p.Password,
		"display_name": p.DisplayName,
	}
	if p.Phone != "" {
		body["phone"] = p.Phone
	}
	if p.Country != "" {
		body["country"] = p.Country
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signup", nil, body, &resp); err != nil {
		return session.Account{}, err
	}
	c.setToken(resp.Token)
	return resp.User.account(), nil
}

// Restore resumes a persisted session by asking the API who the token
// belongs to.
func (c *Client) Restore(ctx context.Context) (session.Account, error) {
	if c.Token() == "" {
		return session.Account{}, errs.New(errs.KindUnauthorized, "no stored session")
	}
	var u wireUser
	if err := c.do(ctx, http.MethodGet, "/v1/me", nil, nil, &u); err != nil {
		return session.Account{}, err
	}
	return u.account(), nil
}

// SignOut revokes the server-side session and always drops the local token.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, nil)
	c.setToken("")
	return err
}

// FederatedStartURL asks the API for the provider consent URL.
func (c *Client) FederatedStartURL(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/auth/federated/start", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
