package api

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	CompanyName     string `json:"company_name"`
}

// Login authenticates and stores the session token for later runs.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", loginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	c.saveToken(out.Token)
	return &out, nil
}

// Register creates an account and its company.
func (c *Client) Register(ctx context.Context, username, password, companyName string) error {
	req := registerRequest{
		Username:        username,
		Password:        password,
		PasswordConfirm: password,
		CompanyName:     companyName,
	}
	return c.do(ctx, http.MethodPost, "/api/register", req, nil)
}

// HasSession reports whether a stored token exists and its exp claim has not
// passed. The claim is read unverified, purely to skip a doomed round trip;
// the server remains the authority and any 401 clears the session.
func (c *Client) HasSession() bool {
	tok := c.currentToken()
	if tok == "" {
		return false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		// No exp claim: let the server decide.
		return true
	}
	return exp.After(time.Now())
}

// ClearSession forgets the in-memory and persisted token.
func (c *Client) ClearSession() {
	c.setToken("")
	_ = os.Remove(c.tokenPath())
}

func (c *Client) tokenPath() string { return c.cfg.Path("token.json") }

func (c *Client) saveToken(tok string) {
	if err := os.WriteFile(c.tokenPath(), []byte(strings.TrimSpace(tok)), 0o600); err != nil {
		c.log.WithError(err).Warn("could not persist session token")
	}
}

func (c *Client) loadToken() string {
	b, _ := os.ReadFile(c.tokenPath())
	return strings.TrimSpace(string(b))
}
