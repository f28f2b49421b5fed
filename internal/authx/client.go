package authx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/harinadareddy11/account-vault/internal/common"
)

// Client implements Provider against a GoTrue-style HTTP API.
type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewClient(baseURL, accessToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: timeout},
	}
}

// UpdatePassword issues PUT /auth/v1/user with the new password. The access
// token authenticates the request; the password itself travels only over TLS.
func (c *Client) UpdatePassword(ctx context.Context, newPassword string) error {
	body, err := json.Marshal(map[string]string{"password": newPassword})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/auth/v1/user", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: password update returned %d: %s", common.ErrAuth, resp.StatusCode, msg)
	}
	return nil
}

// Session derives the user id from the access token's `sub` claim. The parse
// is unverified: the token is an identity hint for partitioning local data,
// never key material or an authorization decision.
func (c *Client) Session(_ context.Context) (*Session, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("%w: no access token", common.ErrAuth)
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(c.accessToken, claims); err != nil {
		return nil, fmt.Errorf("%w: malformed access token: %v", common.ErrAuth, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: access token has no subject", common.ErrAuth)
	}
	return &Session{UserID: sub, AccessToken: c.accessToken}, nil
}
