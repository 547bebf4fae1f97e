package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bayside-church/magnus-cli/pkg/protocol"
)

// Credentials identify a Rock user.
type Credentials struct {
	Username string
	Password string
}

// Login authenticates with username/password and returns the session cookie
// in "name=value" form. The cookie is also set on the client.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	body, err := json.Marshal(protocol.LoginRequest{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + protocol.LoginPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &APIError{Op: "login", URL: endpoint, Kind: KindTransient, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return "", &APIError{
			Op:         "login",
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Kind:       kindForStatus(resp.StatusCode),
			Err:        ErrUnauthorized,
		}
	}

	cookie := sessionCookie(resp.Header)
	if cookie == "" {
		return "", fmt.Errorf("login: no %s cookie in response: %w", protocol.SessionCookie, ErrUnauthorized)
	}

	c.SetCookie(cookie)
	return cookie, nil
}

// EnsureSession reuses the client's cookie when one is set and logs in
// otherwise. fresh reports whether a new cookie was obtained and should be
// persisted by the caller.
func (c *Client) EnsureSession(ctx context.Context, creds Credentials) (cookie string, fresh bool, err error) {
	if cookie := c.Cookie(); cookie != "" {
		return cookie, false, nil
	}
	cookie, err = c.Login(ctx, creds)
	if err != nil {
		return "", false, err
	}
	return cookie, true, nil
}

// sessionCookie extracts ".ROCK=<value>" from the Set-Cookie headers.
func sessionCookie(h http.Header) string {
	prefix := protocol.SessionCookie + "="
	for _, v := range h.Values("Set-Cookie") {
		if strings.HasPrefix(v, prefix) {
			cookie, _, _ := strings.Cut(v, ";")
			return strings.TrimSpace(cookie)
		}
	}
	return ""
}
