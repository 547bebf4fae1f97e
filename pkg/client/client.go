// Package client provides the Rock RMS HTTP client used by magnus: tree
// listing, content fetch and save over a cookie-authenticated session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/bayside-church/magnus-cli/pkg/models"
	"github.com/bayside-church/magnus-cli/pkg/protocol"
	"github.com/bayside-church/magnus-cli/pkg/retry"
	"github.com/bayside-church/magnus-cli/pkg/tree"
)

// Client talks to a single Rock RMS server.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig retry.Config

	mu     sync.RWMutex
	cookie string
}

// Config holds client configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RetryConfig retry.Config
	Cookie      string
}

// New creates a new client.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryConfig.MaxAttempts == 0 {
		cfg.RetryConfig = retry.DefaultConfig()
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		retryConfig: cfg.RetryConfig,
		cookie:      cfg.Cookie,
	}
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetCookie sets the session cookie sent with every request.
func (c *Client) SetCookie(cookie string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookie = cookie
}

// Cookie returns the current session cookie.
func (c *Client) Cookie() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cookie
}

func (c *Client) applyAuth(req *http.Request) {
	if cookie := c.Cookie(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
}

// TreeItemsURL returns the listing route for a remote path. The empty path and
// the "root" sentinel both address the top of the tree.
func TreeItemsURL(path string) string {
	if path == "" || path == tree.RootDirectory {
		return protocol.TreeItemsPath + "/root"
	}
	return protocol.TreeItemsPath + "/root" + url.PathEscape(path)
}

// ListEntries lists the children of a remote path in server order.
// A missing path yields an empty listing, not an error.
func (c *Client) ListEntries(ctx context.Context, path string) ([]models.RemoteEntry, error) {
	body, err := c.do(ctx, "list", http.MethodGet, c.baseURL+TreeItemsURL(path), nil)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return nil, nil
		}
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var items protocol.TreeItemsResponse
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("parse listing for %s: %w", path, err)
	}
	return []models.RemoteEntry(items), nil
}

// FetchContent returns the raw content of a remote file.
func (c *Client) FetchContent(ctx context.Context, uri string) ([]byte, error) {
	endpoint := c.baseURL + protocol.GetContentPath + "?fileName=" + url.QueryEscape(uri)
	return c.do(ctx, "fetch", http.MethodGet, endpoint, nil)
}

// SaveContent writes content to a remote file.
func (c *Client) SaveContent(ctx context.Context, fileName string, content []byte) error {
	payload, err := json.Marshal(protocol.SaveContentRequest{
		FileName: fileName,
		Content:  string(content),
	})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, "save", http.MethodPost, c.baseURL+protocol.SaveContentPath, payload)
	return err
}

// do sends an authenticated request and returns the decoded body of a 2xx
// response. Network failures and 5xx responses are retryable.
func (c *Client) do(ctx context.Context, op, method, endpoint string, payload []byte) ([]byte, error) {
	return retry.DoWithResult(ctx, c.retryConfig, func() ([]byte, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept-Encoding", "gzip")
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, retry.Retryable(&APIError{Op: op, URL: endpoint, Kind: KindTransient, Err: err})
		}
		defer resp.Body.Close()

		data, err := readBody(resp)
		if err != nil {
			return nil, retry.Retryable(&APIError{Op: op, URL: endpoint, Kind: KindTransient, Err: err})
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{
				Op:         op,
				URL:        endpoint,
				StatusCode: resp.StatusCode,
				Kind:       kindForStatus(resp.StatusCode),
				Message:    errorMessage(data),
			}
			if apiErr.Kind == KindTransient {
				return nil, retry.Retryable(apiErr)
			}
			return nil, apiErr
		}
		return data, nil
	})
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		reader = gr
	}
	return io.ReadAll(reader)
}

func errorMessage(data []byte) string {
	var errResp protocol.ErrorResponse
	if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
		return errResp.Message
	}
	return trimMessage(string(data))
}
