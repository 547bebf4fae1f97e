package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/bayside-church/magnus-cli/internal/config"
	"github.com/bayside-church/magnus-cli/internal/logging"
	"github.com/bayside-church/magnus-cli/pkg/client"
	"github.com/bayside-church/magnus-cli/pkg/retry"
)

const defaultServerURL = "https://rock.example.org"

func cmdConfig(_ context.Context, args []string) error {
	fs, g := newFlagSet("config", "config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.setup()
	return runConfigPrompt(g.configPath)
}

// runConfigPrompt asks for server URL, username and password and saves the
// answers. Empty answers keep the stored value.
func runConfigPrompt(path string) error {
	current := config.Load(path)
	reader := bufio.NewReader(os.Stdin)

	serverDefault := current.ServerURL
	if serverDefault == "" {
		serverDefault = defaultServerURL
	}
	serverURL := prompt(reader, "Rock RMS server URL", serverDefault)
	username := prompt(reader, "Username", current.Username)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	password := string(passwordBytes)

	err = config.Update(path, func(c *config.Config) {
		if serverURL != "" && serverURL != c.ServerURL {
			c.ServerURL = serverURL
			c.Cookie = ""
		}
		if username != "" && username != c.Username {
			c.Username = username
			c.Cookie = ""
		}
		if password != "" {
			c.Password = password
			c.Cookie = ""
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("Configuration saved to %s\n", path)
	return nil
}

func prompt(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func cmdLogin(ctx context.Context, args []string) error {
	fs, g := newFlagSet("login", "login")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := g.setup()
	if err := cfg.Validate(); err != nil {
		return err
	}

	c := newClient(cfg, "")
	cookie, err := c.Login(ctx, credentials(cfg))
	if err != nil {
		return err
	}
	if err := config.Update(g.configPath, func(stored *config.Config) { stored.Cookie = cookie }); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Printf("Login successful! Logged in to %s as %s\n", c.BaseURL(), cfg.Username)
	return nil
}

func cmdLogout(_ context.Context, args []string) error {
	fs, g := newFlagSet("logout", "logout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	g.setup()

	if err := config.Update(g.configPath, func(c *config.Config) { c.Cookie = "" }); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// connect returns a client with an established session. Without stored
// credentials it runs the config prompt first when stdin is a terminal.
func connect(ctx context.Context, g *globals, cfg *config.Config) (*client.Client, error) {
	if !cfg.IsAuthenticated() {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, fmt.Errorf("not authenticated: %w", config.ErrNotConfigured)
		}
		fmt.Println("Not authenticated. Running configuration setup...")
		if err := runConfigPrompt(g.configPath); err != nil {
			return nil, err
		}
		cfg = g.load()
		if !cfg.IsAuthenticated() {
			return nil, fmt.Errorf("authentication failed, please check your credentials")
		}
	}

	c := newClient(cfg, cfg.Cookie)
	cookie, fresh, err := c.EnsureSession(ctx, credentials(cfg))
	if err != nil {
		return nil, err
	}
	if fresh {
		if err := config.Update(g.configPath, func(stored *config.Config) { stored.Cookie = cookie }); err != nil {
			logging.Warn("failed to save session cookie", zap.Error(err))
		}
	}
	return c, nil
}

func newClient(cfg *config.Config, cookie string) *client.Client {
	return client.New(client.Config{
		BaseURL:     cfg.ServerURL,
		Timeout:     cfg.Timeout,
		RetryConfig: retry.DefaultConfig().WithRetries(cfg.Retries),
		Cookie:      cookie,
	})
}

func credentials(cfg *config.Config) client.Credentials {
	return client.Credentials{Username: cfg.Username, Password: cfg.Password}
}
