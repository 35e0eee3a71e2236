// ABOUTME: Entry point for the ponga authentication gateway
// ABOUTME: serve runs the HTTP API, token mints a token, health probes a running server

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/ponga-gateway/internal/auth"
	"github.com/2389/ponga-gateway/internal/config"
	"github.com/2389/ponga-gateway/internal/server"
)

// Version is set at build time.
var version = "dev"

const banner = `
  _ __   ___  _ __   __ _  __ _
 | '_ \ / _ \| '_ \ / _' |/ _' |
 | |_) | (_) | | | | (_| | (_| |
 | .__/ \___/|_| |_|\__, |\__,_|
 |_|                |___/
`

// getConfigPath returns the config file path from PONGA_CONFIG.
// An empty result means defaults plus environment only.
func getConfigPath() string {
	return os.Getenv("PONGA_CONFIG")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ponga <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                          Start the HTTP server")
		fmt.Println("  token --sub SUBJECT [--ttl D]  Sign a token for SUBJECT")
		fmt.Println("  health                         Check server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "token":
		err = runToken(ctx, os.Args[2:])
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging, os.Stdout)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	if configPath == "" {
		fmt.Printf("Config:    %s\n", gray.Sprint("(environment only)"))
	} else {
		fmt.Printf("Config:    %s\n", configPath)
	}
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Auth:      %s\n", cfg.Auth.Mode)
	fmt.Println()

	opts := cfg.AuthOptions()
	opts.Logger = logger.With("component", "auth")
	authn, err := auth.New(ctx, opts)
	if err != nil {
		return fmt.Errorf("creating authenticator: %w", err)
	}

	logger.Info("starting ponga",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"mode", cfg.Auth.Mode,
	)

	srv, err := server.New(cfg, authn, logger, version)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Run(ctx)
}

// tokenArgs are the flags accepted by the token command.
type tokenArgs struct {
	subject string
	ttl     time.Duration
}

// parseTokenArgs supports both "--flag value" and "--flag=value" forms.
func parseTokenArgs(args []string) (tokenArgs, error) {
	var out tokenArgs
	var ttlRaw string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--sub" || arg == "--ttl":
			if i+1 >= len(args) {
				return out, fmt.Errorf("%s requires a value", arg)
			}
			if arg == "--sub" {
				out.subject = args[i+1]
			} else {
				ttlRaw = args[i+1]
			}
			i++
		case strings.HasPrefix(arg, "--sub="):
			out.subject = strings.TrimPrefix(arg, "--sub=")
		case strings.HasPrefix(arg, "--ttl="):
			ttlRaw = strings.TrimPrefix(arg, "--ttl=")
		case strings.HasPrefix(arg, "-"):
			return out, fmt.Errorf("unknown flag: %s", arg)
		default:
			return out, fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	out.subject = strings.TrimSpace(out.subject)
	if out.subject == "" {
		return out, fmt.Errorf("--sub flag is required")
	}

	if ttlRaw != "" {
		ttl, err := time.ParseDuration(ttlRaw)
		if err != nil {
			return out, fmt.Errorf("parsing --ttl %q: %w", ttlRaw, err)
		}
		if ttl <= 0 {
			return out, fmt.Errorf("--ttl must be positive")
		}
		out.ttl = ttl
	}
	return out, nil
}

func runToken(ctx context.Context, args []string) error {
	ta, err := parseTokenArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ttl := cfg.Auth.TokenTTL
	if ta.ttl != 0 {
		ttl = ta.ttl
	}
	if ttl > cfg.Auth.MaxTokenTTL {
		return fmt.Errorf("--ttl %s exceeds max_token_ttl %s", ttl, cfg.Auth.MaxTokenTTL)
	}

	// Diagnostics go to stderr so stdout carries only the token.
	opts := cfg.AuthOptions()
	opts.Logger = setupLogger(config.LoggingConfig{Level: "warn", Format: cfg.Logging.Format}, os.Stderr)
	authn, err := auth.New(ctx, opts)
	if err != nil {
		return fmt.Errorf("creating authenticator: %w", err)
	}

	claims := auth.NewClaims(ta.subject, cfg.Auth.Issuer, ttl, time.Now())
	claims.Audience = []string{auth.ServiceAudience}

	token, err := authn.Sign(claims)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}

	fmt.Println(token)
	return nil
}

// healthURL maps a listen address onto a dialable health URL.
// Unspecified hosts (0.0.0.0, ::, empty) become loopback.
func healthURL(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("parsing http_addr %q: %w", addr, err)
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/health", nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url, err := healthURL(cfg.Server.HTTPAddr)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}
