package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ParseURL parses a connection string of the form
//
//	ws://user:pass@host:port/namespace/database
//
// The scheme may be ws or wss. The port defaults to 8000.
func ParseURL(raw string) (Config, error) {
	if strings.TrimSpace(raw) == "" {
		return Config{}, errors.New("connection string is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("invalid connection string: %w", err)
	}

	if u.Scheme != "ws" && u.Scheme != "wss" {
		return Config{}, fmt.Errorf("unsupported scheme %q (use ws or wss)", u.Scheme)
	}
	if u.Hostname() == "" {
		return Config{}, errors.New("connection string has no host")
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Config{}, errors.New("connection string path must be /namespace/database")
	}

	cfg := Config{
		Scheme:    u.Scheme,
		Host:      u.Hostname(),
		Port:      u.Port(),
		Namespace: parts[0],
		Database:  parts[1],
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}

	return cfg, nil
}
