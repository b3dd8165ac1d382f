package track

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"kvtrack/document"
)

// IPSource observes the current external IP address.
type IPSource interface {
	ExternalIP(ctx context.Context) (string, error)
}

// ReadingSource observes one sensor sample.
type ReadingSource interface {
	Read(ctx context.Context) (document.Reading, error)
}

// DefaultIPEndpoints are public services that echo the caller's address.
// The JSON one is preferred; the plain-text ones are fallbacks.
var DefaultIPEndpoints = []string{
	"https://api.ipify.org?format=json",
	"https://ifconfig.me/ip",
	"https://icanhazip.com",
}

// HTTPIPSource tries each endpoint in order and returns the first
// answer. It only fails when every endpoint does.
type HTTPIPSource struct {
	Endpoints []string
	Client    *http.Client
}

func NewHTTPIPSource() *HTTPIPSource {
	return &HTTPIPSource{
		Endpoints: DefaultIPEndpoints,
		Client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (source *HTTPIPSource) ExternalIP(ctx context.Context) (string, error) {
	var errs []error
	for _, endpoint := range source.Endpoints {
		ip, err := source.query(ctx, endpoint)
		if err == nil {
			return ip, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", endpoint, err))
	}
	return "", fmt.Errorf("all ip services failed: %w", errors.Join(errs...))
}

func (source *HTTPIPSource) query(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := source.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "json") {
		var payload struct {
			IP string `json:"ip"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", err
		}
		return payload.IP, nil
	}
	return strings.TrimSpace(string(body)), nil
}

// CommandSource shells out to a command whose stdout is a JSON reading,
// e.g. {"temperature": 23.5, "humidity": 45.2}. The timestamp is left to
// the dashboard's clock unless the command supplies one.
type CommandSource struct {
	Command string
	Timeout time.Duration
}

func NewCommandSource(command string) *CommandSource {
	return &CommandSource{
		Command: command,
		Timeout: 30 * time.Second,
	}
}

func (source *CommandSource) Read(ctx context.Context) (document.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, source.Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "/bin/sh", "-c", source.Command).Output()
	if err != nil {
		return document.Reading{}, fmt.Errorf("run sensor command: %w", err)
	}

	var reading document.Reading
	if err := json.Unmarshal(out, &reading); err != nil {
		return document.Reading{}, fmt.Errorf("parse sensor output: %w", err)
	}
	return reading, nil
}
