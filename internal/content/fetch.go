package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ContentPath is the server route that returns the current portfolio as JSON.
const ContentPath = "/api/content"

const fetchTimeout = 8 * time.Second

// Fetch retrieves the portfolio from the server at base, falling back to the
// bundled default content if no endpoint answers with valid data. The error
// reports why the fallback was used; the returned portfolio is never nil.
func Fetch(ctx context.Context, base string) (*Portfolio, error) {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	return fetchFromEndpoints(ctx, []string{base + ContentPath})
}

func fetchFromEndpoints(ctx context.Context, endpoints []string) (*Portfolio, error) {
	client := &http.Client{Timeout: fetchTimeout}
	var attemptErr error

	for _, endpoint := range endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			attemptErr = err
			continue
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			attemptErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if err != nil {
				attemptErr = err
			} else {
				attemptErr = fmt.Errorf("fetch %s failed: %s", endpoint, resp.Status)
			}
			continue
		}

		p, err := decodeJSON(body)
		if err == nil {
			return p, nil
		}
		attemptErr = fmt.Errorf("fetch %s: %w", endpoint, err)
	}

	if attemptErr == nil {
		attemptErr = errors.New("no content endpoint responded successfully")
	}
	return fallback(), attemptErr
}

func decodeJSON(payload []byte) (*Portfolio, error) {
	var p Portfolio
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func fallback() *Portfolio {
	p, err := Default()
	if err != nil {
		// Unreachable while default.yaml is valid.
		return &Portfolio{}
	}
	return p
}
