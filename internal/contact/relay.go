package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the Web3Forms submission API.
	DefaultEndpoint = "https://api.web3forms.com/submit"
	// DefaultSubject is the subject line of the relayed email.
	DefaultSubject = "New contact from portfolio site"

	defaultTimeout      = 10 * time.Second
	maxRelayBody        = 64 * 1024
	defaultRelayFailure = "Failed to send email"
)

// ErrMissingAccessKey is returned when a Web3Forms client is built without
// an access key.
var ErrMissingAccessKey = errors.New("contact: form relay access key is not configured")

// Relay delivers a validated contact form.
type Relay interface {
	Send(ctx context.Context, form Form) error
}

// Payload is the JSON body posted to the relay.
type Payload struct {
	AccessKey string `json:"access_key,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Subject   string `json:"subject,omitempty"`
	FromName  string `json:"from_name,omitempty"`
}

// Response is the relay's JSON answer. The portfolio server answers
// /api/contact with the same shape.
type Response struct {
	Success *bool   `json:"success,omitempty"`
	Message string  `json:"message,omitempty"`
	Errors  *Errors `json:"errors,omitempty"`
}

// RelayError describes a rejected or failed relay call.
type RelayError struct {
	Status  int
	Message string
	Errors  Errors
}

func (e *RelayError) Error() string {
	if e.Status == 0 {
		return "relay failed: " + e.Message
	}
	return fmt.Sprintf("relay failed (%d): %s", e.Status, e.Message)
}

// ClientOptions configures a relay Client.
type ClientOptions struct {
	Endpoint   string
	AccessKey  string
	Subject    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client posts contact payloads as JSON.
type Client struct {
	endpoint   string
	accessKey  string
	subject    string
	httpClient *http.Client
}

// NewWeb3FormsClient builds a client for the Web3Forms API. The access key is required.
func NewWeb3FormsClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.AccessKey) == "" {
		return nil, ErrMissingAccessKey
	}
	if strings.TrimSpace(opts.Endpoint) == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if strings.TrimSpace(opts.Subject) == "" {
		opts.Subject = DefaultSubject
	}
	return newClient(opts), nil
}

// NewProxyClient builds a keyless client for a same-origin endpoint that
// holds the access key itself.
func NewProxyClient(endpoint string, opts ClientOptions) *Client {
	opts.Endpoint = endpoint
	opts.AccessKey = ""
	return newClient(opts)
}

func newClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:   strings.TrimSpace(opts.Endpoint),
		accessKey:  strings.TrimSpace(opts.AccessKey),
		subject:    opts.Subject,
		httpClient: httpClient,
	}
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send posts form to the relay. Transport errors, non-2xx statuses and an
// explicit "success": false are all failures.
func (c *Client) Send(ctx context.Context, form Form) error {
	payload := Payload{
		AccessKey: c.accessKey,
		Name:      form.Name,
		Email:     form.Email,
		Message:   form.Message,
		Subject:   c.subject,
		FromName:  form.Name,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode contact payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send contact: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayBody))
	if err != nil {
		return fmt.Errorf("read relay response: %w", err)
	}

	var decoded Response
	decodeErr := json.Unmarshal(body, &decoded)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	switch {
	case !ok:
		return &RelayError{Status: resp.StatusCode, Message: failureMessage(decoded.Message), Errors: decoded.fieldErrors()}
	case decodeErr != nil:
		return &RelayError{Status: resp.StatusCode, Message: "invalid relay response"}
	case decoded.Success != nil && !*decoded.Success:
		return &RelayError{Status: resp.StatusCode, Message: failureMessage(decoded.Message), Errors: decoded.fieldErrors()}
	}
	return nil
}

func (r Response) fieldErrors() Errors {
	if r.Errors == nil {
		return Errors{}
	}
	return *r.Errors
}

func failureMessage(msg string) string {
	if trimmed := strings.TrimSpace(msg); trimmed != "" {
		return trimmed
	}
	return defaultRelayFailure
}
