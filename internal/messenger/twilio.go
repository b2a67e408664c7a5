package messenger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.twilio.com"
	apiVersion     = "2010-04-01"
)

var (
	ErrMissingAccountSID = errors.New("messenger: account SID is required")
	ErrMissingAuthToken  = errors.New("messenger: auth token is required")
	ErrMissingSender     = errors.New("messenger: either a messaging service SID or a from number is required")
	ErrEmptyMessage      = errors.New("messenger: message needs a body or a media URL")
)

// Config identifies the sending account. Exactly one of
// MessagingServiceSID or From must be set; the API refuses ambiguous
// sender identities anyway, so we reject them before going to the network.
type Config struct {
	AccountSID          string
	AuthToken           string
	MessagingServiceSID string
	From                string
}

// TwilioClient sends messages through the provider's Messages endpoint.
type TwilioClient struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// Option customizes a TwilioClient.
type Option func(*TwilioClient)

// WithBaseURL points the client at a different API host. Used in tests.
func WithBaseURL(u string) Option {
	return func(c *TwilioClient) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *TwilioClient) { c.httpClient = hc }
}

// NewTwilioClient validates the account configuration and builds a client.
// All missing-credential errors surface here, before any network call.
func NewTwilioClient(cfg Config, opts ...Option) (*TwilioClient, error) {
	if cfg.AccountSID == "" {
		return nil, ErrMissingAccountSID
	}
	if cfg.AuthToken == "" {
		return nil, ErrMissingAuthToken
	}
	if cfg.MessagingServiceSID == "" && cfg.From == "" {
		return nil, ErrMissingSender
	}

	c := &TwilioClient{
		cfg:        cfg,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// apiError is the provider's error envelope.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Send posts one message. A non-2xx response is returned as an error; the
// caller records it and moves on, there are no retries here.
func (c *TwilioClient) Send(ctx context.Context, msg Message) error {
	if msg.Body == "" && msg.MediaURL == "" {
		return ErrEmptyMessage
	}

	form := url.Values{}
	form.Set("To", msg.To)
	if c.cfg.MessagingServiceSID != "" {
		form.Set("MessagingServiceSid", c.cfg.MessagingServiceSID)
	} else {
		form.Set("From", c.cfg.From)
	}
	if msg.Body != "" {
		form.Set("Body", msg.Body)
	}
	if msg.MediaURL != "" {
		form.Set("MediaUrl", msg.MediaURL)
	}

	endpoint := fmt.Sprintf("%s/%s/Accounts/%s/Messages.json", c.baseURL, apiVersion, c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send to %s: %w", msg.To, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("send to %s: %s (code %d)", msg.To, apiErr.Message, apiErr.Code)
	}
	return fmt.Errorf("send to %s: unexpected status %d", msg.To, resp.StatusCode)
}
