package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kaiqkt/auth-registry-api/pkg/config"
)

// Email is the payload accepted by the communication service.
type Email struct {
	Recipient string   `json:"recipient"`
	Subject   string   `json:"subject"`
	Template  Template `json:"template"`
}

// Template points the communication service at a rendered template.
type Template struct {
	URL  string            `json:"url"`
	Data map[string]string `json:"data"`
}

// CommunicationClient talks to the outbound notification service.
type CommunicationClient struct {
	baseURL string
	client  *http.Client
}

// NewCommunicationClient constructs a client with the configured timeout.
func NewCommunicationClient(cfg config.CommunicationConfig) *CommunicationClient {
	return &CommunicationClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// SendEmail posts the email to the communication service. Callers decide
// whether a failure is fatal for their flow.
func (c *CommunicationClient) SendEmail(ctx context.Context, email Email) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("communication service returned %d", res.StatusCode)
	}
	return nil
}
