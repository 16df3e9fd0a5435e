package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NotifierClient pushes scheduling notifications to the ops webhook so the
// back-office channel sees confirmations without polling the admin UI.
type NotifierClient struct {
	baseURL    string
	channel    string
	httpClient *http.Client
}

type NotifierConfig struct {
	BaseURL string
	Channel string
	Timeout time.Duration
}

type notification struct {
	Channel string `json:"channel"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func NewNotifierClient(cfg NotifierConfig) *NotifierClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &NotifierClient{
		baseURL: cfg.BaseURL,
		channel: cfg.Channel,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Enabled reports whether a webhook endpoint is configured.
func (nc *NotifierClient) Enabled() bool {
	return nc.baseURL != ""
}

// Notify posts one message to the ops channel.
func (nc *NotifierClient) Notify(subject, message string) error {
	if !nc.Enabled() {
		return nil
	}

	body, err := json.Marshal(notification{
		Channel: nc.channel,
		Subject: subject,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	resp, err := nc.httpClient.Post(nc.baseURL+"/api/v1/notifications", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
