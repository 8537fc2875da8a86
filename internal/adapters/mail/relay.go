package mail

import (
	"context"
	"fmt"
	"time"

	"device-io/internal/core/alerts"

	"github.com/go-resty/resty/v2"
)

type relayMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Relay posts mail to an HTTP mail-submission API with a bearer token.
type Relay struct {
	cli  *resty.Client
	url  string
	from string
}

func NewRelay(url, token, from string, timeout time.Duration) *Relay {
	cli := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		cli.SetAuthToken(token)
	}
	return &Relay{cli: cli, url: url, from: from}
}

func (r *Relay) Send(ctx context.Context, e alerts.Email) error {
	resp, err := r.cli.R().
		SetContext(ctx).
		SetBody(relayMessage{From: r.from, To: e.To, Subject: e.Subject, HTML: e.HTML}).
		Post(r.url)
	if err != nil {
		return fmt.Errorf("mail relay: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail relay: %s", resp.Status())
	}
	return nil
}
