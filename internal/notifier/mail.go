package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pfrederiksen/schedule-watch/internal/schedule"
)

// DefaultMailBaseURL is the transactional email provider's API endpoint.
const DefaultMailBaseURL = "https://api.sendgrid.com"

const mailTimeout = 30 * time.Second

// MailConfig holds the email collaborator's settings. APIKey, Sender and
// Recipient must all be present for mail to be sent; anything missing makes
// the notifier skip instead of erroring, so the pipeline can run store-only.
type MailConfig struct {
	APIKey    string
	Sender    string
	Recipient string
	BaseURL   string
}

// MailNotifier renders the change report as HTML and dispatches it through a
// SendGrid-compatible mail-send API.
type MailNotifier struct {
	client *resty.Client
	config MailConfig
	log    *slog.Logger

	// SourceURL is linked from the report body.
	SourceURL string
	// Now stamps the report; overridable in tests.
	Now func() time.Time
}

type mailAddress struct {
	Email string `json:"email"`
}

type mailPayload struct {
	Personalizations []struct {
		To []mailAddress `json:"to"`
	} `json:"personalizations"`
	From    mailAddress `json:"from"`
	Subject string      `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

// NewMailNotifier creates a mail notifier. An empty BaseURL falls back to
// DefaultMailBaseURL.
func NewMailNotifier(config MailConfig, sourceURL string, log *slog.Logger) *MailNotifier {
	if config.BaseURL == "" {
		config.BaseURL = DefaultMailBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(config.BaseURL, "/")).
		SetTimeout(mailTimeout).
		SetHeader("Authorization", "Bearer "+config.APIKey).
		SetHeader("Content-Type", "application/json")

	return &MailNotifier{
		client:    client,
		config:    config,
		log:       log,
		SourceURL: sourceURL,
		Now:       time.Now,
	}
}

// Configured reports whether all three mail settings are present.
func (n *MailNotifier) Configured() bool {
	return n.config.APIKey != "" && n.config.Sender != "" && n.config.Recipient != ""
}

// Notify sends the change report. With incomplete configuration it returns
// StatusSkipped and no error; delivery failures return a *NotifyError.
func (n *MailNotifier) Notify(ctx context.Context, subject string, changes *schedule.ChangeSet, table *schedule.Table) (Status, error) {
	if !n.Configured() {
		n.log.Info("email configuration incomplete, skipping notification.",
			slog.Bool("api_key", n.config.APIKey != ""),
			slog.Bool("sender", n.config.Sender != ""),
			slog.Bool("recipient", n.config.Recipient != ""))
		return StatusSkipped, nil
	}

	body, err := BuildReport(changes, table, n.SourceURL, n.Now())
	if err != nil {
		return StatusSkipped, &NotifyError{Err: err}
	}

	payload := mailPayload{
		From:    mailAddress{Email: n.config.Sender},
		Subject: subject,
	}
	payload.Personalizations = append(payload.Personalizations, struct {
		To []mailAddress `json:"to"`
	}{To: []mailAddress{{Email: n.config.Recipient}}})
	payload.Content = append(payload.Content, struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}{Type: "text/html", Value: body})

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/v3/mail/send")
	if err != nil {
		return StatusSkipped, &NotifyError{Err: fmt.Errorf("sending mail: %w", err)}
	}
	if !resp.IsSuccess() {
		return StatusSkipped, &NotifyError{Err: fmt.Errorf("sending mail: status %d", resp.StatusCode())}
	}

	n.log.Info("email notification sent.",
		slog.String("recipient", n.config.Recipient),
		slog.Int("status", resp.StatusCode()))
	return StatusSent, nil
}
