package email

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/kindnet/kindnet-server/internal/config"
)

type postmarkSender struct {
	client *postmark.Client
	sender string
}

// NewPostmarkSender creates a Postmark-backed email sender. Tokens are
// required so misconfiguration fails at startup rather than on the first
// registration.
func NewPostmarkSender(cfg config.Email) (Sender, error) {
	if cfg.PostmarkServerToken == "" || cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("postmark tokens are required")
	}
	if cfg.Sender == "" {
		return nil, fmt.Errorf("sender address is required")
	}

	return &postmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		sender: cfg.Sender,
	}, nil
}

func (s *postmarkSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.sender,
		To:       params.SendTo,
		Subject:  params.Subject,
		Tag:      params.Tag,
		HTMLBody: params.BodyHTML,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
