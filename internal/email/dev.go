package email

import (
	"context"

	"github.com/kindnet/kindnet-server/internal/logger"
)

// DevSender logs outbound mail instead of delivering it. Used when no
// Postmark tokens are configured.
type DevSender struct {
	logger *logger.Logger
}

func NewDevSender(logger *logger.Logger) *DevSender {
	return &DevSender{logger: logger}
}

func (s *DevSender) SendEmail(_ context.Context, params SendEmailParams) error {
	s.logger.Info("dev email sender: delivery skipped",
		"to", params.SendTo,
		"subject", params.Subject,
		"tag", params.Tag)
	return nil
}
