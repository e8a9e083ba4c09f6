// Package email sends transactional mail for account flows.
package email

import "context"

// Sender delivers a single transactional email.
type Sender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string
	Subject  string
	BodyHTML string
	Tag      string
}
