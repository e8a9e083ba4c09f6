package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindnet/kindnet-server/internal/config"
	"github.com/kindnet/kindnet-server/internal/testutil"
)

func TestNewPostmarkSender_RequiresTokens(t *testing.T) {
	_, err := NewPostmarkSender(config.Email{Sender: "no-reply@kindnet.local"})
	assert.Error(t, err)

	_, err = NewPostmarkSender(config.Email{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
	})
	assert.Error(t, err)

	s, err := NewPostmarkSender(config.Email{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		Sender:               "no-reply@kindnet.local",
	})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestDevSender_NeverFails(t *testing.T) {
	s := NewDevSender(testutil.MakeNoopLogger())
	err := s.SendEmail(context.Background(), VerificationEmail("http://localhost/verify"))
	assert.NoError(t, err)
}

func TestTemplates(t *testing.T) {
	v := VerificationEmail("http://front/verify?email=a@x.com&token=tok")
	assert.Contains(t, v.BodyHTML, "http://front/verify?email=a@x.com&token=tok")
	assert.Equal(t, "email-verification", v.Tag)

	r := PasswordResetEmail("http://front/reset?token=raw")
	assert.Contains(t, r.BodyHTML, "http://front/reset?token=raw")
	assert.Equal(t, "password-reset", r.Tag)
}
