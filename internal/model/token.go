package model

// TokenManager generates and validates signed session tokens.
// Session tokens are stateless: the email claim and expiry are the only
// server-side facts, there is no revocation list.
type TokenManager interface {
	GenerateSessionToken(email string) (string, error)
	ParseSessionToken(token string) (string, error)
}
