package ports

// AuthClaims are the platform token claims this service consumes. Tokens are
// minted by the authentication service; this service only verifies them.
type AuthClaims struct {
	SubjectID string
	Email     string
	Role      string
}

type TokenVerifier interface {
	ParseAndValidate(raw string) (AuthClaims, error)
}
