package auth

var _ Verifier = (*Service)(nil)
var _ Verifier = (*TestVerifier)(nil)

// Verifier answers whether a bearer token belongs to a logged-in
// administrator, returning the username claim on success
type Verifier interface {
	VerifyToken(token string) (string, error)
}

// TestVerifier maps fixed tokens to usernames (for unit tests)
type TestVerifier struct {
	Tokens map[string]string
}

func NewTestVerifier() *TestVerifier {
	return &TestVerifier{
		Tokens: map[string]string{},
	}
}

func (v *TestVerifier) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	if username, ok := v.Tokens[token]; ok {
		return username, nil
	}
	return "", ErrTokenMalformed
}
