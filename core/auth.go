package core

// TokenSource supplies the bearer credential attached to every origin call.
// Token issuance and refresh are owned by the external auth collaborator;
// this SDK only forwards the opaque string.
type TokenSource interface {
	Token() (string, error)
}

type TokenSourceFunc func() (string, error)

func (f TokenSourceFunc) Token() (string, error) { return f() }

// StaticToken returns a TokenSource that always yields the given token.
func StaticToken(token string) TokenSource {
	return TokenSourceFunc(func() (string, error) { return token, nil })
}
