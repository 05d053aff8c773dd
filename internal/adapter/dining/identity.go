package dining

// Identity selects how a session client authenticates: either with raw
// campus credentials (requires the full SSO handshake) or with a previously
// obtained session token triple (ready to use).
type Identity interface {
	isIdentity()
}

// Credentials carry the campus username/password. They are only held for the
// duration of the handshake and are never persisted by the adapter.
type Credentials struct {
	Username string
	Password string
}

func (Credentials) isIdentity() {}

// Token is a durable session triple obtained from an earlier handshake.
type Token struct {
	UserID     string
	LoginToken string
	SessionID  string
}

func (Token) isIdentity() {}
