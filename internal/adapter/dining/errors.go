package dining

import "errors"

var (
	// ErrCredentialsMissing is returned by Login on a token-constructed client.
	ErrCredentialsMissing = errors.New("credentials missing")

	ErrCsrfExtraction   = errors.New("csrf token not found in idp response")
	ErrSamlExtraction   = errors.New("saml response not found in login response")
	ErrTempTokenMissing = errors.New("temp token missing in sso response")
	ErrRegistration     = errors.New("device registration failed")

	// ErrLoginWithToken signals the informational post-registration login
	// failed. It never fails the handshake.
	ErrLoginWithToken = errors.New("login with token failed")

	ErrOrderIDMissing = errors.New("order id missing in submit response")
)
