package dining

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// handshakeStep enumerates the states of the SSO login sequence. Each
// transition is exactly one HTTP round trip; any failed transition aborts the
// whole handshake with a step-specific error, retries are the caller's call.
type handshakeStep int

const (
	stepStart handshakeStep = iota
	stepSamlInitiated
	stepIdpRedirected
	stepCsrfFormSubmitted
	stepLoginPageRetrieved
	stepCredentialsSubmitted
	stepSamlResponseSubmitted
	stepRegisteredWithToken
	stepLoggedIn
)

func (s handshakeStep) String() string {
	switch s {
	case stepStart:
		return "start"
	case stepSamlInitiated:
		return "saml_initiated"
	case stepIdpRedirected:
		return "idp_redirected"
	case stepCsrfFormSubmitted:
		return "csrf_form_submitted"
	case stepLoginPageRetrieved:
		return "login_page_retrieved"
	case stepCredentialsSubmitted:
		return "credentials_submitted"
	case stepSamlResponseSubmitted:
		return "saml_response_submitted"
	case stepRegisteredWithToken:
		return "registered_with_token"
	case stepLoggedIn:
		return "logged_in"
	}
	return "unknown"
}

// Markers extracted mid-flow are anchored HTML/JSON fragments, not parsed
// documents; the anchors below match what the mobile app scrapes.
const (
	csrfAnchor      = `name="csrf_token" value="`
	samlAnchor      = `name="SAMLResponse" value="`
	tempTokenAnchor = `"token":"`
	anchorEnd       = `"`
)

// handshake drives the login state machine over a client's session.
type handshake struct {
	client *Client
	creds  Credentials
	step   handshakeStep

	csrfToken    string
	samlResponse string
	tempToken    string
}

// run advances the machine until logged in or a step fails.
func (h *handshake) run(ctx context.Context) error {
	for h.step != stepLoggedIn {
		if err := h.advance(ctx); err != nil {
			return fmt.Errorf("handshake step %s: %w", h.step, err)
		}
	}
	return nil
}

func (h *handshake) advance(ctx context.Context) error {
	var err error
	switch h.step {
	case stepStart:
		err = h.initiateSaml(ctx)
	case stepSamlInitiated:
		err = h.followIdpRedirect(ctx)
	case stepIdpRedirected:
		err = h.submitCsrfForm(ctx)
	case stepCsrfFormSubmitted:
		err = h.retrieveLoginPage(ctx)
	case stepLoginPageRetrieved:
		err = h.submitCredentials(ctx)
	case stepCredentialsSubmitted:
		err = h.submitSamlResponse(ctx)
	case stepSamlResponseSubmitted:
		err = h.register(ctx)
	case stepRegisteredWithToken:
		h.step = stepLoggedIn
		return nil
	default:
		return fmt.Errorf("unexpected step %d", h.step)
	}
	if err != nil {
		return err
	}
	h.step++
	return nil
}

// initiateSaml starts the SSO flow on the API host, collecting the first
// session cookies.
func (h *handshake) initiateSaml(ctx context.Context) error {
	_, err := h.client.roundTrip(ctx, http.MethodGet, h.apiURL("/sso/saml/login"), "", nil)
	return err
}

// followIdpRedirect loads the IdP entry point and scrapes the CSRF token.
func (h *handshake) followIdpRedirect(ctx context.Context) error {
	body, err := h.client.roundTrip(ctx, http.MethodGet, h.ssoURL("/idp/profile/SAML2/Redirect/SSO"), "", nil)
	if err != nil {
		return err
	}
	token, ok := extractMarker(string(body), csrfAnchor, anchorEnd)
	if !ok {
		return ErrCsrfExtraction
	}
	h.csrfToken = token
	return nil
}

func (h *handshake) submitCsrfForm(ctx context.Context) error {
	form := url.Values{
		"csrf_token":            {h.csrfToken},
		"shib_idp_ls_supported": {"false"},
		"_eventId_proceed":      {""},
	}
	_, err := h.client.roundTrip(ctx, http.MethodPost, h.ssoURL("/idp/profile/SAML2/Redirect/SSO"),
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	return err
}

func (h *handshake) retrieveLoginPage(ctx context.Context) error {
	_, err := h.client.roundTrip(ctx, http.MethodGet, h.ssoURL("/idp/Authn/UserPassword"), "", nil)
	return err
}

// submitCredentials posts the username/password form; the IdP answers with a
// page embedding the SAMLResponse for the service provider.
func (h *handshake) submitCredentials(ctx context.Context) error {
	form := url.Values{
		"j_username":       {h.creds.Username},
		"j_password":       {h.creds.Password},
		"_eventId_proceed": {""},
	}
	body, err := h.client.roundTrip(ctx, http.MethodPost, h.ssoURL("/idp/Authn/UserPassword"),
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	saml, ok := extractMarker(string(body), samlAnchor, anchorEnd)
	if !ok {
		return ErrSamlExtraction
	}
	h.samlResponse = saml
	return nil
}

// submitSamlResponse completes the SSO assertion on the API host and scrapes
// the short-lived temp token out of the response.
func (h *handshake) submitSamlResponse(ctx context.Context) error {
	form := url.Values{"SAMLResponse": {h.samlResponse}}
	body, err := h.client.roundTrip(ctx, http.MethodPost, h.apiURL("/sso/saml/consume"),
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	token, ok := extractMarker(string(body), tempTokenAnchor, anchorEnd)
	if !ok || token == "" {
		return ErrTempTokenMissing
	}
	h.tempToken = token
	return nil
}

type registerResponse struct {
	LoginToken string `json:"loginToken"`
	UserID     string `json:"userId"`
}

// register exchanges the signed temp token for the durable session triple.
// Success here completes the handshake.
func (h *handshake) register(ctx context.Context) error {
	payload := map[string]string{
		"token":      h.tempToken,
		"signature":  h.client.signer.Sign(h.tempToken),
		"session_id": h.client.session.sessionID,
		"platform":   devicePlatform,
		"version":    appVersion,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	body, err := h.client.roundTrip(ctx, http.MethodPost, h.apiURL("/api/register"),
		"application/json", strings.NewReader(string(encoded)))
	if err != nil {
		return err
	}

	var resp registerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: %w", ErrRegistration, err)
	}
	if resp.LoginToken == "" || resp.UserID == "" {
		return ErrRegistration
	}
	h.client.session.loginToken = resp.LoginToken
	h.client.session.userID = resp.UserID
	return nil
}

func (h *handshake) apiURL(path string) string {
	return strings.TrimRight(h.client.apiBase.String(), "/") + path
}

func (h *handshake) ssoURL(path string) string {
	return strings.TrimRight(h.client.ssoBase.String(), "/") + path
}

// extractMarker returns the substring between prefix and suffix anchors.
func extractMarker(body, prefix, suffix string) (string, bool) {
	start := strings.Index(body, prefix)
	if start < 0 {
		return "", false
	}
	rest := body[start+len(prefix):]
	end := strings.Index(rest, suffix)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
