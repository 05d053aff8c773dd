package dining

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Device fingerprint the upstream mobile app sends with every request.
const (
	userAgent      = "CampusDining/4.11.2 (Android 13; mobile)"
	appVersion     = "4.11.2"
	devicePlatform = "android"
)

// Config carries the endpoints and shared secret of the dining platform.
type Config struct {
	// APIBaseURL is the dining API host.
	APIBaseURL string
	// SSOBaseURL is the identity-provider host used during login.
	SSOBaseURL string
	// SharedSecret keys the registration HMAC.
	SharedSecret string
}

// session is the mutable per-client authentication state. The jar and the
// token fields are mutated throughout the handshake, which is why a single
// client must not be shared across goroutines while logging in.
type session struct {
	sessionID  string
	userID     string
	loginToken string
	jar        *CookieJar
}

// Client is an authenticated session against the dining platform. Build one
// per logical session; see NewClient and NewTokenClient.
type Client struct {
	apiBase    *url.URL
	ssoBase    *url.URL
	signer     *Signer
	httpClient *http.Client
	logger     *slog.Logger

	creds   *Credentials
	session session
}

func newClient(cfg Config, logger *slog.Logger) (*Client, error) {
	apiBase, err := parseBaseURL(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	ssoBase, err := parseBaseURL(cfg.SSOBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse sso url: %w", err)
	}
	return &Client{
		apiBase: apiBase,
		ssoBase: ssoBase,
		signer:  NewSigner(cfg.SharedSecret),
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		session: session{
			sessionID: strconv.FormatInt(time.Now().UnixMilli(), 10),
			jar:       NewCookieJar(),
		},
	}, nil
}

// NewClient builds a credentials-mode client. Login must be called before any
// authenticated operation.
func NewClient(cfg Config, creds Credentials, logger *slog.Logger) (*Client, error) {
	c, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.creds = &creds
	return c, nil
}

// NewTokenClient builds a client from a durable session token. It is ready
// for authenticated operations immediately; Login fails with
// ErrCredentialsMissing.
func NewTokenClient(cfg Config, token Token, logger *slog.Logger) (*Client, error) {
	c, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	c.session.userID = token.UserID
	c.session.loginToken = token.LoginToken
	if token.SessionID != "" {
		c.session.sessionID = token.SessionID
	}
	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("url must be absolute")
	}
	return parsed, nil
}

// Session returns the durable token triple of a logged-in client.
func (c *Client) Session() Token {
	return Token{
		UserID:     c.session.userID,
		LoginToken: c.session.loginToken,
		SessionID:  c.session.sessionID,
	}
}

// Login runs the SSO handshake and fills the session token. On a
// token-constructed client it fails with ErrCredentialsMissing without any
// network traffic.
func (c *Client) Login(ctx context.Context) error {
	if c.creds == nil {
		return ErrCredentialsMissing
	}
	h := &handshake{client: c, creds: *c.creds}
	if err := h.run(ctx); err != nil {
		return err
	}
	// Informational only; the upstream app issues it after registration but
	// ignores the outcome.
	if err := c.loginWithToken(ctx); err != nil {
		c.logger.Warn("post-registration login failed", slog.String("error", err.Error()))
	}
	return nil
}

// roundTrip performs one HTTP exchange: current cookies out, Set-Cookie
// folded back in, body returned.
func (c *Client) roundTrip(ctx context.Context, method, rawURL, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	c.fingerprint(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie := c.session.jar.Header(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.session.jar.Store(resp.Header)

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Error("upstream request failed",
			slog.String("url", rawURL),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("upstream error: %s", resp.Status)
	}
	return payload, nil
}

func (c *Client) fingerprint(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-App-Version", appVersion)
	req.Header.Set("X-Device-Platform", devicePlatform)
	req.Header.Set("Accept", "*/*")
}

// authorized performs one authenticated API exchange with the session
// identifiers as headers, JSON-encoding payload when present and decoding
// the response into out when non-nil.
func (c *Client) authorized(ctx context.Context, method, apiPath string, query url.Values, payload, out any) error {
	endpoint := *c.apiBase
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + apiPath
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	c.fingerprint(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("user-id", c.session.userID)
	req.Header.Set("session-id", c.session.sessionID)
	req.Header.Set("login-token", c.session.loginToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Error("api request failed",
			slog.String("path", apiPath),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return fmt.Errorf("api error: %s", resp.Status)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s response: %w", apiPath, err)
		}
	}
	return nil
}

func (c *Client) loginWithToken(ctx context.Context) error {
	payload := map[string]string{
		"userid":     c.session.userID,
		"logintoken": c.session.loginToken,
		"session_id": c.session.sessionID,
	}
	if err := c.authorized(ctx, http.MethodPost, "/api/login_token", nil, payload, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrLoginWithToken, err)
	}
	return nil
}

// Menu fetches the menu for a location as raw JSON passthrough.
func (c *Client) Menu(ctx context.Context, locationID string) (json.RawMessage, error) {
	var out json.RawMessage
	query := url.Values{"locationid": {locationID}}
	if err := c.authorized(ctx, http.MethodGet, "/api/menu", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Locations lists pickup locations available to the account.
func (c *Client) Locations(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.authorized(ctx, http.MethodGet, "/api/locations", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PaymentMethods lists the account's meal-plan/payment options.
func (c *Client) PaymentMethods(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.authorized(ctx, http.MethodGet, "/api/payment_methods", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderHistory lists past orders of the account.
func (c *Client) OrderHistory(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.authorized(ctx, http.MethodGet, "/api/orders/history", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderStatus queries the current status payload of a submitted order.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (*OrderStatusPayload, error) {
	var out OrderStatusPayload
	query := url.Values{"orderid": {orderID}}
	if err := c.authorized(ctx, http.MethodGet, "/api/orders/status", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
