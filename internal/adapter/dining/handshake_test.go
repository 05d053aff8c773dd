package dining

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// ssoFixture is an httptest server playing both the dining API and the IdP.
type ssoFixture struct {
	server *httptest.Server

	registerSignature atomic.Value
	loginTokenCalls   atomic.Int64

	// breakStep short-circuits one path with an empty body to provoke
	// extraction failures.
	breakPath string
}

func newSSOFixture(t *testing.T) *ssoFixture {
	t.Helper()
	f := &ssoFixture{}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /sso/saml/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "api-session", Path: "/"})
	})
	mux.HandleFunc("GET /idp/profile/SAML2/Redirect/SSO", func(w http.ResponseWriter, r *http.Request) {
		if f.breakPath == "idp-entry" {
			io.WriteString(w, "<html>no token here</html>")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "shib_idp_session", Value: "idp-session", HttpOnly: true})
		io.WriteString(w, `<input type="hidden" name="csrf_token" value="csrf-42"/>`)
	})
	mux.HandleFunc("POST /idp/profile/SAML2/Redirect/SSO", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("csrf_token") != "csrf-42" {
			http.Error(w, "bad csrf", http.StatusForbidden)
			return
		}
	})
	mux.HandleFunc("GET /idp/Authn/UserPassword", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<form>login</form>")
	})
	mux.HandleFunc("POST /idp/Authn/UserPassword", func(w http.ResponseWriter, r *http.Request) {
		if f.breakPath == "credentials" {
			io.WriteString(w, "<html>authentication failed</html>")
			return
		}
		if r.FormValue("j_username") != "student" || r.FormValue("j_password") != "hunter2" {
			io.WriteString(w, "<html>authentication failed</html>")
			return
		}
		io.WriteString(w, `<input type="hidden" name="SAMLResponse" value="c2FtbA=="/>`)
	})
	mux.HandleFunc("POST /sso/saml/consume", func(w http.ResponseWriter, r *http.Request) {
		if f.breakPath == "consume" {
			io.WriteString(w, `{"status":"error"}`)
			return
		}
		if r.FormValue("SAMLResponse") != "c2FtbA==" {
			http.Error(w, "bad assertion", http.StatusForbidden)
			return
		}
		io.WriteString(w, `{"token":"temp-token-123"}`)
	})
	mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		if f.breakPath == "register" {
			io.WriteString(w, `{}`)
			return
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "bad payload", http.StatusBadRequest)
			return
		}
		f.registerSignature.Store(payload["signature"])
		io.WriteString(w, `{"loginToken":"durable-token","userId":"u-77"}`)
	})
	mux.HandleFunc("POST /api/login_token", func(w http.ResponseWriter, r *http.Request) {
		f.loginTokenCalls.Add(1)
		io.WriteString(w, `{}`)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *ssoFixture) config() Config {
	return Config{
		APIBaseURL:   f.server.URL,
		SSOBaseURL:   f.server.URL,
		SharedSecret: "shared-secret",
	}
}

func TestLoginHandshakeSucceeds(t *testing.T) {
	fixture := newSSOFixture(t)
	client, err := NewClient(fixture.config(), Credentials{Username: "student", Password: "hunter2"}, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.Login(context.Background()); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	token := client.Session()
	if token.LoginToken != "durable-token" {
		t.Fatalf("expected durable token, got %q", token.LoginToken)
	}
	if token.UserID != "u-77" {
		t.Fatalf("expected user id u-77, got %q", token.UserID)
	}
	if token.SessionID == "" {
		t.Fatal("expected generated session id")
	}

	// The registration payload signs the temp token with the shared secret.
	want := NewSigner("shared-secret").Sign("temp-token-123")
	if got, _ := fixture.registerSignature.Load().(string); got != want {
		t.Fatalf("expected signature %s, got %s", want, got)
	}
	if fixture.loginTokenCalls.Load() != 1 {
		t.Fatalf("expected one post-registration login call, got %d", fixture.loginTokenCalls.Load())
	}
}

func TestLoginHandshakeStepFailures(t *testing.T) {
	cases := []struct {
		name      string
		breakPath string
		wantErr   error
	}{
		{name: "missing csrf token", breakPath: "idp-entry", wantErr: ErrCsrfExtraction},
		{name: "missing saml response", breakPath: "credentials", wantErr: ErrSamlExtraction},
		{name: "missing temp token", breakPath: "consume", wantErr: ErrTempTokenMissing},
		{name: "registration rejected", breakPath: "register", wantErr: ErrRegistration},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := newSSOFixture(t)
			fixture.breakPath = tc.breakPath
			client, err := NewClient(fixture.config(), Credentials{Username: "student", Password: "hunter2"}, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			err = client.Login(context.Background())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoginWrongPasswordFailsSamlExtraction(t *testing.T) {
	fixture := newSSOFixture(t)
	client, err := NewClient(fixture.config(), Credentials{Username: "student", Password: "wrong"}, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.Login(context.Background()); !errors.Is(err, ErrSamlExtraction) {
		t.Fatalf("expected saml extraction error, got %v", err)
	}
}

func TestLoginSurvivesTokenLoginFailure(t *testing.T) {
	fixture := newSSOFixture(t)
	inner := fixture.server.Config.Handler
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/login_token" {
			http.Error(w, "nope", http.StatusUnauthorized)
			return
		}
		inner.ServeHTTP(w, r)
	}))
	defer proxy.Close()

	cfg := Config{APIBaseURL: proxy.URL, SSOBaseURL: proxy.URL, SharedSecret: "shared-secret"}
	client, err := NewClient(cfg, Credentials{Username: "student", Password: "hunter2"}, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.Login(context.Background()); err != nil {
		t.Fatalf("expected login to succeed despite token-login failure, got %v", err)
	}
	if client.Session().LoginToken != "durable-token" {
		t.Fatal("expected session token despite token-login failure")
	}
}

func TestHandshakeStepString(t *testing.T) {
	steps := map[handshakeStep]string{
		stepStart:                 "start",
		stepSamlInitiated:         "saml_initiated",
		stepIdpRedirected:         "idp_redirected",
		stepCsrfFormSubmitted:     "csrf_form_submitted",
		stepLoginPageRetrieved:    "login_page_retrieved",
		stepCredentialsSubmitted:  "credentials_submitted",
		stepSamlResponseSubmitted: "saml_response_submitted",
		stepRegisteredWithToken:   "registered_with_token",
		stepLoggedIn:              "logged_in",
		handshakeStep(99):         "unknown",
	}
	for step, want := range steps {
		if got := step.String(); got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

func TestExtractMarker(t *testing.T) {
	body := `<input name="csrf_token" value="abc"/>`
	if got, ok := extractMarker(body, csrfAnchor, anchorEnd); !ok || got != "abc" {
		t.Fatalf("expected abc, got %q ok=%v", got, ok)
	}
	if _, ok := extractMarker("no anchors", csrfAnchor, anchorEnd); ok {
		t.Fatal("expected extraction failure")
	}
	if _, ok := extractMarker(`name="csrf_token" value="unterminated`, csrfAnchor, anchorEnd); ok {
		t.Fatal("expected failure on missing suffix")
	}
}
