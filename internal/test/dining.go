package test

import (
	"io"
	"log/slog"

	"github.com/polkiloo/campusorder/internal/adapter/dining"
)

// DiningFactoryStub hands out clients bound to unreachable endpoints. No
// network traffic happens until a client method is invoked.
type DiningFactoryStub struct {
	CredentialsFn func(dining.Credentials) (*dining.Client, error)
	TokenFn       func(dining.Token) (*dining.Client, error)
}

func stubFactory() dining.Factory {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return dining.NewFactory(dining.Config{
		APIBaseURL:   "http://dining.invalid",
		SSOBaseURL:   "http://sso.invalid",
		SharedSecret: "shared-secret",
	}, logger)
}

// WithCredentials delegates to override or builds an offline client.
func (s DiningFactoryStub) WithCredentials(creds dining.Credentials) (*dining.Client, error) {
	if s.CredentialsFn != nil {
		return s.CredentialsFn(creds)
	}
	return stubFactory().WithCredentials(creds)
}

// WithToken delegates to override or builds an offline client.
func (s DiningFactoryStub) WithToken(token dining.Token) (*dining.Client, error) {
	if s.TokenFn != nil {
		return s.TokenFn(token)
	}
	return stubFactory().WithToken(token)
}

var _ dining.Factory = DiningFactoryStub{}
