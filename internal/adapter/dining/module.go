package dining

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/campusorder/internal/config"
)

// Factory builds session clients. One client per logical session: a client is
// not safe for concurrent use during its handshake.
type Factory interface {
	WithCredentials(creds Credentials) (*Client, error)
	WithToken(token Token) (*Client, error)
}

type clientFactory struct {
	cfg    Config
	logger *slog.Logger
}

func (f *clientFactory) WithCredentials(creds Credentials) (*Client, error) {
	return NewClient(f.cfg, creds, f.logger)
}

func (f *clientFactory) WithToken(token Token) (*Client, error) {
	return NewTokenClient(f.cfg, token, f.logger)
}

// NewFactory builds a client factory for the given platform endpoints.
func NewFactory(cfg Config, logger *slog.Logger) Factory {
	return &clientFactory{cfg: cfg, logger: logger}
}

// Module exposes the dining client factory to the fx graph.
var Module = fx.Provide(newFactory)

type factoryParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newFactory(p factoryParams) Factory {
	return NewFactory(Config{
		APIBaseURL:   p.Config.DiningAPIAddress,
		SSOBaseURL:   p.Config.DiningSSOAddress,
		SharedSecret: p.Config.DiningSharedSecret,
	}, p.Logger)
}
