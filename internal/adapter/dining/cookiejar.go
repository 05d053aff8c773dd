package dining

import (
	"net/http"
	"strings"
)

// CookieJar accumulates session cookies across the handshake round trips.
// The upstream expects a bare "name=value; name=value" Cookie header with no
// attributes, so the standard net/http cookie jar is deliberately not used.
// Last write per name wins; first insertion order is preserved. Not safe for
// concurrent use.
type CookieJar struct {
	names  []string
	values map[string]string
}

// NewCookieJar creates an empty jar.
func NewCookieJar() *CookieJar {
	return &CookieJar{values: make(map[string]string)}
}

// Store folds every Set-Cookie entry of a response into the jar, dropping
// all cookie attributes (Path, Secure, ...).
func (j *CookieJar) Store(headers http.Header) {
	for _, raw := range headers.Values("Set-Cookie") {
		pair := raw
		if idx := strings.Index(pair, ";"); idx >= 0 {
			pair = pair[:idx]
		}
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if _, seen := j.values[name]; !seen {
			j.names = append(j.names, name)
		}
		j.values[name] = value
	}
}

// Header renders the accumulated cookies as a Cookie header value.
func (j *CookieJar) Header() string {
	pairs := make([]string, 0, len(j.names))
	for _, name := range j.names {
		pairs = append(pairs, name+"="+j.values[name])
	}
	return strings.Join(pairs, "; ")
}
