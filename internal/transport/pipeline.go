// Package transport is the single choke point for calls to the reasoning
// service. Outbound, it attaches the bearer credential; inbound, it detects
// credential expiry and reacts exactly once per debounce window no matter
// how many requests fail together.
package transport

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Stage wraps a round tripper with additional behaviour. Stages compose
// into the pipeline with Chain.
type Stage func(http.RoundTripper) http.RoundTripper

// Chain composes stages around base. The first stage is outermost: it sees
// the request first and the response last.
func Chain(base http.RoundTripper, stages ...Stage) http.RoundTripper {
	rt := base
	for i := len(stages) - 1; i >= 0; i-- {
		rt = stages[i](rt)
	}
	return rt
}

// NewBaseTransport returns the innermost round tripper. With a cache
// directory it layers a disk-backed HTTP cache so cacheable GETs survive
// restarts; otherwise it is the default transport.
func NewBaseTransport(cacheDir string) http.RoundTripper {
	if cacheDir == "" {
		return http.DefaultTransport
	}
	return httpcache.NewTransport(diskcache.New(cacheDir))
}

// NewMemoryCacheTransport returns a transport with in-memory response
// caching only.
func NewMemoryCacheTransport() http.RoundTripper {
	return httpcache.NewTransport(httpcache.NewMemoryCache())
}

// TokenSource supplies the current bearer credential; empty means logged
// out.
type TokenSource interface {
	Token() string
}

// Bearer attaches the held credential to every outgoing request as
// Authorization: Bearer <token>. Requests issued while logged out pass
// through untouched. This stage cannot fail.
func Bearer(tokens TokenSource) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if token := tokens.Token(); token != "" {
				req = req.Clone(req.Context())
				req.Header.Set("Authorization", "Bearer "+token)
			}
			return next.RoundTrip(req)
		})
	}
}

// RequestID stamps each outgoing request with a unique X-Request-Id so
// client and service logs can be correlated.
func RequestID() Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			req.Header.Set("X-Request-Id", uuid.New().String())
			return next.RoundTrip(req)
		})
	}
}

// Logging records each round-trip with its duration and status.
func Logging(logger zerolog.Logger) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			started := time.Now()

			res, err := next.RoundTrip(req)
			if err != nil {
				logger.Error().
					Err(err).
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Dur("duration", time.Since(started)).
					Msg("http call")
				return res, err
			}

			logger.Debug().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.StatusCode).
				Dur("duration", time.Since(started)).
				Msg("http call")

			return res, nil
		})
	}
}

// Sessions is the slice of session state the expiry stage owns: the
// test-and-set debounce and the ability to wipe the credential trio.
type Sessions interface {
	BeginRelogin() bool
	Clear() error
}

// Redirector lets the expiry stage send the user back to the login
// destination.
type Redirector interface {
	AtLogin() bool
	RedirectToLogin()
}

// Notifier surfaces the one-time session-expired notice to the user.
type Notifier interface {
	Notice(msg string)
}

// ExpiredSession handles 401 responses centrally. The first failure within
// the debounce window clears the session (memory and durable mirror),
// surfaces one notice, and redirects to login unless the user is already
// there. Later failures inside the window propagate to their callers with
// no side effects. Responses other than 401, and transport errors, pass
// through untouched.
func ExpiredSession(sessions Sessions, nav Redirector, notify Notifier) Stage {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			res, err := next.RoundTrip(req)
			if err != nil || res.StatusCode != http.StatusUnauthorized {
				return res, err
			}

			if sessions.BeginRelogin() {
				if cerr := sessions.Clear(); cerr != nil {
					log.Error().Err(cerr).Msg("failed to clear expired session")
				}
				notify.Notice("session expired, please log in again")
				if !nav.AtLogin() {
					nav.RedirectToLogin()
				}
				log.Debug().Str("path", req.URL.Path).Msg("credential expired, session cleared")
			}

			return res, nil
		})
	}
}
