// Package circuitbreaker wraps an http.RoundTripper with a gobreaker circuit
// breaker so a dead backend fails fast instead of hanging every request.
package circuitbreaker

import (
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrOpen is returned while the breaker rejects requests.
var ErrOpen = errors.New("circuit breaker open")

var errServerStatus = errors.New("server error status")

type Settings struct {
	Name        string
	MaxFailures uint32
	OpenTimeout time.Duration
	Interval    time.Duration
}

type Transport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker[*http.Response]
}

func NewTransport(next http.RoundTripper, s Settings, logger *zap.Logger) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:     s.Name,
		Interval: s.Interval,
		Timeout:  s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Transport{next: next, cb: cb}
}

// RoundTrip counts transport errors and 5xx responses as failures. A 5xx
// response is still handed back to the caller.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.cb.Execute(func() (*http.Response, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	switch {
	case errors.Is(err, errServerStatus):
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, errors.Join(ErrOpen, err)
	default:
		return resp, err
	}
}

func (t *Transport) State() gobreaker.State {
	return t.cb.State()
}
