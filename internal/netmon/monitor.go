// Package netmon answers "is the network usable right now" and provides a
// best-effort polling feed of connectivity changes.
package netmon

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultProbeTimeout = 2 * time.Second
)

// DialFunc matches net.DialTimeout and exists so tests can fake the probe.
type DialFunc func(network, address string, timeout time.Duration) (net.Conn, error)

// Monitor probes reachability of the warehouse service endpoint.
type Monitor struct {
	address      string
	pollInterval time.Duration
	probeTimeout time.Duration
	dial         DialFunc
}

// New creates a monitor probing the given host:port address.
func New(address string, pollInterval, probeTimeout time.Duration) *Monitor {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	return &Monitor{
		address:      address,
		pollInterval: pollInterval,
		probeTimeout: probeTimeout,
		dial:         net.DialTimeout,
	}
}

// NewFromURL derives the probe address from a service base URL.
func NewFromURL(baseURL string, pollInterval, probeTimeout time.Duration) (*Monitor, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("base URL %q has no host", baseURL)
	}
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return New(net.JoinHostPort(host, port), pollInterval, probeTimeout), nil
}

// SetDialFunc replaces the probe dialer. Intended for tests.
func (m *Monitor) SetDialFunc(dial DialFunc) {
	m.dial = dial
}

// IsAvailable performs a synchronous point-in-time reachability check.
// No caching: every call probes the endpoint.
func (m *Monitor) IsAvailable() bool {
	conn, err := m.dial("tcp", m.address, m.probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Observe returns a fresh stream of availability samples taken at the poll
// interval. The stream is a liveness signal, not a delivery guarantee:
// slow consumers drop samples, and the channel closes when the context is
// cancelled. Each call starts an independent, restartable stream.
func (m *Monitor) Observe(done <-chan struct{}) <-chan bool {
	out := make(chan bool, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(m.pollInterval)
		defer ticker.Stop()

		emit := func(v bool) {
			select {
			case out <- v:
			default: // consumer is behind, drop the sample
			}
		}

		emit(m.IsAvailable())
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				emit(m.IsAvailable())
			}
		}
	}()
	return out
}
