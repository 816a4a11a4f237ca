// Package upstream implements the network-facing DNS client consumed by the
// caching lookup core. It forwards queries to configured upstream servers
// over UDP and hands raw decoded responses back to the service layer.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/nvale/rr-cache/internal/dns/domain"
	"github.com/nvale/rr-cache/internal/dns/gateways/wire"
	"github.com/nvale/rr-cache/internal/dns/services/lookup"
)

// Error message constants for consistent error handling
const (
	errServerFailed     = "server %s: %w"
	errAllServersFailed = "all %d upstream servers failed"
	errQueryTimeout     = "query timeout after %v"
	errFailedToConnect  = "failed to connect: %w"
	errEncodeFailed     = "encode failed: %w"
	errWriteFailed      = "write failed: %w"
	errReadFailed       = "read failed: %w"
)

// DialFunc establishes a network connection. It takes a context for
// cancellation, the network type, and the address, matching
// net.Dialer.DialContext so tests can substitute an in-memory pipe.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Client forwards DNS queries to upstream servers. It handles the socket
// and wire-format concerns while the caching core supplies all policy.
type Client struct {
	servers  []string
	timeout  time.Duration
	codec    wire.DNSCodec
	parallel bool
	dnssec   bool
	dial     DialFunc
}

// Options configures an upstream Client. Servers and Codec are required.
type Options struct {
	Servers  []string
	Timeout  time.Duration
	Parallel bool
	// DNSSEC marks this client's responses as validated, which governs
	// whether the caching layer may cache negative answers.
	DNSSEC bool
	// injectable for testing
	Codec wire.DNSCodec
	Dial  DialFunc
}

// NewClient creates an upstream client from the given options. The timeout
// defaults to 5 seconds and the dialer to net.Dialer.
func NewClient(opts Options) (*Client, error) {
	if len(opts.Servers) == 0 {
		return nil, errors.New("no upstream DNS servers provided")
	}
	if opts.Codec == nil {
		return nil, errors.New("DNS codec is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Dial == nil {
		opts.Dial = (&net.Dialer{}).DialContext
	}
	return &Client{
		servers:  opts.Servers,
		timeout:  opts.Timeout,
		codec:    opts.Codec,
		parallel: opts.Parallel,
		dnssec:   opts.DNSSEC,
		dial:     opts.Dial,
	}, nil
}

// IsVerifyingDNSSEC reports whether responses from this client have been
// DNSSEC-validated before delivery.
func (c *Client) IsVerifyingDNSSEC() bool {
	return c.dnssec
}

// Resolve forwards the question to the configured servers, serially or in
// parallel, honoring any deadline already on the context or applying the
// client's default timeout.
func (c *Client) Resolve(ctx context.Context, q domain.Question) (domain.DNSResponse, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.parallel {
		return c.resolveParallel(ctx, q)
	}
	return c.resolveSerial(ctx, q)
}

// resolveSerial queries each server in order until one responds.
func (c *Client) resolveSerial(ctx context.Context, q domain.Question) (domain.DNSResponse, error) {
	var lastErr error
	for _, server := range c.servers {
		resp, err := c.queryServer(ctx, server, q)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return domain.DNSResponse{}, fmt.Errorf(errAllServersFailed+": %w", len(c.servers), lastErr)
}

// resolveParallel races all servers and returns the first success.
func (c *Client) resolveParallel(ctx context.Context, q domain.Question) (domain.DNSResponse, error) {
	responseChan := make(chan domain.DNSResponse, 1)
	errorChan := make(chan error, len(c.servers))

	for _, server := range c.servers {
		go func(srv string) {
			resp, err := c.queryServer(ctx, srv, q)
			if err != nil {
				errorChan <- fmt.Errorf(errServerFailed, srv, err)
				return
			}
			select {
			case responseChan <- resp:
			default: // another server already won
			}
		}(server)
	}

	var errs []error
	for i := 0; i < len(c.servers); i++ {
		select {
		case resp := <-responseChan:
			return resp, nil
		case err := <-errorChan:
			errs = append(errs, err)
		case <-ctx.Done():
			return domain.DNSResponse{}, fmt.Errorf(errQueryTimeout, c.timeout)
		}
	}
	return domain.DNSResponse{}, fmt.Errorf(errAllServersFailed+": %v", len(c.servers), errs)
}

// queryServer performs one UDP exchange with context cancellation support.
func (c *Client) queryServer(ctx context.Context, server string, q domain.Question) (domain.DNSResponse, error) {
	conn, err := c.dial(ctx, "udp", server)
	if err != nil {
		return domain.DNSResponse{}, fmt.Errorf(errFailedToConnect, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	queryBytes, err := c.codec.EncodeQuery(q)
	if err != nil {
		return domain.DNSResponse{}, fmt.Errorf(errEncodeFailed, err)
	}

	type result struct {
		response domain.DNSResponse
		err      error
	}
	resultChan := make(chan result, 1)

	go func() {
		if _, err := conn.Write(queryBytes); err != nil {
			resultChan <- result{err: fmt.Errorf(errWriteFailed, err)}
			return
		}

		buffer := make([]byte, 512)
		n, err := conn.Read(buffer)
		if err != nil {
			resultChan <- result{err: fmt.Errorf(errReadFailed, err)}
			return
		}

		response, err := c.codec.DecodeResponse(buffer[:n], q.ID)
		resultChan <- result{response: response, err: err}
	}()

	select {
	case res := <-resultChan:
		return res.response, res.err
	case <-ctx.Done():
		return domain.DNSResponse{}, ctx.Err()
	}
}

var _ lookup.UpstreamClient = (*Client)(nil)
