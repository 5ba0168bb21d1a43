package forwarder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"
)

// describeTransportError turns low level client errors into something an
// operator can act on. The original error stays wrapped.
func describeTransportError(err error, duration time.Duration) error {
	if err == nil {
		return nil
	}

	secs := duration.Seconds()

	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("request cancelled after %.1fs, client went away: %w", secs, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("upstream timed out after %.1fs: %w", secs, err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("upstream closed the connection after %.1fs: %w", secs, err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("upstream refused the connection: %w", err)
	case errors.Is(err, syscall.ECONNRESET):
		return fmt.Errorf("upstream reset the connection after %.1fs: %w", secs, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("cannot resolve upstream host %s: %w", dnsErr.Name, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("upstream timed out after %.1fs: %w", secs, err)
	}

	return err
}
