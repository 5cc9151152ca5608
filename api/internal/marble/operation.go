package marble

import (
	"context"
	"fmt"
	"time"
)

// Operation is a handle to asynchronous work on the service. Poll it until
// Done; then exactly one of Response or Error carries the outcome.
type Operation struct {
	OperationID string          `json:"operation_id"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	Done        bool            `json:"done"`
	Error       *OperationError `json:"error,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	Response    *World          `json:"response,omitempty"`
}

// Err returns the operation's error payload as an error, or nil if the
// operation did not fail.
func (o *Operation) Err() error {
	if o.Error == nil {
		return nil
	}
	return o.Error
}

// PollOptions controls PollOperation. Zero values mean the defaults:
// 5s interval, no growth, 10m timeout.
type PollOptions struct {
	// Interval between status fetches.
	Interval time.Duration
	// Multiplier grows the interval after each fetch when > 1.
	Multiplier float64
	// MaxInterval caps the grown interval.
	MaxInterval time.Duration
	// Timeout bounds the whole poll; < 0 disables the bound.
	Timeout time.Duration
}

const (
	defaultPollInterval = 5 * time.Second
	defaultPollTimeout  = 10 * time.Minute
)

// PollOperation fetches the operation until it reports done, then returns
// it — including a failed one: an error payload inside a completed
// operation is the caller's to inspect (see Operation.Err), not a transport
// failure. Times out per opts and stops early when ctx is cancelled.
func (c *Client) PollOperation(ctx context.Context, operationID string, opts PollOptions) (*Operation, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultPollTimeout
	}

	start := time.Now()
	for {
		op, err := c.GetOperation(ctx, operationID)
		if err != nil {
			return nil, err
		}
		if op.Done {
			return op, nil
		}
		if timeout > 0 && time.Since(start) > timeout {
			return nil, fmt.Errorf("operation %s did not complete within %v", operationID, timeout)
		}

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}

		if opts.Multiplier > 1 {
			interval = time.Duration(float64(interval) * opts.Multiplier)
			if opts.MaxInterval > 0 && interval > opts.MaxInterval {
				interval = opts.MaxInterval
			}
		}
	}
}
