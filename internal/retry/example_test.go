package retry_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scout-apm/agentcore/internal/retry"
)

var ErrNotYetListening = errors.New("core agent socket not yet listening")

// Example demonstrates waiting for a freshly spawned core agent process
// to open its socket, as internal/lifecycle does during launch-mode
// Setup.
func Example() {
	attempt := 0
	probe := func() bool { attempt++; return attempt >= 3 }

	cfg := retry.Config{
		MaxRetries:     5,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
		Jitter:         0.1,
	}

	err := retry.Do(context.Background(), cfg, func() error {
		if !probe() {
			return ErrNotYetListening
		}
		return nil
	}, func(err error) bool {
		return errors.Is(err, ErrNotYetListening)
	})

	if err != nil {
		fmt.Printf("Failed: %v\n", err)
	} else {
		fmt.Printf("Socket ready after %d probes\n", attempt)
	}
	// Output: Socket ready after 3 probes
}

// Example_withTimeout demonstrates a bounded wait: the process never
// opens its socket before the context deadline.
func Example_withTimeout() {
	cfg := retry.Config{
		MaxRetries:     5,
		InitialBackoff: 100 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := retry.Do(ctx, cfg, func() error {
		return ErrNotYetListening
	}, nil)

	if errors.Is(err, context.DeadlineExceeded) {
		fmt.Println("Operation timed out")
	} else {
		fmt.Printf("Failed: %v\n", err)
	}
	// Output: Operation timed out
}
