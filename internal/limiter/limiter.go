package limiter

import "context"

// Limiter throttles requests per client key (usually the client IP).
// The routes that call the weather provider sit behind it so one client
// cannot burn through the shared API key.
type Limiter interface {
	// Allow reports whether one more request for key fits in the budget.
	// A non-nil error means the limiter itself failed.
	Allow(ctx context.Context, key string) (bool, error)

	// Close cleans up any resources (Redis connections, etc.)
	Close() error
}

// Unlimited allows everything. Used when throttling is switched off.
type Unlimited struct{}

// Allow implements the Limiter interface
func (Unlimited) Allow(context.Context, string) (bool, error) { return true, nil }

// Close implements the Limiter interface
func (Unlimited) Close() error { return nil }
