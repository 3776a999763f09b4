package port

import "context"

type HealthChecker interface {
	// Name identifies the backing store, e.g. the database file or schema.
	Name() string
	PingContext(ctx context.Context) error
}
