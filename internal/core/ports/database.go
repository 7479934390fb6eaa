// internal/core/ports/database.go
package ports

import "context"

// Database abstracts the connection pool for components that only need
// liveness information.
type Database interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) map[string]interface{}
}
