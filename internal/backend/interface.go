package backend

import (
	"context"

	"github.com/jmoiron/sqlx"

	"masjid/internal/ports"
)

// CleanupFunc releases the resources a backend holds.
type CleanupFunc func() error

// Backend bundles the stores and side-effect clients one process uses. DB
// is nil for the memory backend and Publisher is nil when AMQP is disabled.
type Backend struct {
	Store     ports.Store
	Publisher ports.EventPublisher
	DB        *sqlx.DB
	Cleanup   CleanupFunc
}

// Ready reports whether the database is reachable.
func (b *Backend) Ready(ctx context.Context) error {
	if b.DB == nil {
		return nil
	}
	return b.DB.PingContext(ctx)
}

// Close runs the cleanup function, if any.
func (b *Backend) Close() error {
	if b.Cleanup == nil {
		return nil
	}
	return b.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Backend, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType
	Role Role

	SQLiteDBPath string
	DatabaseURL  string

	// An empty AMQPURL leaves the backend without a publisher.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// Role is the execution role a process runs under. RoleAnon gets a store
// that refuses every write.
type Role string

const (
	RoleService Role = "service"
	RoleAnon    Role = "anon"
)

func (r Role) IsValid() bool {
	return r == RoleService || r == RoleAnon
}
