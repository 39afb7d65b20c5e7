package backend

import (
	"context"
	"errors"
	"fmt"

	"masjid/internal/amqp"
	applog "masjid/internal/log"
	"masjid/internal/memory"
	"masjid/internal/ports"
	"masjid/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *DefaultFactory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateBackend builds the store for config.Type, attaches the AMQP
// publisher when configured and applies the role wrapper.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Backend, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		b   *Backend
		err error
	)
	switch config.Type {
	case MemoryBackend:
		b = f.createMemoryBackend()
	case SQLiteBackend:
		b, err = f.createSQLBackend(ctx, storage.SQLite, config.SQLiteDBPath)
	case PostgresBackend:
		b, err = f.createSQLBackend(ctx, storage.Postgres, config.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.AMQPURL != "" {
		f.attachPublisher(b, config)
	}

	if config.Role == RoleAnon {
		b.Store = ReadOnly(b.Store)
		f.logger.Info("Client role is anon, writes are disabled")
	}
	return b, nil
}

func (f *DefaultFactory) createMemoryBackend() *Backend {
	f.logger.Info("Initialized memory backend")
	return &Backend{Store: memory.New()}
}

func (f *DefaultFactory) createSQLBackend(ctx context.Context, dialect storage.Dialect, dsn string) (*Backend, error) {
	db, err := storage.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	if err := storage.RunMigrations(dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run %s migrations: %w", dialect, err)
	}
	repo := storage.NewRepository(db)

	f.logger.Info("Initialized SQL backend", "dialect", dialect)
	return &Backend{
		Store:   repo,
		DB:      db,
		Cleanup: repo.Close,
	}, nil
}

// attachPublisher connects to the broker. A broker that is down at startup
// only disables publishing; the mirror worker's sweep still picks up the
// audit rows.
func (f *DefaultFactory) attachPublisher(b *Backend, config Config) {
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	b.Publisher = client
	storeCleanup := b.Cleanup
	b.Cleanup = func() error {
		var errs []error
		errs = append(errs, client.Close())
		if storeCleanup != nil {
			errs = append(errs, storeCleanup())
		}
		return errors.Join(errs...)
	}
}

var _ ports.Store = (*storage.Repository)(nil)
