package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budgeter/internal/amqp"
	"budgeter/internal/config"
	"budgeter/internal/ledger"
	"budgeter/internal/storage"
	"budgeter/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
	// dialAMQP is replaced in tests.
	dialAMQP func(url, exchange, queue string) (*amqp.Client, error)
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger, dialAMQP: amqp.NewClient}
}

// CreateBackend opens the blob store and wires the committer for the
// configured commit mode.
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := f.createStore(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.CommitMode != config.CommitAsync {
		res.Committer = ledger.NewBlobCommitter(res.Store)
		f.logger.InfoContext(ctx, "Commits are written synchronously", "backend", cfg.Type)
		return res, nil
	}

	client, err := f.dialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		if res.Cleanup != nil {
			_ = res.Cleanup()
		}
		return nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
	}
	f.logger.InfoContext(ctx, "Commits are published to AMQP",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	storeCleanup, storeReady := res.Cleanup, res.Ready
	res.Committer = client
	res.Cleanup = func() error {
		var errs []error
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
		if storeCleanup != nil {
			if err := storeCleanup(); err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
		}
		return errors.Join(errs...)
	}
	res.Ready = func(ctx context.Context) error {
		if !client.Healthy() {
			return errors.New("amqp connection closed")
		}
		if storeReady != nil {
			return storeReady(ctx)
		}
		return nil
	}
	return res, nil
}

func (f *DefaultFactory) createStore(cfg Config) (*BackendResult, error) {
	switch cfg.Type {
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &BackendResult{Store: store, Cleanup: store.Close, Ready: store.Ping}, nil

	case FileBackend:
		store, err := storage.NewFileStore(cfg.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.Info("Initialized file backend", "data_directory", cfg.DataDirectory)
		return &BackendResult{Store: store}, nil

	case MemoryBackend:
		dataDir := cfg.DataDirectory
		if dataDir == "" {
			dataDir = "data"
		}
		f.logger.Info("Initialized memory backend", "seed_directory", dataDir)
		return &BackendResult{Store: memory.NewFromFiles(dataDir)}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
