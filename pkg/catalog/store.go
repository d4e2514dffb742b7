package catalog

import (
	"context"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/vjranagit/queryeditor/pkg/types"
	"go.uber.org/zap"
)

var scenarioPrefix = []byte("scenario/")

// Config holds catalog store configuration
type Config struct {
	Path             string
	InMemory         bool
	CompressionLevel int
}

// DefaultConfig returns default catalog store configuration
func DefaultConfig() *Config {
	return &Config{
		Path:             "./data",
		CompressionLevel: 3,
	}
}

// Store is a scenario catalog persisted in BadgerDB. Scenarios are listed
// in the order they were stored, duplicates included.
type Store struct {
	cfg    *Config
	db     *badger.DB
	codec  *Codec
	logger *zap.Logger
	mu     sync.RWMutex
}

// Open opens or creates the catalog store
func Open(cfg *Config, logger *zap.Logger) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := badger.DefaultOptions(filepath.Join(cfg.Path, "catalog"))
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	codec, err := NewCodec(cfg.CompressionLevel)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create codec: %w", err)
	}

	return &Store{
		cfg:    cfg,
		db:     db,
		codec:  codec,
		logger: logger,
	}, nil
}

// Replace atomically swaps the stored catalog for scenarios
func (s *Store) Replace(ctx context.Context, scenarios []types.Scenario) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([][]byte, len(scenarios))
	for i, sc := range scenarios {
		if sc.ID == "" {
			return fmt.Errorf("scenario at position %d has no id", i)
		}
		rec, err := s.codec.Encode(sc)
		if err != nil {
			return err
		}
		records[i] = rec
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		stale, err := s.keysLocked(txn)
		if err != nil {
			return err
		}
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for i, rec := range records {
			if err := txn.Set(generateKey(uint64(i)), rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	s.logger.Info("Scenario catalog stored", zap.Int("scenarios", len(scenarios)))
	return nil
}

// ListScenarios returns the stored scenarios in order
func (s *Store) ListScenarios(ctx context.Context) ([]types.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var scenarios []types.Scenario
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(scenarioPrefix); it.ValidForPrefix(scenarioPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				sc, err := s.codec.Decode(val)
				if err != nil {
					return err
				}
				scenarios = append(scenarios, sc)
				return nil
			})
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", it.Item().Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	return scenarios, nil
}

// Count returns the number of stored scenarios
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		keys, err := s.keysLocked(txn)
		n = len(keys)
		return err
	})
	return n, err
}

// Close closes the store
func (s *Store) Close() error {
	s.codec.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) keysLocked(txn *badger.Txn) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(scenarioPrefix); it.ValidForPrefix(scenarioPrefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}

// generateKey builds an order preserving key for position seq
func generateKey(seq uint64) []byte {
	key := make([]byte, len(scenarioPrefix)+8)
	copy(key, scenarioPrefix)
	binary.BigEndian.PutUint64(key[len(scenarioPrefix):], seq)
	return key
}
