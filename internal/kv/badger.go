package kv

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const (
	valuePrefix    = "v:"
	listPrefix     = "l:"
	sequencePrefix = "s:"

	maxConflictRetries = 16
)

// BadgerStore keeps the shared state in an embedded badger database so a
// single-node deployment survives restarts without Redis. List elements
// are stored under list-scoped keys ordered by a per-list sequence.
type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger

	mu   sync.Mutex
	seqs map[string]*badger.Sequence
	// pop serialises LPop within the process; badger keeps the directory
	// locked so no other process can pop concurrently.
	pop sync.Mutex
}

// BadgerOptions configures OpenBadgerStore. InMemory ignores Path.
type BadgerOptions struct {
	Path     string
	InMemory bool
}

func OpenBadgerStore(opts BadgerOptions, logger *zap.Logger) (*BadgerStore, error) {
	bo := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	}
	bo.Logger = &badgerLogger{logger.Named("badger").Sugar()}

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Path, err)
	}

	return &BadgerStore{
		db:     db,
		logger: logger,
		seqs:   make(map[string]*badger.Sequence),
	}, nil
}

func valueKey(key string) []byte {
	return []byte(valuePrefix + key)
}

func listKeyPrefix(list string) []byte {
	return []byte(listPrefix + list + "\x00")
}

func listKey(list string, seq uint64) []byte {
	k := listKeyPrefix(list)
	return binary.BigEndian.AppendUint64(k, seq)
}

func newEntry(key, value []byte, ttl time.Duration) *badger.Entry {
	e := badger.NewEntry(key, value)
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	return e
}

func (b *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(valueKey(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get %s: %w", key, err)
	}
	return out, nil
}

func (b *BadgerStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(newEntry(valueKey(key), value, ttl))
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

// SetNX reads and writes the key in one serializable transaction. A
// conflicting commit means another writer created the key first.
func (b *BadgerStore) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	created := false
	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(valueKey(key))
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		created = true
		return txn.SetEntry(newEntry(valueKey(key), value, ttl))
	})
	if errors.Is(err, badger.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("badger setnx %s: %w", key, err)
	}
	return created, nil
}

func (b *BadgerStore) sequence(list string) (*badger.Sequence, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if seq, ok := b.seqs[list]; ok {
		return seq, nil
	}
	seq, err := b.db.GetSequence([]byte(sequencePrefix+list), 128)
	if err != nil {
		return nil, err
	}
	b.seqs[list] = seq
	return seq, nil
}

func (b *BadgerStore) RPush(_ context.Context, list string, value string) error {
	seq, err := b.sequence(list)
	if err != nil {
		return fmt.Errorf("badger sequence %s: %w", list, err)
	}
	n, err := seq.Next()
	if err != nil {
		return fmt.Errorf("badger sequence %s: %w", list, err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(listKey(list, n), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badger rpush %s: %w", list, err)
	}
	return nil
}

func (b *BadgerStore) LPop(ctx context.Context, list string) (string, error) {
	b.pop.Lock()
	defer b.pop.Unlock()

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		v, err := b.popHead(list)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return v, err
	}
	return "", fmt.Errorf("badger lpop %s: %w", list, badger.ErrConflict)
}

func (b *BadgerStore) popHead(list string) (string, error) {
	var out string
	err := b.db.Update(func(txn *badger.Txn) error {
		prefix := listKeyPrefix(list)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		it.Seek(prefix)
		if !it.ValidForPrefix(prefix) {
			it.Close()
			return ErrNotFound
		}
		item := it.Item()
		key := item.KeyCopy(nil)
		val, err := item.ValueCopy(nil)
		it.Close()
		if err != nil {
			return err
		}

		out = string(val)
		return txn.Delete(key)
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

func (b *BadgerStore) Ping(context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}

// RunGC runs value-log garbage collection every interval until ctx ends.
func (b *BadgerStore) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				if err := b.db.RunValueLogGC(0.5); err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						b.logger.Debug("badger value log gc", zap.Error(err))
					}
					break
				}
			}
		}
	}
}

func (b *BadgerStore) Close() error {
	b.mu.Lock()
	for list, seq := range b.seqs {
		if err := seq.Release(); err != nil {
			b.logger.Warn("release badger sequence", zap.String("list", list), zap.Error(err))
		}
	}
	b.seqs = map[string]*badger.Sequence{}
	b.mu.Unlock()

	return b.db.Close()
}

// badgerLogger adapts a zap SugaredLogger to badger's Logger interface.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
