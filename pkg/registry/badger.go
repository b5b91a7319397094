package registry

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"

	"github.com/matzehuels/molcanon/pkg/errors"
)

var keyPrefix = []byte("key/")

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM, for tests.
	InMemory bool
	// Logger receives badger's internal messages. Nil silences them.
	Logger *log.Logger
}

// BadgerStore is an embedded on-disk Store. Entries are JSON values under
// "key/<canonical key>".
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens or creates the database.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "badger registry needs a path")
		}
		if err := os.MkdirAll(cfg.Path, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "create %s", cfg.Path)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{cfg.Logger.WithPrefix("badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open badger registry")
	}
	return &BadgerStore{db: db}, nil
}

func entryKey(k string) []byte {
	return append(append([]byte{}, keyPrefix...), k...)
}

func (s *BadgerStore) Put(ctx context.Context, e Entry) (Entry, bool, error) {
	e, err := prepare(e)
	if err != nil {
		return Entry{}, false, err
	}
	var (
		result  Entry
		created bool
	)
	for attempt := 0; attempt < 3; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(entryKey(e.Key))
			if err == nil {
				created = false
				return item.Value(func(val []byte) error {
					return json.Unmarshal(val, &result)
				})
			}
			if !stderrors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			data, err := json.Marshal(e)
			if err != nil {
				return err
			}
			result, created = e, true
			return txn.Set(entryKey(e.Key), data)
		})
		if !stderrors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return Entry{}, false, errors.Wrap(errors.ErrCodeStorage, err, "register %s", e.Key)
	}
	return result, created, nil
}

func (s *BadgerStore) Get(ctx context.Context, k string) (Entry, error) {
	k, err := normalize(k)
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(k))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return Entry{}, notFound(k)
	}
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeStorage, err, "lookup %s", k)
	}
	return e, nil
}

// List returns entries in key order, which is badger's iteration order.
func (s *BadgerStore) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list registry")
	}
	return out, nil
}

func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "count registry")
	}
	return n, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger adapts a charmbracelet logger to badger.Logger.
type badgerLogger struct {
	l *log.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{})   { b.l.Errorf(format, args...) }
func (b badgerLogger) Warningf(format string, args ...interface{}) { b.l.Warnf(format, args...) }
func (b badgerLogger) Infof(format string, args ...interface{})    { b.l.Debugf(format, args...) }
func (b badgerLogger) Debugf(format string, args ...interface{})   { b.l.Debugf(format, args...) }

var _ Store = (*BadgerStore)(nil)
