package benchdb

import (
	"sync"

	"github.com/Aurorachain/go-opbench/log"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	minCache   = 16
	minHandles = 16
)

// Database is a LevelDB key/value store.
type Database struct {
	fn       string      // filename for reporting
	db       *leveldb.DB // LevelDB instance
	quitLock sync.Mutex  // Mutex protecting close
	closed   bool
}

// New opens (or creates) an on-disk database, recovering it if the
// manifest is corrupted.
func New(file string, cache int, handles int) (*Database, error) {
	if cache < minCache {
		cache = minCache
	}
	if handles < minHandles {
		handles = minHandles
	}
	logger := log.New("database", file)
	logger.Info("Allocated cache and file handles", "cache", cache, "handles", handles)

	db, err := leveldb.OpenFile(file, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		logger.Warn("Recovering corrupted database")
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &Database{fn: file, db: db}, nil
}

// NewMemory returns a database kept entirely in memory.
func NewMemory() (*Database, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &Database{fn: ":memory:", db: db}, nil
}

// Path returns the path to the database directory.
func (db *Database) Path() string {
	return db.fn
}

func (db *Database) Has(key []byte) (bool, error) {
	return db.db.Has(key, nil)
}

func (db *Database) Get(key []byte) ([]byte, error) {
	return db.db.Get(key, nil)
}

func (db *Database) Put(key []byte, value []byte) error {
	return db.db.Put(key, value, nil)
}

func (db *Database) Delete(key []byte) error {
	return db.db.Delete(key, nil)
}

// NewIteratorWithPrefix iterates the keys starting with prefix in
// ascending order.
func (db *Database) NewIteratorWithPrefix(prefix []byte) iterator.Iterator {
	return db.db.NewIterator(util.BytesPrefix(prefix), nil)
}

func (db *Database) NewBatch() *Batch {
	return &Batch{db: db.db, b: new(leveldb.Batch)}
}

func (db *Database) Close() error {
	db.quitLock.Lock()
	defer db.quitLock.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true
	return db.db.Close()
}

// Batch is a write-only batch that commits atomically.
type Batch struct {
	db   *leveldb.DB
	b    *leveldb.Batch
	size int
}

func (b *Batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	b.size += len(value)
	return nil
}

func (b *Batch) ValueSize() int {
	return b.size
}

func (b *Batch) Write() error {
	return b.db.Write(b.b, nil)
}

func (b *Batch) Reset() {
	b.b.Reset()
	b.size = 0
}
