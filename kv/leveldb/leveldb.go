// Package leveldb implements a durable kv.KeyValueStore backed by
// github.com/syndtr/goleveldb/leveldb.
package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/baals/baals-go/kv"
)

// Database wraps a goleveldb instance.
type Database struct {
	db *leveldb.DB
}

// New opens (creating if absent) a leveldb database at path.
func New(path string) (*Database, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func (d *Database) Has(key []byte) (bool, error) {
	return d.db.Has(key, nil)
}

func (d *Database) Get(key []byte) ([]byte, error) {
	v, err := d.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, errors.ErrNotFound
	}
	return v, err
}

func (d *Database) Put(key, value []byte) error {
	return d.db.Put(key, value, nil)
}

func (d *Database) Delete(key []byte) error {
	return d.db.Delete(key, nil)
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) NewBatch() kv.Batch {
	return &batch{db: d.db, b: new(leveldb.Batch)}
}

func (d *Database) NewIterator(prefix []byte, rev bool) kv.Iterator {
	it := d.db.NewIterator(util.BytesPrefix(prefix), nil)
	return &iterator{it: it, rev: rev, started: false}
}

type iterator struct {
	it      ldbIterator
	rev     bool
	started bool
}

// ldbIterator is satisfied by *leveldb/iterator.Iterator; named locally
// to keep the import list short.
type ldbIterator interface {
	Next() bool
	Prev() bool
	Last() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}

func (it *iterator) Next() bool {
	if !it.started {
		it.started = true
		if it.rev {
			return it.it.Last()
		}
		return it.it.Next()
	}
	if it.rev {
		return it.it.Prev()
	}
	return it.it.Next()
}

func (it *iterator) Error() error { return it.it.Error() }
func (it *iterator) Key() []byte {
	if k := it.it.Key(); k != nil {
		return append([]byte(nil), k...)
	}
	return nil
}
func (it *iterator) Value() []byte {
	if v := it.it.Value(); v != nil {
		return append([]byte(nil), v...)
	}
	return nil
}
func (it *iterator) Release() { it.it.Release() }

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) ValueSize() int { return b.b.Len() }

func (b *batch) Write() error {
	return b.db.Write(b.b, nil)
}

func (b *batch) Reset() {
	b.b.Reset()
}
