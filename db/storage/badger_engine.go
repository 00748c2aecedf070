package storage

import (
	"os"

	"github.com/coocood/badger"
	"github.com/ngaut/log"
	"github.com/pingcap/errors"

	"github.com/ozturkbey/mongo/db/config"
)

// BadgerEngine is an Engine backed by a badger key/value database on disk.
type BadgerEngine struct {
	db   *badger.DB
	path string

	// onApply, if set, is told how many modifications each committed batch
	// carried. The node wires the replication coordinator's position
	// advance in here.
	onApply func(count int)
}

// NewBadgerEngine opens (creating if needed) a badger database under
// conf.DBPath. onApply may be nil.
func NewBadgerEngine(conf *config.Config, onApply func(count int)) (*BadgerEngine, error) {
	if err := os.MkdirAll(conf.DBPath, os.ModePerm); err != nil {
		return nil, errors.Trace(err)
	}

	opts := badger.DefaultOptions
	opts.Dir = conf.DBPath
	opts.ValueDir = conf.DBPath
	opts.SyncWrites = conf.SyncWrites
	opts.ValueThreshold = conf.ValueThreshold
	opts.ValueLogFileSize = conf.VlogFileSize
	opts.MaxTableSize = conf.MaxTableSize
	opts.NumMemtables = conf.NumMemTables
	opts.NumLevelZeroTables = conf.NumL0Tables
	opts.NumCompactors = conf.NumCompactors

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Annotatef(err, "open engine at %s", conf.DBPath)
	}
	log.Infof("storage engine opened at %s", conf.DBPath)
	return &BadgerEngine{db: db, path: conf.DBPath, onApply: onApply}, nil
}

func keyWithCF(cf string, key []byte) []byte {
	return append([]byte(cf+"_"), key...)
}

func (e *BadgerEngine) Write(batch []Modify) error {
	if len(batch) == 0 {
		return nil
	}
	err := e.db.Update(func(txn *badger.Txn) error {
		for _, m := range batch {
			switch data := m.Data.(type) {
			case Put:
				if err := txn.Set(keyWithCF(data.Cf, data.Key), data.Value); err != nil {
					return err
				}
			case Delete:
				if err := txn.Delete(keyWithCF(data.Cf, data.Key)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return errors.Trace(err)
	}
	if e.onApply != nil {
		e.onApply(len(batch))
	}
	return nil
}

func (e *BadgerEngine) GetCF(cf string, key []byte) (val []byte, err error) {
	err = e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyWithCF(cf, key))
		if err != nil {
			return err
		}
		val, err = item.Value()
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	return val, errors.Trace(err)
}

func (e *BadgerEngine) Close() error {
	log.Infof("storage engine at %s closing", e.path)
	return e.db.Close()
}
