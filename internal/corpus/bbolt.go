package corpus

import (
	bolt "go.etcd.io/bbolt"

	"github.com/framework-learner/penrose/internal/errors"
)

// BboltBackend implements Backend on a bbolt file.
type BboltBackend struct {
	db *bolt.DB
}

func NewBboltBackend(dbPath string) (*BboltBackend, error) {
	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open corpus database %s", dbPath)
	}
	return &BboltBackend{db: db}, nil
}

func (b *BboltBackend) EnsureBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

func (b *BboltBackend) Put(bucket, key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return errors.Wrapf(ErrBucketNotFound, "%s", bucket)
		}
		return bkt.Put(key, value)
	})
}

func (b *BboltBackend) Get(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return errors.Wrapf(ErrBucketNotFound, "%s", bucket)
		}
		if v := bkt.Get(key); v != nil {
			// Only valid for the life of the transaction.
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, err
}

func (b *BboltBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return errors.Wrapf(ErrBucketNotFound, "%s", bucket)
		}
		return bkt.ForEach(fn)
	})
}

func (b *BboltBackend) Close() error {
	return b.db.Close()
}
