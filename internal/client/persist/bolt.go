package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	boltBucketState    = "state"    // key: namespace -> Envelope JSON
	boltBucketMetadata = "metadata" // key: metadata key -> raw value
)

// BoltBackend stores envelopes in a bbolt file.
type BoltBackend struct {
	storage *bbolt.DB
}

// NewBoltBackend opens (creating if needed) the bbolt database at path.
func NewBoltBackend(path string) (*BoltBackend, error) {
	instance, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(boltBucketState)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(boltBucketMetadata)); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = instance.Close()
		return nil, err
	}

	return &BoltBackend{storage: instance}, nil
}

func (b *BoltBackend) Load(_ context.Context, namespace string) (Envelope, bool, error) {
	var (
		env Envelope
		ok  bool
	)
	err := b.storage.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(boltBucketState)).Get([]byte(namespace))
		if data == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(data, &env)
	})
	if err != nil {
		return Envelope{}, false, fmt.Errorf("load %s: %w", namespace, err)
	}
	return env, ok, nil
}

func (b *BoltBackend) Save(_ context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope %s: %w", env.Namespace, err)
	}
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketState)).Put([]byte(env.Namespace), data)
	})
}

func (b *BoltBackend) Delete(_ context.Context, namespace string) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketState)).Delete([]byte(namespace))
	})
}

func (b *BoltBackend) GetMeta(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.storage.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(boltBucketMetadata)).Get([]byte(key)); v != nil {
			// bbolt values are only valid inside the transaction
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, err
}

func (b *BoltBackend) SetMeta(_ context.Context, key string, value []byte) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketMetadata)).Put([]byte(key), value)
	})
}

func (b *BoltBackend) DeleteMeta(_ context.Context, key string) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketMetadata)).Delete([]byte(key))
	})
}

func (b *BoltBackend) Clear(_ context.Context) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{boltBucketState, boltBucketMetadata} {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BoltBackend) Close() error {
	return b.storage.Close()
}
