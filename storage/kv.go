package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// KVStore layers a typed get/put surface over a raw Database, encoding values
// as JSON. Module state records (pools, positions) round-trip through it.
type KVStore struct {
	db Database
}

// NewKVStore wraps the supplied database.
func NewKVStore(db Database) *KVStore {
	return &KVStore{db: db}
}

// KVPut encodes the value and stores it under key.
func (s *KVStore) KVPut(key []byte, value interface{}) error {
	if s == nil || s.db == nil {
		return errors.New("storage: kv store not initialised")
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	return s.db.Put(key, encoded)
}

// KVGet decodes the record stored under key into out. The boolean result
// reports whether the key existed.
func (s *KVStore) KVGet(key []byte, out interface{}) (bool, error) {
	if s == nil || s.db == nil {
		return false, errors.New("storage: kv store not initialised")
	}
	raw, err := s.db.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return true, nil
}
