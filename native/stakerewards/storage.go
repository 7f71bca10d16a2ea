package stakerewards

import (
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"stakeledger/core/events"
	"stakeledger/core/types"
)

// stateKV abstracts the subset of key-value functionality the reward ledger
// requires from the surrounding state manager.
type stateKV interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

var (
	poolKey        = []byte("stakerewards/pool")
	positionPrefix = []byte("stakerewards/position/")
)

func positionKey(account [20]byte) []byte {
	digest := ethcrypto.Keccak256(account[:])
	return []byte(fmt.Sprintf("%s%x", positionPrefix, digest))
}

// Store is a ledgerState implementation persisting pool and position records
// through a KV backend. Events raised during an operation are buffered until
// the host drains them.
type Store struct {
	kv              stateKV
	defaultDuration uint64
	events          []*types.Event
}

// NewStore binds a store to the supplied KV backend. The default duration
// seeds the pool record on first access.
func NewStore(kv stateKV, defaultDuration uint64) *Store {
	return &Store{kv: kv, defaultDuration: defaultDuration}
}

// RewardPool loads the global pool record, materialising an empty pool with
// the default window length when none was persisted yet.
func (s *Store) RewardPool() (*Pool, error) {
	if s == nil || s.kv == nil {
		return nil, errors.New("stakerewards: store not initialised")
	}
	pool := new(Pool)
	ok, err := s.kv.KVGet(poolKey, pool)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewPool(s.defaultDuration), nil
	}
	pool.normalize()
	return pool, nil
}

// PutRewardPool persists the global pool record.
func (s *Store) PutRewardPool(pool *Pool) error {
	if s == nil || s.kv == nil {
		return errors.New("stakerewards: store not initialised")
	}
	if pool == nil {
		return errNilPool
	}
	return s.kv.KVPut(poolKey, pool)
}

// Position loads the account's position record, or nil when none exists.
func (s *Store) Position(account [20]byte) (*Position, error) {
	if s == nil || s.kv == nil {
		return nil, errors.New("stakerewards: store not initialised")
	}
	position := new(Position)
	ok, err := s.kv.KVGet(positionKey(account), position)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	position.normalize()
	return position, nil
}

// PutPosition persists the account's position record.
func (s *Store) PutPosition(position *Position) error {
	if s == nil || s.kv == nil {
		return errors.New("stakerewards: store not initialised")
	}
	if position == nil {
		return errors.New("stakerewards: position required")
	}
	return s.kv.KVPut(positionKey(position.Account), position)
}

// AppendEvent buffers an event raised by the engine.
func (s *Store) AppendEvent(evt *types.Event) {
	if s == nil || evt == nil {
		return
	}
	s.events = append(s.events, evt)
}

// Events returns the buffered events in emission order.
func (s *Store) Events() []*types.Event {
	if s == nil {
		return nil
	}
	return s.events
}

// DrainEvents returns the buffered events and clears the buffer.
func (s *Store) DrainEvents() []*types.Event {
	if s == nil {
		return nil
	}
	drained := s.events
	s.events = nil
	return drained
}

// PublishEvents drains the buffered events into the emitter in emission
// order. A nil emitter leaves the buffer untouched.
func (s *Store) PublishEvents(emitter events.Emitter) {
	if s == nil || emitter == nil {
		return
	}
	for _, evt := range s.DrainEvents() {
		emitter.Emit(evt)
	}
}
