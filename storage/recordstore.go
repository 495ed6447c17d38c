package storage

import (
	"encoding/json"
	"sync"

	"github.com/rs/xid"
	"golang.org/x/xerrors"
)

// Record is one schemaless row of a collection.
type Record map[string]interface{}

// Predicate selects records in a query.
type Predicate func(Record) bool

// RecordStore is the shared store mediating all inter-party exchange.
// Implementations must make each single-record write atomic; the MPC core
// performs no locking of its own.
type RecordStore interface {
	// Upsert inserts the record or replaces the existing one matching it
	// on the given key fields.
	Upsert(collection string, rec Record, keyFields ...string) error

	// Insert adds the record, assigning a generated unique id, and
	// returns the stored copy.
	Insert(collection string, rec Record) (Record, error)

	// SelectOne returns the first record matching the predicate.
	SelectOne(collection string, pred Predicate) (Record, bool, error)

	// SelectAll returns every record matching the predicate, in
	// insertion order.
	SelectAll(collection string, pred Predicate) ([]Record, error)

	// Update merges the patch into the record with the given id.
	Update(collection string, id string, patch Record) error

	// UpdateWhere merges the patch only if the stored record still
	// matches the predicate, and reports whether it did. The check and
	// the write are one atomic step.
	UpdateWhere(collection string, id string, pred Predicate, patch Record) (bool, error)
}

// BasicStore implements an in-memory RecordStore.
type BasicStore struct {
	*sync.RWMutex

	collections map[string]map[string]Record
	order       map[string][]string
}

func NewBasicStore() *BasicStore {
	return &BasicStore{
		RWMutex:     &sync.RWMutex{},
		collections: make(map[string]map[string]Record),
		order:       make(map[string][]string),
	}
}

func (s *BasicStore) Upsert(collection string, rec Record, keyFields ...string) error {
	if len(keyFields) == 0 {
		return xerrors.Errorf("upsert on %s without key fields", collection)
	}

	s.Lock()
	defer s.Unlock()

	match := func(existing Record) bool {
		for _, field := range keyFields {
			if existing[field] != rec[field] {
				return false
			}
		}
		return true
	}

	coll := s.collection(collection)
	for _, id := range s.order[collection] {
		if match(coll[id]) {
			merged := coll[id].Copy()
			for k, v := range rec {
				merged[k] = v
			}
			coll[id] = merged
			return nil
		}
	}

	s.insertLocked(collection, rec)
	return nil
}

func (s *BasicStore) Insert(collection string, rec Record) (Record, error) {
	s.Lock()
	defer s.Unlock()

	stored := s.insertLocked(collection, rec)
	return stored.Copy(), nil
}

func (s *BasicStore) SelectOne(collection string, pred Predicate) (Record, bool, error) {
	s.RLock()
	defer s.RUnlock()

	coll := s.collections[collection]
	for _, id := range s.order[collection] {
		if pred(coll[id]) {
			return coll[id].Copy(), true, nil
		}
	}
	return nil, false, nil
}

func (s *BasicStore) SelectAll(collection string, pred Predicate) ([]Record, error) {
	s.RLock()
	defer s.RUnlock()

	coll := s.collections[collection]
	records := []Record{}
	for _, id := range s.order[collection] {
		if pred(coll[id]) {
			records = append(records, coll[id].Copy())
		}
	}
	return records, nil
}

func (s *BasicStore) Update(collection string, id string, patch Record) error {
	s.Lock()
	defer s.Unlock()

	return s.updateLocked(collection, id, patch)
}

func (s *BasicStore) UpdateWhere(collection string, id string,
	pred Predicate, patch Record) (bool, error) {
	s.Lock()
	defer s.Unlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return false, xerrors.Errorf("no record %s in %s", id, collection)
	}
	if !pred(rec) {
		return false, nil
	}
	return true, s.updateLocked(collection, id, patch)
}

// collection returns the named collection, creating it if needed.
// Callers must hold the write lock.
func (s *BasicStore) collection(name string) map[string]Record {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]Record)
		s.collections[name] = coll
	}
	return coll
}

func (s *BasicStore) insertLocked(collection string, rec Record) Record {
	stored := rec.Copy()
	id := xid.New().String()
	stored["id"] = id

	s.collection(collection)[id] = stored
	s.order[collection] = append(s.order[collection], id)
	return stored
}

func (s *BasicStore) updateLocked(collection string, id string, patch Record) error {
	coll := s.collections[collection]
	rec, ok := coll[id]
	if !ok {
		return xerrors.Errorf("no record %s in %s", id, collection)
	}

	merged := rec.Copy()
	for k, v := range patch {
		merged[k] = v
	}
	coll[id] = merged
	return nil
}

// Copy returns a shallow copy of the record. Field values are scalars for
// every collection this core uses, so sharing them is safe.
func (r Record) Copy() Record {
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// Decode converts a record into a typed value through JSON.
func Decode(rec Record, out interface{}) error {
	bytes, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, out)
}

// Encode converts a typed value into a record through JSON.
func Encode(value interface{}) (Record, error) {
	bytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	rec := Record{}
	err = json.Unmarshal(bytes, &rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
