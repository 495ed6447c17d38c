package keys

import (
	"sync"

	"github.com/ethereum/go-ethereum/crypto/ecies"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/finvault/mpcx/mpc"
	"github.com/finvault/mpcx/mpc/impl/envelope"
	"github.com/finvault/mpcx/storage"
	"github.com/finvault/mpcx/types"
)

// KeyModule owns the session key pairs: the private half lives only in
// this struct for the process lifetime, the public half is published to
// the shared store on initialization.
type KeyModule struct {
	conf *mpc.Configuration

	pairs *safeKeyTable
}

func NewKeyModule(conf *mpc.Configuration) *KeyModule {
	return &KeyModule{
		conf:  conf,
		pairs: newSafeKeyTable(),
	}
}

/** Feature Functions **/

// Initialize generates a key pair for the user and upserts the public
// half into the mpc_keys collection. Re-invocation within the same
// process reuses the cached pair. Reports false when the store write
// fails; the caller must not assume MPC capability then.
func (m *KeyModule) Initialize(userID string) bool {
	privkey, ok := m.pairs.get(userID)
	if !ok {
		fresh, err := envelope.GenerateKey()
		if err != nil {
			log.Error().Msgf("%s: generate key pair: %s", userID, err)
			return false
		}
		privkey = fresh
		m.pairs.add(userID, privkey)
	}

	rec, err := storage.Encode(types.PublicKeyRecord{
		UserID:    userID,
		PublicKey: envelope.EncodePublicKey(&privkey.PublicKey),
	})
	if err != nil {
		log.Error().Msgf("%s: encode public key record: %s", userID, err)
		return false
	}

	err = m.conf.Store.Upsert(types.CollectionKeys, rec, "user_id")
	if err != nil {
		log.Error().Msgf("%s: publish public key: %s", userID, err)
		return false
	}
	return true
}

// LocalPrivateKey returns the session private key of the user, if
// initialized in this process.
func (m *KeyModule) LocalPrivateKey(userID string) (*ecies.PrivateKey, bool) {
	return m.pairs.get(userID)
}

// PublicKeyOf looks up the published public key of any user. Fails with
// types.KeyLookupError when none is published.
func (m *KeyModule) PublicKeyOf(userID string) (string, error) {
	rec, found, err := m.conf.Store.SelectOne(types.CollectionKeys,
		func(r storage.Record) bool {
			return r["user_id"] == userID
		})
	if err != nil {
		return "", xerrors.Errorf("lookup public key: %w",
			&types.StoreError{Op: "read", Collection: types.CollectionKeys, Err: err})
	}
	if !found {
		return "", &types.KeyLookupError{UserID: userID}
	}

	pubkey := types.PublicKeyRecord{}
	err = storage.Decode(rec, &pubkey)
	if err != nil {
		return "", xerrors.Errorf("decode public key record: %w", err)
	}
	return pubkey.PublicKey, nil
}

/** Private Helper Structures **/

// safeKeyTable implements a thread-safe user -> private key table
type safeKeyTable struct {
	*sync.RWMutex
	table map[string]*ecies.PrivateKey
}

func newSafeKeyTable() *safeKeyTable {
	return &safeKeyTable{
		RWMutex: &sync.RWMutex{},
		table:   make(map[string]*ecies.PrivateKey),
	}
}

func (t *safeKeyTable) add(key string, val *ecies.PrivateKey) {
	t.Lock()
	defer t.Unlock()
	t.table[key] = val
}

func (t *safeKeyTable) get(key string) (*ecies.PrivateKey, bool) {
	t.RLock()
	val, ok := t.table[key]
	t.RUnlock()
	return val, ok
}
