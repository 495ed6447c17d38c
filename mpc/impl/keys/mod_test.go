package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/finvault/mpcx/identity"
	"github.com/finvault/mpcx/mpc"
	"github.com/finvault/mpcx/storage"
	"github.com/finvault/mpcx/types"
)

func newTestModule(store storage.RecordStore) *KeyModule {
	return NewKeyModule(&mpc.Configuration{
		Store:    store,
		Identity: identity.NewStaticProvider("alice"),
	})
}

func Test_Keys_Initialize_Publishes_Pubkey(t *testing.T) {
	store := storage.NewBasicStore()
	module := newTestModule(store)

	require.True(t, module.Initialize("alice"))

	privkey, ok := module.LocalPrivateKey("alice")
	require.True(t, ok)
	require.NotNil(t, privkey)

	published, err := module.PublicKeyOf("alice")
	require.NoError(t, err)
	require.NotEmpty(t, published)
}

func Test_Keys_Initialize_Is_Idempotent(t *testing.T) {
	store := storage.NewBasicStore()
	module := newTestModule(store)

	require.True(t, module.Initialize("alice"))
	first, _ := module.LocalPrivateKey("alice")

	require.True(t, module.Initialize("alice"))
	second, _ := module.LocalPrivateKey("alice")

	// the cached pair is reused within the process
	require.Same(t, first, second)

	// and only one row is published
	records, err := store.SelectAll(types.CollectionKeys,
		func(storage.Record) bool { return true })
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func Test_Keys_Initialize_Reports_Publish_Failure(t *testing.T) {
	module := newTestModule(&brokenStore{})

	require.False(t, module.Initialize("alice"))

	// the pair itself is retained, only the publication failed
	_, ok := module.LocalPrivateKey("alice")
	require.True(t, ok)
}

func Test_Keys_Lookup_Absent_User(t *testing.T) {
	module := newTestModule(storage.NewBasicStore())

	_, err := module.PublicKeyOf("nobody")
	require.Error(t, err)

	lookupErr := &types.KeyLookupError{}
	require.True(t, xerrors.As(err, &lookupErr))
	require.Equal(t, "nobody", lookupErr.UserID)
}

func Test_Keys_LocalPrivateKey_Absent(t *testing.T) {
	module := newTestModule(storage.NewBasicStore())

	_, ok := module.LocalPrivateKey("alice")
	require.False(t, ok)
}

// -----------------------------------------------------------------------------
// Utility

// brokenStore fails every operation.
type brokenStore struct{}

func (s *brokenStore) Upsert(string, storage.Record, ...string) error {
	return xerrors.Errorf("store is down")
}

func (s *brokenStore) Insert(string, storage.Record) (storage.Record, error) {
	return nil, xerrors.Errorf("store is down")
}

func (s *brokenStore) SelectOne(string, storage.Predicate) (storage.Record, bool, error) {
	return nil, false, xerrors.Errorf("store is down")
}

func (s *brokenStore) SelectAll(string, storage.Predicate) ([]storage.Record, error) {
	return nil, xerrors.Errorf("store is down")
}

func (s *brokenStore) Update(string, string, storage.Record) error {
	return xerrors.Errorf("store is down")
}

func (s *brokenStore) UpdateWhere(string, string, storage.Predicate, storage.Record) (bool, error) {
	return false, xerrors.Errorf("store is down")
}
