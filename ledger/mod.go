package ledger

import (
	"sort"
	"time"

	"golang.org/x/xerrors"

	"github.com/finvault/mpcx/identity"
	"github.com/finvault/mpcx/storage"
	"github.com/finvault/mpcx/types"
)

// Transaction kinds.
const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

const defaultFeedLimit = 10

// LedgerModule is the transaction feed of the surrounding app. It shares
// the record store with the MPC core but no protocol state.
type LedgerModule struct {
	store    storage.RecordStore
	identity identity.Provider
}

func NewLedgerModule(store storage.RecordStore, provider identity.Provider) *LedgerModule {
	return &LedgerModule{
		store:    store,
		identity: provider,
	}
}

// Add appends a transaction to the feed.
func (m *LedgerModule) Add(description string, amount float64, txnType string) (*types.Transaction, error) {
	if _, ok := m.identity.CurrentUserID(); !ok {
		return nil, xerrors.Errorf("not authenticated")
	}
	if txnType != TypeExpense && txnType != TypeIncome {
		return nil, xerrors.Errorf("unknown transaction type: %s", txnType)
	}

	txn := types.Transaction{
		Description: description,
		Amount:      amount,
		Type:        txnType,
		CreatedAt:   time.Now().Unix(),
	}
	rec, err := storage.Encode(txn)
	if err != nil {
		return nil, err
	}
	delete(rec, "id")

	stored, err := m.store.Insert(types.CollectionTransactions, rec)
	if err != nil {
		return nil, xerrors.Errorf("persist transaction: %w",
			&types.StoreError{Op: "write", Collection: types.CollectionTransactions, Err: err})
	}

	err = storage.Decode(stored, &txn)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// Recent returns the latest transactions, newest first. A non-positive
// limit falls back to the default feed size.
func (m *LedgerModule) Recent(limit int) ([]types.Transaction, error) {
	if _, ok := m.identity.CurrentUserID(); !ok {
		return []types.Transaction{}, nil
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	records, err := m.store.SelectAll(types.CollectionTransactions,
		func(storage.Record) bool { return true })
	if err != nil {
		return nil, xerrors.Errorf("query transactions: %w",
			&types.StoreError{Op: "read", Collection: types.CollectionTransactions, Err: err})
	}

	txns := make([]types.Transaction, 0, len(records))
	for _, rec := range records {
		txn := types.Transaction{}
		if err := storage.Decode(rec, &txn); err != nil {
			continue
		}
		txns = append(txns, txn)
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].CreatedAt > txns[j].CreatedAt
	})
	if len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}
