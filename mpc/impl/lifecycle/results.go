package lifecycle

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/finvault/mpcx/mpc/impl/envelope"
	"github.com/finvault/mpcx/storage"
	"github.com/finvault/mpcx/types"
)

// ListCompletedResults queries the completed requests the local party
// initiated and decrypts each result. A record whose envelope cannot be
// opened is skipped, not fatal. Every call re-queries the store; nothing
// is cached between calls.
func (m *LifecycleModule) ListCompletedResults(initiatorID string) ([]types.ComputationResult, error) {
	records, err := m.conf.Store.SelectAll(types.CollectionComputations,
		func(r storage.Record) bool {
			return r["initiator_id"] == initiatorID &&
				r["status"] == types.StatusCompleted
		})
	if err != nil {
		return nil, xerrors.Errorf("query completed requests: %w",
			&types.StoreError{Op: "read", Collection: types.CollectionComputations, Err: err})
	}

	privkey, ok := m.keys.LocalPrivateKey(initiatorID)
	if !ok {
		log.Warn().Msgf("%s: %d completed requests but no session key",
			initiatorID, len(records))
		return []types.ComputationResult{}, nil
	}

	results := []types.ComputationResult{}
	for _, rec := range records {
		request := types.ComputationRequest{}
		err := storage.Decode(rec, &request)
		if err != nil {
			log.Warn().Msgf("%s: skip malformed request record: %s", initiatorID, err)
			continue
		}
		if request.EncryptedResult == "" {
			continue
		}

		plain, err := envelope.Open(request.EncryptedResult, privkey)
		if err != nil {
			log.Warn().Msgf("%s: skip result of request %s: %s",
				initiatorID, request.ID, err)
			continue
		}

		outcome := types.Outcome{}
		err = json.Unmarshal(plain, &outcome)
		if err != nil {
			log.Warn().Msgf("%s: skip result of request %s: %s",
				initiatorID, request.ID, err)
			continue
		}

		results = append(results, types.ComputationResult{
			RequestID:       request.ID,
			ComputationType: request.ComputationType,
			Value:           outcome,
		})
	}
	return results, nil
}
