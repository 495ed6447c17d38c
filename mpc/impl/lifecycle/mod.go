package lifecycle

import (
	"github.com/ethereum/go-ethereum/crypto/ecies"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/finvault/mpcx/mpc"
	"github.com/finvault/mpcx/mpc/compute"
	"github.com/finvault/mpcx/mpc/impl/envelope"
	"github.com/finvault/mpcx/mpc/impl/keys"
	"github.com/finvault/mpcx/storage"
	"github.com/finvault/mpcx/types"
)

// LifecycleModule drives computation requests through their state machine:
// requested on creation by the initiator, completed exactly once by the
// participant. There is no cancellation and no expiry; an unpolled request
// stays requested forever.
type LifecycleModule struct {
	conf *mpc.Configuration

	keys     *keys.KeyModule
	registry *compute.Registry
}

func NewLifecycleModule(conf *mpc.Configuration, keyModule *keys.KeyModule,
	registry *compute.Registry) *LifecycleModule {
	return &LifecycleModule{
		conf:     conf,
		keys:     keyModule,
		registry: registry,
	}
}

/** Feature Functions **/

// CreateRequest encrypts the input under the participant's published key
// and persists a new requested record. The initiator cannot decrypt its
// own outbound envelope.
func (m *LifecycleModule) CreateRequest(initiatorID, participantID,
	computationType string, input interface{}) (*types.ComputationRequest, error) {
	if initiatorID == participantID {
		return nil, xerrors.Errorf("cannot request a computation with oneself")
	}

	participantKey, err := m.keys.PublicKeyOf(participantID)
	if err != nil {
		return nil, err
	}

	sealed, err := envelope.Seal(input, participantKey)
	if err != nil {
		return nil, xerrors.Errorf("seal input: %w", err)
	}

	request := types.ComputationRequest{
		InitiatorID:     initiatorID,
		ParticipantID:   participantID,
		ComputationType: computationType,
		Status:          types.StatusRequested,
		EncryptedInput:  sealed,
	}
	rec, err := storage.Encode(request)
	if err != nil {
		return nil, xerrors.Errorf("encode request: %w", err)
	}
	delete(rec, "id") // assigned by the store

	stored, err := m.conf.Store.Insert(types.CollectionComputations, rec)
	if err != nil {
		return nil, xerrors.Errorf("persist request: %w",
			&types.StoreError{Op: "write", Collection: types.CollectionComputations, Err: err})
	}

	err = storage.Decode(stored, &request)
	if err != nil {
		return nil, xerrors.Errorf("decode stored request: %w", err)
	}

	log.Info().Msgf("%s: requested %s computation %s from %s",
		initiatorID, computationType, request.ID, participantID)
	return &request, nil
}

// PollAndProcessPending queries the store for requests addressed to the
// local party that are still requested, and completes each one
// independently. A record that fails to decrypt, dispatch or persist is
// logged and skipped; it never aborts its siblings. Returns the number of
// requests completed by this call.
func (m *LifecycleModule) PollAndProcessPending(localUserID string) (int, error) {
	records, err := m.conf.Store.SelectAll(types.CollectionComputations,
		func(r storage.Record) bool {
			return r["participant_id"] == localUserID &&
				r["status"] == types.StatusRequested
		})
	if err != nil {
		return 0, xerrors.Errorf("query pending requests: %w",
			&types.StoreError{Op: "read", Collection: types.CollectionComputations, Err: err})
	}

	privkey, ok := m.keys.LocalPrivateKey(localUserID)
	if !ok {
		// no session key, nothing can be decrypted
		log.Warn().Msgf("%s: %d pending requests but no session key",
			localUserID, len(records))
		return 0, nil
	}

	processed := 0
	for _, rec := range records {
		request := types.ComputationRequest{}
		err := storage.Decode(rec, &request)
		if err != nil {
			log.Warn().Msgf("%s: skip malformed request record: %s", localUserID, err)
			continue
		}

		ok, err := m.processOne(&request, privkey)
		if err != nil {
			log.Warn().Msgf("%s: skip request %s: %s", localUserID, request.ID, err)
			continue
		}
		if ok {
			processed++
		}
	}
	return processed, nil
}

/** Private Helper Functions **/

// processOne computes and completes a single pending request. The returned
// bool is false when another poller completed the record first.
func (m *LifecycleModule) processOne(request *types.ComputationRequest,
	privkey *ecies.PrivateKey) (bool, error) {
	input, err := envelope.Open(request.EncryptedInput, privkey)
	if err != nil {
		return false, err
	}

	outcome, err := m.registry.Dispatch(request.ComputationType, input)
	if err != nil {
		return false, err
	}

	// the result goes back under the initiator's key, not ours
	initiatorKey, err := m.keys.PublicKeyOf(request.InitiatorID)
	if err != nil {
		return false, err
	}
	sealed, err := envelope.Seal(outcome, initiatorKey)
	if err != nil {
		return false, err
	}

	// conditional transition: whoever still sees the record requested
	// completes it, a concurrent poller that lost simply moves on
	claimed, err := m.conf.Store.UpdateWhere(types.CollectionComputations,
		request.ID,
		func(r storage.Record) bool {
			return r["status"] == types.StatusRequested
		},
		storage.Record{
			"status":           types.StatusCompleted,
			"encrypted_result": sealed,
		})
	if err != nil {
		return false, &types.StoreError{
			Op:         "write",
			Collection: types.CollectionComputations,
			Err:        err,
		}
	}
	if !claimed {
		log.Info().Msgf("request %s already completed by a concurrent poller", request.ID)
		return false, nil
	}

	log.Info().Msgf("completed %s computation %s for %s",
		request.ComputationType, request.ID, request.InitiatorID)
	return true, nil
}
