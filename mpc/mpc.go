package mpc

import (
	"time"

	"github.com/finvault/mpcx/identity"
	"github.com/finvault/mpcx/mpc/compute"
	"github.com/finvault/mpcx/storage"
	"github.com/finvault/mpcx/types"
)

// Exchange is the secure-computation surface of one party. All operations
// act on behalf of the user supplied by the identity provider; when no user
// is authenticated every operation is a no-op or a typed failure, never a
// panic.
type Exchange interface {
	// Initialize generates the session key pair and publishes its public
	// half to the shared store. It reports whether the party is MPC
	// capable afterwards, and is idempotent per process lifetime.
	Initialize() bool

	// CreateRequest encrypts the input for the participant and persists
	// a new requested computation. Fails with types.KeyLookupError when
	// the participant has no published public key.
	CreateRequest(participantID, computationType string,
		input interface{}) (*types.ComputationRequest, error)

	// PollAndProcessPending discovers pending requests addressed to the
	// local party, computes and completes each one independently, and
	// returns the number processed. A failing record is skipped, never
	// aborting its siblings.
	PollAndProcessPending() (int, error)

	// ListCompletedResults returns the decrypted results of completed
	// requests the local party initiated. Each call re-queries the
	// store; records that fail to decrypt are skipped.
	ListCompletedResults() ([]types.ComputationResult, error)

	// PublicKeyOf returns the published public key of a user.
	PublicKeyOf(userID string) (string, error)

	// Start launches the poll daemon; Stop cancels it.
	Start() error
	Stop() error
}

// Configuration gathers the collaborators of an Exchange.
type Configuration struct {
	// Store is the shared record store. Required.
	Store storage.RecordStore

	// Identity supplies the local user. Required.
	Identity identity.Provider

	// PollInterval is the cadence of the pending-request daemon.
	// Zero disables the daemon; user-triggered polls still work.
	PollInterval time.Duration

	// Computations holds additional computation functions, keyed by
	// kind, registered next to the built-in ones.
	Computations map[string]compute.Func
}
