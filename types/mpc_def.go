package types

// Status of a computation request. A request starts as requested and is
// moved to completed exactly once by the participant; there is no other
// transition.
const (
	StatusRequested = "requested"
	StatusCompleted = "completed"
)

// Built-in computation kinds.
const (
	ComputationSum        = "secure_sum"
	ComputationAverage    = "secure_average"
	ComputationComparison = "secure_comparison"
)

// Store collections shared between peers.
const (
	CollectionKeys         = "mpc_keys"
	CollectionComputations = "mpc_computations"
	CollectionTransactions = "transactions"
)

// PublicKeyRecord is the published half of a user's key pair,
// one row per user in the mpc_keys collection.
type PublicKeyRecord struct {
	UserID    string `json:"user_id"`
	PublicKey string `json:"public_key"`
}

// ComputationRequest describes one secure computation exchanged between an
// initiator and a participant through the shared store.
type ComputationRequest struct {
	ID              string `json:"id"`
	InitiatorID     string `json:"initiator_id"`
	ParticipantID   string `json:"participant_id"`
	ComputationType string `json:"computation_type"`
	Status          string `json:"status"`
	EncryptedInput  string `json:"encrypted_input"`
	EncryptedResult string `json:"encrypted_result,omitempty"`
}

// Outcome is what a computation function produces: either a result value or
// a validation error message, never both.
type Outcome struct {
	Result interface{} `json:"result"`
	Error  string      `json:"error,omitempty"`
}

// ComputationResult is a decrypted result held in memory for presentation.
// It is never persisted separately from the request record.
type ComputationResult struct {
	RequestID       string
	ComputationType string
	Value           Outcome
}

// Transaction is one entry of the surrounding app's transaction feed.
type Transaction struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	CreatedAt   int64   `json:"created_at"`
}
