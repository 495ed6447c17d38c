package impl

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/finvault/mpcx/mpc"
	"github.com/finvault/mpcx/mpc/compute"
	"github.com/finvault/mpcx/mpc/impl/keys"
	"github.com/finvault/mpcx/mpc/impl/lifecycle"
	"github.com/finvault/mpcx/types"
)

// NewExchange creates the secure-computation exchange of one party.
func NewExchange(conf mpc.Configuration) mpc.Exchange {
	e := exchange{}
	e.conf = &conf

	e.registry = compute.NewRegistry()
	for kind, fn := range conf.Computations {
		e.registry.Register(kind, fn)
	}

	e.keys = keys.NewKeyModule(e.conf)
	e.lifecycle = lifecycle.NewLifecycleModule(e.conf, e.keys, e.registry)

	return &e
}

// exchange implements one party of the secure-computation protocol
//
// - implements mpc.Exchange
type exchange struct {
	conf *mpc.Configuration

	registry  *compute.Registry
	keys      *keys.KeyModule
	lifecycle *lifecycle.LifecycleModule

	stopSig context.CancelFunc
}

// Initialize implements mpc.Exchange.
func (e *exchange) Initialize() bool {
	userID, ok := e.conf.Identity.CurrentUserID()
	if !ok {
		return false
	}
	return e.keys.Initialize(userID)
}

// CreateRequest implements mpc.Exchange.
func (e *exchange) CreateRequest(participantID, computationType string,
	input interface{}) (*types.ComputationRequest, error) {
	userID, ok := e.conf.Identity.CurrentUserID()
	if !ok {
		return nil, xerrors.Errorf("not authenticated")
	}
	return e.lifecycle.CreateRequest(userID, participantID, computationType, input)
}

// PollAndProcessPending implements mpc.Exchange.
func (e *exchange) PollAndProcessPending() (int, error) {
	userID, ok := e.conf.Identity.CurrentUserID()
	if !ok {
		return 0, nil
	}
	return e.lifecycle.PollAndProcessPending(userID)
}

// ListCompletedResults implements mpc.Exchange.
func (e *exchange) ListCompletedResults() ([]types.ComputationResult, error) {
	userID, ok := e.conf.Identity.CurrentUserID()
	if !ok {
		return []types.ComputationResult{}, nil
	}
	return e.lifecycle.ListCompletedResults(userID)
}

// PublicKeyOf implements mpc.Exchange.
func (e *exchange) PublicKeyOf(userID string) (string, error) {
	return e.keys.PublicKeyOf(userID)
}

// Start implements mpc.Exchange.
func (e *exchange) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	e.stopSig = cancel

	return e.PollDaemon(ctx, e.conf.PollInterval)
}

// Stop implements mpc.Exchange.
func (e *exchange) Stop() error {
	if e.stopSig != nil {
		e.stopSig()
	}
	return nil
}
