package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/finvault/mpcx/httpserver"
	"github.com/finvault/mpcx/identity"
	"github.com/finvault/mpcx/ledger"
	"github.com/finvault/mpcx/mpc"
	"github.com/finvault/mpcx/mpc/impl"
	"github.com/finvault/mpcx/storage"
)

// -----------------------------------------------------------------------------
// Session

// session is a local sandbox: one shared in-memory store and one exchange
// per user, so requests between users complete inside a single process.
type session struct {
	store     storage.RecordStore
	exchanges map[string]mpc.Exchange
	ledgers   map[string]*ledger.LedgerModule
	current   string
}

func newSession() *session {
	return &session{
		store:     storage.NewBasicStore(),
		exchanges: make(map[string]mpc.Exchange),
		ledgers:   make(map[string]*ledger.LedgerModule),
	}
}

// use switches to the given user, creating and initializing their
// exchange on first use.
func (s *session) use(userID string) error {
	if _, ok := s.exchanges[userID]; !ok {
		provider := identity.NewStaticProvider(userID)
		exchange := impl.NewExchange(mpc.Configuration{
			Store:    s.store,
			Identity: provider,
		})
		if !exchange.Initialize() {
			return fmt.Errorf("cannot initialize MPC for %s", userID)
		}
		s.exchanges[userID] = exchange
		s.ledgers[userID] = ledger.NewLedgerModule(s.store, provider)
	}
	s.current = userID
	return nil
}

func (s *session) exchange() mpc.Exchange {
	return s.exchanges[s.current]
}

func (s *session) ledger() *ledger.LedgerModule {
	return s.ledgers[s.current]
}

// -----------------------------------------------------------------------------
// Start CMD

// StartCMD runs the interactive sandbox CLI.
func StartCMD(userID string) {
	sess := newSession()
	err := sess.use(userID)
	if err != nil {
		fmt.Println(err)
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		os.Exit(1)
	}()

	performActions(sess)
}

// StartDaemon runs one party against the given configuration until
// terminated.
func StartDaemon(conf *mpc.FileConfig, store storage.RecordStore) error {
	provider := identity.NewStaticProvider(conf.UserID)
	exchange := impl.NewExchange(mpc.Configuration{
		Store:        store,
		Identity:     provider,
		PollInterval: conf.PollInterval(),
	})

	if !exchange.Initialize() {
		return fmt.Errorf("cannot initialize MPC for %s", conf.UserID)
	}
	err := exchange.Start()
	if err != nil {
		return err
	}
	defer exchange.Stop()

	log.Info().Msgf("%s: daemon started, polling every %s",
		conf.UserID, conf.PollInterval())

	if conf.ListenAddr != "" {
		ledgerModule := ledger.NewLedgerModule(store, provider)
		return httpserver.NewServer(exchange, ledgerModule).Run(conf.ListenAddr)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	return nil
}
